// Command gymctl is the operator's terminal front end to the gym
// back-office: it logs in, lists and edits members and equipment, reads
// support queries and app users, and manages the operator's own profile.
// `gymctl serve` runs an in-memory backend for local use.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"alcyxob/gym-backoffice/internal/api"
	"alcyxob/gym-backoffice/internal/config"
	"alcyxob/gym-backoffice/internal/nav"
	"alcyxob/gym-backoffice/internal/service"
	"alcyxob/gym-backoffice/internal/session"
	"alcyxob/gym-backoffice/internal/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// app is everything a subcommand needs, built once from config.
type app struct {
	cfg       config.Config
	session   *session.Session
	guard     *api.Guard
	auth      service.AuthService
	members   service.MemberService
	equipment service.EquipmentService
	support   service.SupportService
	profile   service.ProfileService
	users     service.UserService
	linker    storage.Linker
	navigator nav.Navigator
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
	// offline commands do not need a backend URL
	offline bool
}

var commands map[string]command

// Assigned in init: the handlers read commands back for their usage text.
func init() {
	commands = map[string]command{
		"login":            {usage: "login -email EMAIL [-password PASSWORD]", run: runLogin},
		"logout":           {usage: "logout", run: runLogout},
		"members":          {usage: "members [-page N] [-size N] [-sort KEY] [-order asc|desc] [-search TERM]", run: runMembers},
		"member":           {usage: "member ID", run: runMember},
		"add-member":       {usage: "add-member -first-name ... [-image FILE]", run: runAddMember},
		"edit-member":      {usage: "edit-member ID [-field value ...] [-image FILE]", run: runEditMember},
		"delete-member":    {usage: "delete-member ID [-yes]", run: runDeleteMember},
		"equipment":        {usage: "equipment [-category Aerobic|Exercise] [-page N] [-size N] [-sort KEY] [-order asc|desc] [-search TERM]", run: runEquipment},
		"add-equipment":    {usage: "add-equipment -name NAME -number NUMBER [-category C] [-image FILE]", run: runAddEquipment},
		"edit-equipment":   {usage: "edit-equipment ID [-name NAME] [-number NUMBER] [-category C] [-image FILE]", run: runEditEquipment},
		"delete-equipment": {usage: "delete-equipment ID [-yes]", run: runDeleteEquipment},
		"support":          {usage: "support [-page N] [-size N] [-sort KEY] [-order asc|desc] [-search TERM]", run: runSupport},
		"users":            {usage: "users [-page N] [-size N] [-sort KEY] [-order asc|desc] [-search TERM]", run: runUsers},
		"profile":          {usage: "profile", run: runProfile},
		"edit-profile":     {usage: "edit-profile [-name NAME] [-email EMAIL] [-phone PHONE] [-image FILE]", run: runEditProfile},
		"passwd":           {usage: "passwd [-current PASSWORD] [-new PASSWORD] [-confirm PASSWORD]", run: runPasswd},
		"serve":            {usage: "serve [-addr :8080] [-email EMAIL] [-password PASSWORD] [-seed]", run: runServe, offline: true},
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	global := flag.NewFlagSet("gymctl", flag.ContinueOnError)
	configDir := global.String("config", ".", "directory holding config.yaml")
	global.Usage = func() { printUsage(global) }
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		printUsage(global)
		return 2
	}

	name := global.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "gymctl: unknown command %q\n", name)
		printUsage(global)
		return 2
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	cfg, err := config.LoadConfig(*configDir)
	if err != nil && !(cmd.offline && errors.Is(err, config.ErrMissingBaseURL)) {
		log.Error().Err(err).Msg("failed to load config")
		return 1
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := &app{cfg: cfg}
	if !cmd.offline {
		if a, err = newApp(ctx, cfg); err != nil {
			log.Error().Err(err).Msg("failed to initialize")
			return 1
		}
	}

	if err := cmd.run(ctx, a, global.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	sess, err := session.New(session.NewFileStore(cfg.Session.StorePath), session.WithKey(cfg.Session.Key))
	if err != nil {
		return nil, err
	}
	navigator := nav.NavigatorFunc(func(route string) {
		if route == nav.RouteLogin {
			fmt.Fprintln(os.Stderr, "Session ended. Run `gymctl login` to sign in again.")
		}
	})
	linker, err := storage.NewLinker(ctx, cfg.S3)
	if err != nil {
		return nil, err
	}

	guard := api.NewGuard(cfg.API.BaseURL, sess, navigator, api.WithTimeout(cfg.API.Timeout))
	return &app{
		cfg:       cfg,
		session:   sess,
		guard:     guard,
		auth:      service.NewAuthService(guard, sess, navigator),
		members:   service.NewMemberService(guard),
		equipment: service.NewEquipmentService(guard),
		support:   service.NewSupportService(guard),
		profile:   service.NewProfileService(guard),
		users:     service.NewUserService(guard),
		linker:    linker,
		navigator: navigator,
	}, nil
}

func printUsage(global *flag.FlagSet) {
	out := global.Output()
	fmt.Fprintln(out, "usage: gymctl [-config DIR] COMMAND [flags]")
	fmt.Fprintln(out, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(out, "\nglobal flags:")
	global.PrintDefaults()
}

// subcommand returns a flag set for name that reports usage on stderr.
func subcommand(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: gymctl %s\n", strings.TrimSpace(commands[name].usage))
		fs.PrintDefaults()
	}
	return fs
}

// positional pulls the leading ID argument so flags may follow it.
func positional(fs *flag.FlagSet, args []string) (string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		fs.Usage()
		return "", fmt.Errorf("%s: missing ID", fs.Name())
	}
	if err := fs.Parse(args[1:]); err != nil {
		return "", err
	}
	return args[0], nil
}
