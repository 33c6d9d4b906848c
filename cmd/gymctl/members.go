package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"alcyxob/gym-backoffice/internal/apierr"
	"alcyxob/gym-backoffice/internal/detail"
	"alcyxob/gym-backoffice/internal/directory"
	"alcyxob/gym-backoffice/internal/domain"
	"alcyxob/gym-backoffice/internal/mutation"
	"alcyxob/gym-backoffice/internal/nav"
	"alcyxob/gym-backoffice/internal/validation"
)

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := subcommand("login")
	email := fs.String("email", "", "operator email")
	password := fs.String("password", "", "password; read from stdin when omitted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" && *email != "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := readLine(os.Stdin)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		*password = line
	}

	op, err := a.auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s <%s>\n", orDash(op.Name), op.Email)
	if exp, ok := a.session.ExpiresAt(); ok {
		fmt.Printf("Session valid until %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

func runLogout(ctx context.Context, a *app, args []string) error {
	if err := subcommand("logout").Parse(args); err != nil {
		return err
	}
	return a.auth.Logout(ctx)
}

func runMembers(ctx context.Context, a *app, args []string) error {
	fs := subcommand("members")
	var lf listFlags
	lf.register(fs, a.cfg.Directory.PageSize, "", directory.Asc)
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, err := browse[domain.Member](ctx, "members", a.members, lf)
	if err != nil {
		return err
	}
	printTable(os.Stdout, v, []string{"ID", "CODE", "NAME", "EMAIL", "PHONE", "PLAN", "JOINED", "ACTIVE"}, func(m domain.Member) []string {
		return []string{
			m.ID, orDash(m.UniqueID), m.FullName(), m.Email,
			m.CountryCode + " " + m.Phone, string(m.SubscriptionType), m.DateOfJoining,
			strconv.FormatBool(m.Status),
		}
	})
	return nil
}

func (a *app) memberLoader() *detail.Loader[domain.Member] {
	coordinator := mutation.NewMemberCoordinator(a.members)
	return detail.NewLoader[domain.Member]("Member", a.members, coordinator, a.linker, a.navigator, nav.RouteMembers)
}

func runMember(ctx context.Context, a *app, args []string) error {
	id, err := positional(subcommand("member"), args)
	if err != nil {
		return err
	}
	p := a.memberLoader().Load(ctx, id)
	if p.State == detail.NotFound {
		return notFound(p)
	}

	m := p.Record
	rows := [][2]string{
		{"Name", m.FullName()},
		{"Initials", m.Initials()},
		{"Member code", orDash(m.UniqueID)},
		{"Email", m.Email},
		{"Phone", m.CountryCode + " " + m.Phone},
		{"Gender", string(m.Gender)},
		{"Date of birth", m.DateOfBirth},
		{"Weight", strconv.FormatFloat(m.Weight, 'f', -1, 64) + " lbs"},
		{"Subscription", string(m.SubscriptionType)},
		{"Joined", m.DateOfJoining},
		{"Health", orDash(m.HealthInfo)},
		{"Active", strconv.FormatBool(m.Status)},
		{"Profile image", orDash(p.ImageURL)},
	}
	if age, ok := m.Age(time.Now()); ok {
		rows = append(rows, [2]string{"Age", strconv.Itoa(age)})
	}
	for _, r := range rows {
		fmt.Printf("%-14s %s\n", r[0]+":", r[1])
	}
	return nil
}

// notFound turns a profile that failed to load into the error shown to the
// operator. Auth failures keep their kind; the guard already redirected.
func notFound[T directory.Record](p detail.Profile[T]) error {
	if apierr.IsAuth(p.Err) {
		return p.Err
	}
	return errors.New(p.Message)
}

// memberFlags maps command-line flags onto member form fields.
var memberFlags = []struct{ flag, field, usage string }{
	{"first-name", validation.MemberFirstName, "first name"},
	{"last-name", validation.MemberLastName, "last name"},
	{"email", validation.MemberEmail, "email address"},
	{"country-code", validation.MemberCountryCode, "phone country code, e.g. +1"},
	{"phone", validation.MemberPhone, "10 digit phone number"},
	{"subscription", validation.MemberSubscriptionType, "Monthly, Quarterly or Yearly"},
	{"dob", validation.MemberDateOfBirth, "date of birth, YYYY-MM-DD"},
	{"joined", validation.MemberDateOfJoining, "date of joining, YYYY-MM-DD"},
	{"gender", validation.MemberGender, "gender"},
	{"weight", validation.MemberWeight, "weight in lbs"},
	{"health", validation.MemberHealthInfo, "health note"},
	{"status", validation.MemberStatus, "active, true or false"},
}

type formFlags struct {
	values map[string]*string // by flag name
	fields map[string]string  // flag name -> form field
	image  *string
}

func registerMemberFlags(fs *flag.FlagSet) formFlags {
	ff := formFlags{values: map[string]*string{}, fields: map[string]string{}}
	for _, mf := range memberFlags {
		ff.values[mf.flag] = fs.String(mf.flag, "", mf.usage)
		ff.fields[mf.flag] = mf.field
	}
	ff.image = fs.String("image", "", "profile image file to upload")
	return ff
}

// apply copies the flags given on the command line onto the form. Fields
// whose flag was left off keep the form's current value.
func (ff formFlags) apply(fs *flag.FlagSet, form *validation.Form) {
	fs.Visit(func(f *flag.Flag) {
		if field, ok := ff.fields[f.Name]; ok {
			form.Set(field, *ff.values[f.Name])
		}
	})
}

// attach opens path and adds it to the form. The returned func closes it.
func attach(form *validation.Form, path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	form.Attach(&domain.Attachment{FileName: filepath.Base(path), Body: f})
	return func() { f.Close() }, nil
}

func runAddMember(ctx context.Context, a *app, args []string) error {
	fs := subcommand("add-member")
	ff := registerMemberFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := validation.NewMemberForm()
	ff.apply(fs, form)
	closeImage, err := attach(form, *ff.image)
	if err != nil {
		return err
	}
	defer closeImage()

	created, err := mutation.NewMemberCoordinator(a.members).Create(ctx, form)
	if err != nil {
		return err
	}
	fmt.Printf("Member %s registered as %s (id %s)\n", created.FullName(), orDash(created.UniqueID), created.ID)
	return nil
}

func runEditMember(ctx context.Context, a *app, args []string) error {
	fs := subcommand("edit-member")
	ff := registerMemberFlags(fs)
	id, err := positional(fs, args)
	if err != nil {
		return err
	}

	current, err := a.members.Get(ctx, id)
	if err != nil {
		return err
	}
	form := validation.NewMemberForm()
	form.Load(validation.MemberFields(current))
	ff.apply(fs, form)
	closeImage, err := attach(form, *ff.image)
	if err != nil {
		return err
	}
	defer closeImage()

	updated, err := mutation.NewMemberCoordinator(a.members).Update(ctx, id, form)
	if err != nil {
		return err
	}
	fmt.Printf("Member %s updated\n", updated.FullName())
	return nil
}

func runDeleteMember(ctx context.Context, a *app, args []string) error {
	fs := subcommand("delete-member")
	yes := fs.Bool("yes", false, "delete without asking")
	id, err := positional(fs, args)
	if err != nil {
		return err
	}

	loader := a.memberLoader()
	p := loader.Load(ctx, id)
	if p.State == detail.NotFound {
		return notFound(p)
	}
	deleted, err := loader.Delete(ctx, id, p.Record.FullName(), stdinConfirmer(*yes))
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Println("Cancelled")
		return nil
	}
	fmt.Printf("Member %s deleted\n", p.Record.FullName())
	return nil
}
