package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"alcyxob/gym-backoffice/internal/apierr"
	"alcyxob/gym-backoffice/internal/directory"
	"alcyxob/gym-backoffice/internal/domain"
	"alcyxob/gym-backoffice/internal/validation"

	"github.com/rs/zerolog/log"
)

func runProfile(ctx context.Context, a *app, args []string) error {
	if err := subcommand("profile").Parse(args); err != nil {
		return err
	}
	op, err := a.profile.Get(ctx)
	if err != nil {
		return err
	}

	image := op.ProfileImage
	if image != "" {
		if link, err := a.linker.ImageURL(ctx, image); err != nil {
			log.Warn().Str("module", "gymctl").Err(err).Msg("profile image link failed")
		} else {
			image = link
		}
	}
	for _, r := range [][2]string{
		{"Name", orDash(op.Name)},
		{"Email", op.Email},
		{"Phone", orDash(op.Phone)},
		{"Role", orDash(op.Role)},
		{"Profile image", orDash(image)},
	} {
		fmt.Printf("%-14s %s\n", r[0]+":", r[1])
	}
	return nil
}

func runEditProfile(ctx context.Context, a *app, args []string) error {
	fs := subcommand("edit-profile")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "login and contact email")
	phone := fs.String("phone", "", "10-digit phone number")
	imagePath := fs.String("image", "", "profile picture to upload (JPG or PNG)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := a.profile.Get(ctx)
	if err != nil {
		return err
	}
	form := validation.NewProfileForm(current)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			form.Set(validation.ProfileName, *name)
		case "email":
			form.Set(validation.ProfileEmail, *email)
		case "phone":
			form.Set(validation.ProfilePhone, *phone)
		}
	})
	if errs := form.Validate(validation.ProfileRules); len(errs) > 0 {
		return apierr.NewValidation(errs)
	}
	closeImage, err := attach(form, *imagePath)
	if err != nil {
		return err
	}
	defer closeImage()

	updated, err := a.profile.Update(ctx, validation.ProfileFromFields(current, form.Values()), form.Attachment())
	if err != nil {
		return err
	}
	fmt.Printf("Profile updated for %s <%s>\n", orDash(updated.Name), updated.Email)
	return nil
}

// runPasswd changes the operator's password. Passwords not given as flags
// are read from stdin, one per line.
func runPasswd(ctx context.Context, a *app, args []string) error {
	fs := subcommand("passwd")
	current := fs.String("current", "", "current password")
	next := fs.String("new", "", "new password")
	confirm := fs.String("confirm", "", "new password again")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := bufio.NewReader(os.Stdin)
	for _, p := range []struct {
		value  *string
		prompt string
	}{
		{current, "Current password: "},
		{next, "New password: "},
		{confirm, "Confirm new password: "},
	} {
		if *p.value != "" {
			continue
		}
		fmt.Fprint(os.Stderr, p.prompt)
		line, err := readSecret(in)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		*p.value = line
	}

	form := validation.NewPasswordForm()
	form.Set(validation.PasswordOld, *current)
	form.Set(validation.PasswordNew, *next)
	form.Set(validation.PasswordConfirm, *confirm)
	if errs := form.Validate(validation.PasswordRules); len(errs) > 0 {
		return apierr.NewValidation(errs)
	}
	if err := a.profile.ChangePassword(ctx, validation.PasswordFromFields(form.Values())); err != nil {
		return err
	}
	fmt.Println("Password changed")
	return nil
}

func runUsers(ctx context.Context, a *app, args []string) error {
	fs := subcommand("users")
	var lf listFlags
	lf.register(fs, a.cfg.Directory.PageSize, "id", directory.Asc)
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, err := browse[domain.Member](ctx, "users", a.users.Directory(), lf)
	if err != nil {
		return err
	}
	printTable(os.Stdout, v, []string{"ID", "NAME", "EMAIL", "PHONE", "CODE", "SUBSCRIPTION", "JOINED"}, func(m domain.Member) []string {
		return []string{m.ID, m.FullName(), m.Email, orDash(m.Phone), orDash(m.UniqueID), orDash(string(m.SubscriptionType)), orDash(m.DateOfJoining)}
	})
	return nil
}

// readSecret reads one line and keeps inner and edge spaces; only the line
// ending is dropped.
func readSecret(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
