package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"alcyxob/gym-backoffice/internal/apierr"
	"alcyxob/gym-backoffice/internal/directory"
	"alcyxob/gym-backoffice/internal/domain"
	"alcyxob/gym-backoffice/internal/mutation"
	"alcyxob/gym-backoffice/internal/service"
	"alcyxob/gym-backoffice/internal/validation"
)

func parseCategory(s string) (domain.Category, error) {
	if s == "" {
		return "", nil
	}
	for _, c := range domain.Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("category must be Aerobic or Exercise, got %q", s)
}

func runEquipment(ctx context.Context, a *app, args []string) error {
	fs := subcommand("equipment")
	category := fs.String("category", "", "only list Aerobic or Exercise equipment")
	var lf listFlags
	lf.register(fs, a.cfg.Directory.PageSize, "", directory.Asc)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cat, err := parseCategory(*category)
	if err != nil {
		return err
	}

	v, err := browse[domain.Equipment](ctx, "equipment", a.equipment.Directory(cat), lf)
	if err != nil {
		return err
	}
	printTable(os.Stdout, v, []string{"ID", "NUMBER", "NAME", "CATEGORY", "IMAGE"}, func(e domain.Equipment) []string {
		return []string{e.ID, e.Number, e.Name, string(e.Category), orDash(e.Image)}
	})
	return nil
}

// equipmentCoordinator loads the equipment screen's first page. The
// duplicate-number check runs against every fetched record, not only that
// page.
func (a *app) equipmentCoordinator(ctx context.Context) (*mutation.Coordinator[domain.Equipment], func(), error) {
	all := a.equipment.Directory("")
	snap := directory.New[domain.Equipment](all,
		directory.WithName("equipment"),
		directory.WithPageSize(a.cfg.Directory.PageSize))
	if err := snap.Load(ctx); err != nil {
		snap.Close()
		return nil, nil, err
	}
	coordinator := mutation.NewEquipmentCoordinator(a.equipment,
		mutation.WithSnapshot[domain.Equipment](snap),
		mutation.WithCollection[domain.Equipment](all))
	return coordinator, snap.Close, nil
}

type equipmentFlags struct {
	name, number, category, image *string
}

func registerEquipmentFlags(fs *flag.FlagSet) equipmentFlags {
	return equipmentFlags{
		name:     fs.String("name", "", "equipment name"),
		number:   fs.String("number", "", "unique equipment number"),
		category: fs.String("category", "", "Aerobic or Exercise"),
		image:    fs.String("image", "", "image file to upload"),
	}
}

func (ef equipmentFlags) apply(fs *flag.FlagSet, form *validation.Form) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			form.Set(validation.EquipmentName, *ef.name)
		case "number":
			form.Set(validation.EquipmentNumber, *ef.number)
		case "category":
			if c, err := parseCategory(*ef.category); err == nil {
				form.Set(validation.EquipmentCategory, string(c))
			} else {
				form.Set(validation.EquipmentCategory, *ef.category)
			}
		}
	})
}

func runAddEquipment(ctx context.Context, a *app, args []string) error {
	fs := subcommand("add-equipment")
	ef := registerEquipmentFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := validation.NewEquipmentForm()
	ef.apply(fs, form)
	closeImage, err := attach(form, *ef.image)
	if err != nil {
		return err
	}
	defer closeImage()

	coordinator, done, err := a.equipmentCoordinator(ctx)
	if err != nil {
		return err
	}
	defer done()

	created, err := coordinator.Create(ctx, form)
	if err != nil {
		return err
	}
	fmt.Printf("Equipment %s (%s) added with id %s\n", created.Name, created.Number, created.ID)
	return nil
}

// findEquipment looks id up in the full list; the backend has no
// single-item read for equipment.
func (a *app) findEquipment(ctx context.Context, id string) (domain.Equipment, error) {
	all, err := a.equipment.List(ctx, "")
	if err != nil {
		return domain.Equipment{}, err
	}
	for _, e := range all {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.Equipment{}, apierr.NewRequestFailed(http.StatusNotFound, "Equipment not found")
}

func runEditEquipment(ctx context.Context, a *app, args []string) error {
	fs := subcommand("edit-equipment")
	ef := registerEquipmentFlags(fs)
	id, err := positional(fs, args)
	if err != nil {
		return err
	}

	current, err := a.findEquipment(ctx, id)
	if err != nil {
		return err
	}
	form := validation.NewEquipmentForm()
	form.Load(validation.EquipmentFields(current))
	ef.apply(fs, form)
	closeImage, err := attach(form, *ef.image)
	if err != nil {
		return err
	}
	defer closeImage()

	coordinator, done, err := a.equipmentCoordinator(ctx)
	if err != nil {
		return err
	}
	defer done()

	updated, err := coordinator.Update(ctx, id, form)
	if err != nil {
		return err
	}
	fmt.Printf("Equipment %s (%s) updated\n", updated.Name, updated.Number)
	return nil
}

func runDeleteEquipment(ctx context.Context, a *app, args []string) error {
	fs := subcommand("delete-equipment")
	yes := fs.Bool("yes", false, "delete without asking")
	id, err := positional(fs, args)
	if err != nil {
		return err
	}

	current, err := a.findEquipment(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := mutation.NewEquipmentCoordinator(a.equipment).
		Delete(ctx, id, fmt.Sprintf("%s (%s)", current.Name, current.Number), stdinConfirmer(*yes))
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Println("Cancelled")
		return nil
	}
	fmt.Printf("Equipment %s deleted\n", current.Name)
	return nil
}

func runSupport(ctx context.Context, a *app, args []string) error {
	fs := subcommand("support")
	var lf listFlags
	lf.register(fs, a.cfg.Directory.PageSize, service.SupportDefaultSort, service.SupportDefaultOrder)
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, err := browse[domain.SupportQuery](ctx, "support", a.support.Directory(), lf)
	if err != nil {
		return err
	}
	printTable(os.Stdout, v, []string{"RECEIVED", "SENDER", "EMAIL", "QUERY"}, func(q domain.SupportQuery) []string {
		return []string{q.CreatedAt.Local().Format(time.DateTime), q.SenderID, orDash(q.Email), q.Query}
	})
	return nil
}
