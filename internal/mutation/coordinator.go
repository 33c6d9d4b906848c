// Package mutation runs create, update and delete against the backend and
// patches the owning directory's snapshot in place once the write succeeds.
package mutation

import (
	"context"
	"fmt"

	"alcyxob/gym-backoffice/internal/apierr"
	"alcyxob/gym-backoffice/internal/directory"
	"alcyxob/gym-backoffice/internal/domain"
	"alcyxob/gym-backoffice/internal/validation"

	"github.com/rs/zerolog/log"
)

// Remote is the write side of one backend collection.
type Remote[T directory.Record] interface {
	Create(ctx context.Context, record T, image *domain.Attachment) (T, error)
	Update(ctx context.Context, id string, record T, image *domain.Attachment) (T, error)
	Delete(ctx context.Context, id string) error
}

// Snapshot is the local collection a coordinator keeps in sync.
// *directory.Controller satisfies it.
type Snapshot[T directory.Record] interface {
	Items() []T
	Append(record T) bool
	Replace(record T) (found, resort bool)
	Remove(id string) bool
	Load(ctx context.Context) error
}

// Collection is the whole fetched collection, for checks that must see
// more than the loaded page. *directory.LocalFetcher satisfies it.
type Collection[T directory.Record] interface {
	All() []T
	Upsert(record T)
	Remove(id string)
}

// Binder turns validated form values into a record.
type Binder[T directory.Record] func(id string, fields validation.Fields) (T, error)

// Check rejects a candidate before any network call. loaded is the attached
// collection, or the snapshot's page when there is none. editingID is empty
// on create.
type Check[T directory.Record] func(candidate T, loaded []T, editingID string) error

// Confirmer asks the operator to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Coordinator executes mutations for one entity type.
type Coordinator[T directory.Record] struct {
	name     string
	remote   Remote[T]
	rules    validation.Ruleset
	bind     Binder[T]
	checks   []Check[T]
	snapshot Snapshot[T]
	all      Collection[T]
}

type Option[T directory.Record] func(*Coordinator[T])

// WithSnapshot attaches the directory to patch. Without one the coordinator
// only talks to the backend, as on a detail screen opened directly.
func WithSnapshot[T directory.Record](s Snapshot[T]) Option[T] {
	return func(c *Coordinator[T]) { c.snapshot = s }
}

// WithCollection runs checks against every record of the collection and
// keeps it current after each write.
func WithCollection[T directory.Record](all Collection[T]) Option[T] {
	return func(c *Coordinator[T]) { c.all = all }
}

func WithCheck[T directory.Record](check Check[T]) Option[T] {
	return func(c *Coordinator[T]) { c.checks = append(c.checks, check) }
}

func WithName[T directory.Record](name string) Option[T] {
	return func(c *Coordinator[T]) { c.name = name }
}

func New[T directory.Record](remote Remote[T], rules validation.Ruleset, bind Binder[T], opts ...Option[T]) *Coordinator[T] {
	c := &Coordinator[T]{name: "record", remote: remote, rules: rules, bind: bind}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create validates the form and creates the record. On success the
// backend's canonical record is appended to the snapshot and the form is
// reset to its initial values.
func (c *Coordinator[T]) Create(ctx context.Context, form *validation.Form) (T, error) {
	var zero T
	record, err := c.prepare(form, "")
	if err != nil {
		return zero, err
	}

	created, err := c.remote.Create(ctx, record, form.Attachment())
	if err != nil {
		c.logFailure("create", "", err)
		return zero, err
	}
	if c.all != nil {
		c.all.Upsert(created)
	}
	if c.snapshot != nil {
		c.snapshot.Append(created)
	}
	form.Reset()
	log.Info().Str("module", "mutation").Str("entity", c.name).Str("id", created.RecordID()).Msg("created")
	return created, nil
}

// Update validates the form and replaces record id. The snapshot keeps its
// order; when the active sort key changed the directory is reloaded instead.
func (c *Coordinator[T]) Update(ctx context.Context, id string, form *validation.Form) (T, error) {
	var zero T
	record, err := c.prepare(form, id)
	if err != nil {
		return zero, err
	}

	updated, err := c.remote.Update(ctx, id, record, form.Attachment())
	if err != nil {
		c.logFailure("update", id, err)
		return zero, err
	}
	if c.all != nil {
		c.all.Upsert(updated)
	}
	if c.snapshot != nil {
		if _, resort := c.snapshot.Replace(updated); resort {
			log.Debug().Str("module", "mutation").Str("entity", c.name).Str("id", id).Msg("sort key changed, reloading")
			if err := c.snapshot.Load(ctx); err != nil {
				log.Warn().Str("module", "mutation").Str("entity", c.name).Err(err).Msg("reload after update failed")
			}
		}
	}
	form.Load(form.Values())
	log.Info().Str("module", "mutation").Str("entity", c.name).Str("id", id).Msg("updated")
	return updated, nil
}

// Delete removes record id once the operator confirms. deleted is false
// when the operator declined; no request is sent in that case.
func (c *Coordinator[T]) Delete(ctx context.Context, id, label string, confirm Confirmer) (deleted bool, err error) {
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Are you sure you want to delete %s?", label)) {
		return false, nil
	}
	if err := c.remote.Delete(ctx, id); err != nil {
		c.logFailure("delete", id, err)
		return false, err
	}
	if c.all != nil {
		c.all.Remove(id)
	}
	if c.snapshot != nil {
		c.snapshot.Remove(id)
	}
	log.Info().Str("module", "mutation").Str("entity", c.name).Str("id", id).Msg("deleted")
	return true, nil
}

// prepare runs the field rules and local checks. Rejections are shown on
// the form and never reach the network.
func (c *Coordinator[T]) prepare(form *validation.Form, id string) (T, error) {
	var zero T
	if errs := form.Validate(c.rules); len(errs) > 0 {
		return zero, apierr.NewValidation(errs)
	}
	record, err := c.bind(id, form.Values())
	if err != nil {
		return zero, fmt.Errorf("mutation: bind %s: %w", c.name, err)
	}
	if len(c.checks) > 0 {
		var loaded []T
		switch {
		case c.all != nil:
			loaded = c.all.All()
		case c.snapshot != nil:
			loaded = c.snapshot.Items()
		}
		for _, check := range c.checks {
			if err := check(record, loaded, id); err != nil {
				form.SetErrors(apierr.FieldErrors(err))
				return zero, err
			}
		}
	}
	return record, nil
}

func (c *Coordinator[T]) logFailure(op, id string, err error) {
	ev := log.Warn()
	if apierr.IsAuth(err) {
		ev = log.Info()
	}
	ev.Str("module", "mutation").Str("entity", c.name).Str("op", op).Str("id", id).
		Str("kind", apierr.KindOf(err).String()).Err(err).Msg("mutation failed")
}
