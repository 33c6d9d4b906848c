// Package detail loads a single record for its profile screen and deletes
// it from there.
package detail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"alcyxob/gym-backoffice/internal/apierr"
	"alcyxob/gym-backoffice/internal/directory"
	"alcyxob/gym-backoffice/internal/mutation"
	"alcyxob/gym-backoffice/internal/nav"
	"alcyxob/gym-backoffice/internal/storage"

	"github.com/rs/zerolog/log"
)

type State int

const (
	Loading State = iota
	Loaded
	NotFound
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case NotFound:
		return "not found"
	}
	return "loading"
}

// Getter fetches one record by id.
type Getter[T directory.Record] interface {
	Get(ctx context.Context, id string) (T, error)
}

// Deleter is the delete half of a mutation coordinator.
type Deleter interface {
	Delete(ctx context.Context, id, label string, confirm mutation.Confirmer) (bool, error)
}

// imaged is implemented by records that carry an image reference.
type imaged interface {
	ImageRef() string
}

// Profile is what a detail screen renders.
type Profile[T directory.Record] struct {
	State    State
	Record   T
	ImageURL string
	Message  string // set when State is NotFound
	Err      error
}

// Loader serves the profile screen of one entity type.
type Loader[T directory.Record] struct {
	name      string
	getter    Getter[T]
	deleter   Deleter
	linker    storage.Linker
	navigator nav.Navigator
	listRoute string
}

// NewLoader builds a loader. name is the entity's display name, e.g.
// "Member"; listRoute is where a successful delete returns to.
func NewLoader[T directory.Record](name string, getter Getter[T], deleter Deleter, linker storage.Linker, navigator nav.Navigator, listRoute string) *Loader[T] {
	if linker == nil {
		linker = storage.Passthrough{}
	}
	return &Loader[T]{
		name:      name,
		getter:    getter,
		deleter:   deleter,
		linker:    linker,
		navigator: navigator,
		listRoute: listRoute,
	}
}

// Load fetches record id. A missing record and a failed fetch both end in
// the NotFound state with an explanatory message.
func (l *Loader[T]) Load(ctx context.Context, id string) Profile[T] {
	if strings.TrimSpace(id) == "" {
		return Profile[T]{State: NotFound, Message: fmt.Sprintf("%s not found", l.name)}
	}

	record, err := l.getter.Get(ctx, id)
	if err != nil {
		log.Warn().Str("module", "detail").Str("entity", l.name).Str("id", id).Err(err).Msg("load failed")
		return Profile[T]{State: NotFound, Message: l.failureMessage(err), Err: err}
	}

	p := Profile[T]{State: Loaded, Record: record}
	if img, ok := any(record).(imaged); ok && img.ImageRef() != "" {
		link, err := l.linker.ImageURL(ctx, img.ImageRef())
		if err != nil {
			log.Warn().Str("module", "detail").Str("entity", l.name).Str("id", id).Err(err).Msg("image link failed")
		} else {
			p.ImageURL = link
		}
	}
	return p
}

// Delete asks for confirmation and deletes the record. On success the
// operator is sent back to the list.
func (l *Loader[T]) Delete(ctx context.Context, id, label string, confirm mutation.Confirmer) (bool, error) {
	deleted, err := l.deleter.Delete(ctx, id, label, confirm)
	if err != nil || !deleted {
		return deleted, err
	}
	if l.navigator != nil {
		l.navigator.Navigate(l.listRoute)
	}
	return true, nil
}

func (l *Loader[T]) failureMessage(err error) string {
	switch {
	case errors.Is(err, &apierr.Error{Kind: apierr.RequestFailed, Status: http.StatusNotFound}):
		return fmt.Sprintf("%s not found", l.name)
	case apierr.IsAuth(err):
		return err.Error()
	}
	return fmt.Sprintf("%s not found: %s", l.name, err.Error())
}
