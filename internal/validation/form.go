package validation

import (
	"sync"

	"alcyxob/gym-backoffice/internal/domain"
)

// Form is the editable state behind one create or edit screen.
type Form struct {
	mu         sync.Mutex
	initial    Fields
	values     Fields
	errors     Errors
	attachment *domain.Attachment
}

// NewForm starts a form at the given initial values.
func NewForm(initial Fields) *Form {
	return &Form{initial: copyFields(initial), values: copyFields(initial), errors: Errors{}}
}

// Set changes one value. Any error shown for that field disappears
// immediately, before the form is validated again.
func (f *Form) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = value
	delete(f.errors, field)
}

func (f *Form) Get(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Values returns a copy of the current values.
func (f *Form) Values() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyFields(f.values)
}

func (f *Form) Errors() Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(Errors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

func (f *Form) Error(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[field]
}

// SetErrors replaces the shown errors.
func (f *Form) SetErrors(errs map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = make(Errors, len(errs))
	for k, v := range errs {
		f.errors[k] = v
	}
}

// Validate runs r over the current values and shows the result.
func (f *Form) Validate(r Ruleset) Errors {
	errs := r.Validate(f.Values())
	f.SetErrors(errs)
	return errs
}

// Load fills the form from an existing record; Reset returns to these values.
func (f *Form) Load(values Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initial = copyFields(values)
	f.values = copyFields(values)
	f.errors = Errors{}
	f.attachment = nil
}

// Reset restores the initial values and drops errors and the attachment.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = copyFields(f.initial)
	f.errors = Errors{}
	f.attachment = nil
}

// Attach sets the image picked on the form; nil removes it.
func (f *Form) Attach(a *domain.Attachment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachment = a
}

func (f *Form) Attachment() *domain.Attachment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attachment
}

func copyFields(in Fields) Fields {
	out := make(Fields, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
