package tracker

import (
	"github.com/ShubhamPP04/todo-list/internal/domain"
)

// CreateInput holds the parameters for creating a record.
type CreateInput struct {
	Text      string
	Completed bool

	// OwnerID of 0 means "unset"; the service resolves it from context
	// or the configured default.
	OwnerID int64
}

// Validate checks all fields and collects all errors.
func (i *CreateInput) Validate() error {
	var errs []domain.FieldError

	if _, err := domain.ValidateText(i.Text); err != nil {
		if vErr, ok := err.(*domain.ValidationError); ok {
			errs = append(errs, vErr.Errors...)
		} else {
			errs = append(errs, domain.FieldError{Field: "text", Message: err.Error()})
		}
	}
	if i.OwnerID < 0 {
		errs = append(errs, domain.FieldError{Field: "owner_id", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
