package roster

import (
	"errors"
	"strings"

	"github.com/venturelinkhq/venturelink/pkg/proto"
	"github.com/venturelinkhq/venturelink/pkg/utils"
)

// ErrClosed is returned by operations on a closed synchronizer.
var ErrClosed = errors.New("roster: closed")

// ValidationError reports a form field that failed local validation. It is
// returned before any remote call is made and is never recorded in
// State.Err.
type ValidationError struct {
	Field Field
	Err   error
}

// Error implements error.
func (e *ValidationError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying validator error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// trimChange returns the change with all editable fields trimmed.
func trimChange(change proto.AffiliationChange) proto.AffiliationChange {
	change.CompanyName = strings.TrimSpace(change.CompanyName)
	change.Title = strings.TrimSpace(change.Title)
	change.WebsiteURL = strings.TrimSpace(change.WebsiteURL)
	return change
}

// validateChange checks the editable fields, returning a *ValidationError
// naming the first offending field.
func validateChange(change proto.AffiliationChange) error {
	if err := utils.ValidateCompanyName(change.CompanyName); err != nil {
		return &ValidationError{Field: FieldCompanyName, Err: err}
	}
	if err := utils.ValidateTitle(change.Title); err != nil {
		return &ValidationError{Field: FieldTitle, Err: err}
	}
	if err := utils.ValidateWebsiteURL(change.WebsiteURL); err != nil {
		return &ValidationError{Field: FieldWebsiteURL, Err: err}
	}
	return nil
}
