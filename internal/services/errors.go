package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthorization marks library access denials. Terminal for the
	// current run until the user re-grants access.
	ErrAuthorization = errors.New("library access denied")
	// ErrScanActive marks scan requests rejected because a scan is already
	// running. A soft no-op, not a true failure.
	ErrScanActive = errors.New("scan already in progress")
	// ErrDeletion marks failed group deletions. The wrapped cause carries
	// the library's message verbatim.
	ErrDeletion = errors.New("deletion failed")
	// ErrValidation marks rejected inputs (bad group IDs, bad policies).
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks lookups that matched nothing.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
