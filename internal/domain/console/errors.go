// Where: internal/domain/console/errors.go
// What: Console error taxonomy.
// Why: Callers branch on error kind; fatal and soft failures must stay distinguishable.
package console

import (
	"fmt"
	"strings"
)

// Kind identifies a console failure category.
type Kind string

const (
	KindNotAuthenticated     Kind = "CONSOLE_NOT_AUTHENTICATED"
	KindTokenCreation        Kind = "CONSOLE_TOKEN_CREATION_FAILED"
	KindIntegrationMismatch  Kind = "CONSOLE_INTEGRATION_MISMATCH"
	KindOrgMismatch          Kind = "CONSOLE_ORG_MISMATCH"
	KindActivationMismatch   Kind = "CONSOLE_ACTIVATION_MISMATCH"
	KindIngestionUnreachable Kind = "CONSOLE_INGESTION_COMMUNICATION"
)

// Fatal reports whether errors of this kind abort the invocation.
func (k Kind) Fatal() bool {
	return k != KindIngestionUnreachable
}

// Error is a console failure. StatusCode and Body are set for remote failures.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Body       string
}

// Sentinels for errors.Is comparisons; only Kind is compared.
var (
	ErrNotAuthenticated     = &Error{Kind: KindNotAuthenticated}
	ErrTokenCreation        = &Error{Kind: KindTokenCreation}
	ErrIntegrationMismatch  = &Error{Kind: KindIntegrationMismatch}
	ErrOrgMismatch          = &Error{Kind: KindOrgMismatch}
	ErrActivationMismatch   = &Error{Kind: KindActivationMismatch}
	ErrIngestionUnreachable = &Error{Kind: KindIngestionUnreachable}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.StatusCode == 0 {
		return msg
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", msg, e.StatusCode, body)
}

// Is matches another *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Code returns the stable machine-readable code.
func (e *Error) Code() string {
	return string(e.Kind)
}

// NewError builds an Error with a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotAuthenticated returns the remediation error for a missing session.
func NotAuthenticated(unattended bool) *Error {
	if unattended {
		return NewError(KindNotAuthenticated,
			"Console integration requires authentication. Set SERVERLESS_ACCESS_KEY in the CI environment with a key generated in the dashboard")
	}
	return NewError(KindNotAuthenticated,
		"Console integration requires authentication. Run \"serverless login\" and retry")
}
