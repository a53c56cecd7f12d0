// Where: internal/infra/platform/auth.go
// What: Authenticated-session check.
// Why: The console integration refuses to run without platform credentials.
package platform

import "strings"

// AuthChecker reports whether the invocation has an authenticated session.
type AuthChecker interface {
	IsAuthenticated() bool
}

// AccessKeyAuth treats a configured access key as an authenticated session.
type AccessKeyAuth struct {
	AccessKey string
}

func (a AccessKeyAuth) IsAuthenticated() bool {
	return strings.TrimSpace(a.AccessKey) != ""
}
