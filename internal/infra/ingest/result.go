// Where: internal/infra/ingest/result.go
// What: Result type for best-effort ingestion calls.
// Why: Deactivation failures are logged at the call site and must never surface as errors.
package ingest

// SoftResult reports the outcome of a call whose failure is non-fatal.
// The failure has already been logged when Err is set.
type SoftResult struct {
	Err error
}

// Failed reports whether the call did not succeed.
func (r SoftResult) Failed() bool {
	return r.Err != nil
}
