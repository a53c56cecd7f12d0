// Where: internal/infra/interaction/interaction_test.go
// What: Tests for unattended detection.
// Why: CI detection drives which remediation message users see.
package interaction

import (
	"os"
	"testing"
)

func TestIsUnattendedHonorsCIFlag(t *testing.T) {
	prev := IsTerminal
	IsTerminal = func(*os.File) bool { return true }
	t.Cleanup(func() { IsTerminal = prev })

	if !IsUnattended(true) {
		t.Fatalf("expected CI flag to force unattended")
	}
	if IsUnattended(false) {
		t.Fatalf("expected terminal session to be interactive")
	}
}

func TestIsUnattendedWithoutTerminal(t *testing.T) {
	prev := IsTerminal
	IsTerminal = func(*os.File) bool { return false }
	t.Cleanup(func() { IsTerminal = prev })

	if !IsUnattended(false) {
		t.Fatalf("expected non-terminal stdin to be unattended")
	}
}

func TestIsTerminalNilFile(t *testing.T) {
	if IsTerminal(nil) {
		t.Fatalf("nil file must not be a terminal")
	}
}
