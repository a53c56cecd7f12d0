package envutil

import "testing"

func TestTruthy(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"0":     false,
		"false": false,
		"OFF":   false,
		"1":     true,
		"true":  true,
		" yes ": true,
	}
	for input, want := range cases {
		if got := Truthy(input); got != want {
			t.Fatalf("Truthy(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestHostEnvKeyUsesPrefix(t *testing.T) {
	t.Setenv("FNDEPLOY_HOME", "  /tmp/home ")
	if got := HostEnvKey("HOME"); got != "FNDEPLOY_HOME" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := GetHostEnv("HOME"); got != "/tmp/home" {
		t.Fatalf("unexpected value: %q", got)
	}
}
