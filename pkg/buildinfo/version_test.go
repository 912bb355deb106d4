package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02"
	defer func() { Version, Commit, Date = "dev", "none", "unknown" }()

	got := String()
	for _, want := range []string{"v1.2.3", "abc123", "2026-01-02"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
	if UserAgent() != "photowall/v1.2.3" {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}
