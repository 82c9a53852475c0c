package kernel_test

import (
	"testing"

	"github.com/Abraxas-365/cauth/pkg/kernel"
)

func TestNormalizeEmail(t *testing.T) {
	if got := kernel.NormalizeEmail("  Bob@Example.COM "); got != "bob@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestValidEmail(t *testing.T) {
	cases := map[string]bool{
		"bob@example.com":       true,
		"":                      false,
		"bob":                   false,
		"Bob <bob@example.com>": false,
		"bob@":                  false,
	}
	for in, want := range cases {
		if got := kernel.ValidEmail(in); got != want {
			t.Fatalf("ValidEmail(%q) = %v, want %v", in, got, want)
		}
	}
}
