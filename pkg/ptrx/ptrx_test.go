package ptrx_test

import (
	"strings"
	"testing"

	"github.com/Abraxas-365/cauth/pkg/ptrx"
)

func TestTo(t *testing.T) {
	s := "acme"
	p := ptrx.To(s)
	s = "changed"
	if *p != "acme" {
		t.Fatalf("To must copy, got %q", *p)
	}
}

func TestValueOr(t *testing.T) {
	if got := ptrx.ValueOr(nil, 7); got != 7 {
		t.Fatalf("ValueOr(nil) = %d, want 7", got)
	}
	if got := ptrx.ValueOr(ptrx.To(3), 7); got != 3 {
		t.Fatalf("ValueOr(3) = %d, want 3", got)
	}
	if got := ptrx.Value[string](nil); got != "" {
		t.Fatalf("Value(nil) = %q, want empty", got)
	}
}

func TestMap(t *testing.T) {
	if ptrx.Map(nil, strings.TrimSpace) != nil {
		t.Fatal("Map(nil) must stay nil")
	}
	if got := ptrx.Map(ptrx.To("  acme "), strings.TrimSpace); *got != "acme" {
		t.Fatalf("Map = %q, want acme", *got)
	}
}
