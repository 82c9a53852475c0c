package kernel_test

import (
	"testing"

	"github.com/Abraxas-365/cauth/pkg/kernel"
)

func TestNewPaginated(t *testing.T) {
	p := kernel.NewPaginated([]string{"a", "b"}, 1, 2, 5)
	if p.Page.Pages != 3 {
		t.Fatalf("pages = %d, want 3", p.Page.Pages)
	}
	if !p.HasNext() {
		t.Fatal("expected a next page")
	}

	empty := kernel.NewPaginated[string](nil, 1, 20, 0)
	if !empty.Empty || empty.Items == nil {
		t.Fatalf("empty page should carry a non-nil empty slice: %+v", empty)
	}
}

func TestPaginationOptions_Normalize(t *testing.T) {
	o := kernel.PaginationOptions{Page: 0, PageSize: 1000}.Normalize()
	if o.Page != 1 || o.PageSize != kernel.MaxPageSize {
		t.Fatalf("normalize = %+v", o)
	}
	if off := (kernel.PaginationOptions{Page: 3, PageSize: 10}).Offset(); off != 20 {
		t.Fatalf("offset = %d, want 20", off)
	}
}

func TestAuthContext_Owns(t *testing.T) {
	ac := &kernel.AuthContext{Owner: "org@example.com", Role: kernel.RoleOrganization}
	if !ac.Owns("org@example.com") {
		t.Fatal("owner should own its tenants")
	}
	if ac.Owns("other@example.com") {
		t.Fatal("owner should not own foreign tenants")
	}
	user := &kernel.AuthContext{Owner: "org@example.com", Role: kernel.RoleUser}
	if user.Owns("org@example.com") {
		t.Fatal("non-organization roles own nothing")
	}
}
