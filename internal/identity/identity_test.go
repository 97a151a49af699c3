package identity_test

import (
	"testing"

	"github.com/donburnsideAZ/project-tracker/internal/identity"
	"github.com/donburnsideAZ/project-tracker/internal/model"
)

var roster = []model.Employee{
	{ID: "alice", Name: "Alice", Role: "SME"},
	{ID: "bob", Name: "Bob", Role: "LXO"},
}

func rosterFunc() []model.Employee { return roster }

func TestStripDomain(t *testing.T) {
	tests := []struct{ in, want string }{
		{`CORP\alice`, "alice"},
		{"alice", "alice"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := identity.StripDomain(tt.in); got != tt.want {
			t.Errorf("StripDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	if e, ok := identity.Resolve("bob", roster); !ok || e.Name != "Bob" {
		t.Errorf("Resolve(bob) = %+v, %v", e, ok)
	}
	if _, ok := identity.Resolve("Bob", roster); ok {
		t.Error("Resolve should match ids exactly")
	}
	if _, ok := identity.Resolve("", roster); ok {
		t.Error("Resolve of empty account should fail")
	}
}

func TestResolverFallsBackToAccount(t *testing.T) {
	r := identity.NewResolver(identity.Static("mallory"), rosterFunc)
	if _, ok := r.CurrentUser(); ok {
		t.Error("unknown account resolved")
	}
	if got := r.CurrentUserID(); got != "mallory" {
		t.Errorf("CurrentUserID = %q, want raw account", got)
	}
}

func TestResolverOverride(t *testing.T) {
	r := identity.NewResolver(identity.Static("alice"), rosterFunc)
	if got := r.CurrentUserID(); got != "alice" {
		t.Errorf("CurrentUserID = %q, want alice", got)
	}
	if r.SetCurrentUser("nobody") {
		t.Error("SetCurrentUser accepted an id not on the roster")
	}
	if !r.SetCurrentUser("bob") {
		t.Fatal("SetCurrentUser(bob) refused")
	}
	e, ok := r.CurrentUser()
	if !ok || e.ID != "bob" {
		t.Errorf("CurrentUser after override = %+v, %v", e, ok)
	}
}

func TestOSAccountNotEmpty(t *testing.T) {
	t.Setenv("USER", `DOMAIN\tester`)
	if got := (identity.OSAccount{}).AccountName(); got == "" {
		t.Error("OSAccount returned an empty name")
	}
}
