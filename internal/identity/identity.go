// Package identity maps the operating-system account of the person running
// the tool onto an employee in the team roster.
package identity

import (
	"os"
	"os/user"
	"strings"
	"sync"

	"github.com/donburnsideAZ/project-tracker/internal/model"
)

// AccountProvider returns the current OS account name, or "" when unknown.
type AccountProvider interface {
	AccountName() string
}

// OSAccount reads the account name from the operating system.
type OSAccount struct{}

// AccountName returns the login name without any Windows domain prefix.
func (OSAccount) AccountName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return StripDomain(u.Username)
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return StripDomain(v)
		}
	}
	return ""
}

// Static is an AccountProvider with a fixed name.
type Static string

// AccountName returns the fixed name.
func (s Static) AccountName() string { return string(s) }

// StripDomain removes a DOMAIN\ prefix.
func StripDomain(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Resolve finds the roster employee whose id equals account.
func Resolve(account string, roster []model.Employee) (model.Employee, bool) {
	if account == "" {
		return model.Employee{}, false
	}
	for _, e := range roster {
		if e.ID == account {
			return e, true
		}
	}
	return model.Employee{}, false
}

// Resolver answers who the current user is. The roster is read on every call
// so edits to the team document are picked up.
type Resolver struct {
	accounts AccountProvider
	roster   func() []model.Employee

	mu       sync.Mutex
	override string
}

// NewResolver returns a Resolver that reads the roster through roster.
func NewResolver(accounts AccountProvider, roster func() []model.Employee) *Resolver {
	if accounts == nil {
		accounts = OSAccount{}
	}
	return &Resolver{accounts: accounts, roster: roster}
}

func (r *Resolver) employees() []model.Employee {
	if r.roster == nil {
		return nil
	}
	return r.roster()
}

// Account returns the effective account name: the override when set,
// otherwise the OS account.
func (r *Resolver) Account() string {
	r.mu.Lock()
	override := r.override
	r.mu.Unlock()
	if override != "" {
		return override
	}
	return r.accounts.AccountName()
}

// CurrentUser returns the roster entry for the effective account.
func (r *Resolver) CurrentUser() (model.Employee, bool) {
	return Resolve(r.Account(), r.employees())
}

// CurrentUserID returns the resolved employee id, falling back to the raw
// account name when the account is not on the roster.
func (r *Resolver) CurrentUserID() string {
	if e, ok := r.CurrentUser(); ok {
		return e.ID
	}
	return r.Account()
}

// SetCurrentUser overrides the OS account with a roster id. It reports false
// and leaves the override unchanged when id is not on the roster.
func (r *Resolver) SetCurrentUser(id string) bool {
	if _, ok := Resolve(id, r.employees()); !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.override = id
	return true
}
