// Package session tracks who is logged in and what they may do.
package session

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/teller/internal/model"
	"github.com/cleared-dev/teller/internal/validate"
)

// State is the login state of the single run session.
type State int

const (
	LoggedOut State = iota
	StandardActive
	AdminActive
)

func (s State) String() string {
	switch s {
	case StandardActive:
		return "standard"
	case AdminActive:
		return "admin"
	default:
		return "logged_out"
	}
}

// Privilege decides which checks a handler runs.
type Privilege int

const (
	NoPrivilege Privilege = iota
	Standard
	Admin
)

func (p Privilege) String() string {
	switch p {
	case Standard:
		return "standard"
	case Admin:
		return "admin"
	default:
		return "none"
	}
}

// Session type tokens accepted by login.
const (
	TypeAdmin    = "admin"
	TypeStandard = "standard"
)

// HolderFinder resolves a holder name to an account.
type HolderFinder interface {
	FindByHolder(name string) (model.Account, bool)
}

// Session is the state machine driven by login and logout.
type Session struct {
	state  State
	acting string // account number of a standard session
	holder string
}

// New returns a logged-out session.
func New() *Session {
	return &Session{}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Active reports whether anyone is logged in.
func (s *Session) Active() bool {
	return s.state != LoggedOut
}

// Privilege returns the capability of the current session.
func (s *Session) Privilege() Privilege {
	switch s.state {
	case AdminActive:
		return Admin
	case StandardActive:
		return Standard
	default:
		return NoPrivilege
	}
}

// Acting returns the account number of a standard session, or "" for admin.
func (s *Session) Acting() string {
	return s.acting
}

// Holder returns the holder name of a standard session.
func (s *Session) Holder() string {
	return s.holder
}

// Login starts a session. sessionType is "admin" or "standard"; holder is
// only used for standard sessions.
func (s *Session) Login(sessionType, holder string, accounts HolderFinder) error {
	if s.Active() {
		return model.BadState("You are already logged in.")
	}

	switch strings.ToLower(strings.TrimSpace(sessionType)) {
	case TypeAdmin:
		s.state = AdminActive
		s.acting = ""
		s.holder = ""
		return nil
	case TypeStandard:
		acct, ok := accounts.FindByHolder(holder)
		if !ok {
			return model.NotFound("Invalid account holder name %q.", holder)
		}
		s.state = StandardActive
		s.acting = acct.Number
		s.holder = acct.Holder
		return nil
	default:
		return model.Invalid(string(validate.CheckSessionType), "Invalid session type %q.", sessionType)
	}
}

// Logout ends the session. The caller writes the sentinel record on success.
func (s *Session) Logout() error {
	if !s.Active() {
		return model.BadState("You are already logged out.")
	}
	s.state = LoggedOut
	s.acting = ""
	s.holder = ""
	return nil
}

// Authorize checks that a transaction of kind k may run in the current state.
func (s *Session) Authorize(k model.Kind) error {
	if !s.Active() {
		return model.Unauthorized("You must be logged in to %s.", k)
	}
	if k.AdminOnly() && s.state != AdminActive {
		return model.Unauthorized("%s is a privileged transaction that requires admin mode.", capitalize(string(k)))
	}
	return nil
}

// Owns reports whether the session may act on account number. Admin owns all.
func (s *Session) Owns(number string) bool {
	return s.state == AdminActive || (s.state == StandardActive && s.acting == strings.TrimSpace(number))
}

func (s *Session) String() string {
	if s.state == StandardActive {
		return fmt.Sprintf("%s(%s)", s.state, s.acting)
	}
	return s.state.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
