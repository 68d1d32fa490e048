package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies a command or transaction type.
type Kind string

const (
	KindLogin      Kind = "login"
	KindLogout     Kind = "logout"
	KindWithdraw   Kind = "withdraw"
	KindTransfer   Kind = "transfer"
	KindPayBill    Kind = "paybill"
	KindDeposit    Kind = "deposit"
	KindCreate     Kind = "create"
	KindDelete     Kind = "delete"
	KindDisable    Kind = "disable"
	KindChangePlan Kind = "changeplan"
)

// Kinds lists every command in the order they are documented.
var Kinds = []Kind{
	KindLogin, KindLogout, KindWithdraw, KindTransfer, KindPayBill,
	KindDeposit, KindCreate, KindDelete, KindDisable, KindChangePlan,
}

// ParseKind maps a command token to its Kind. Matching is case-insensitive.
func ParseKind(token string) (Kind, bool) {
	for _, k := range Kinds {
		if strings.EqualFold(string(k), token) {
			return k, true
		}
	}
	return "", false
}

// AdminOnly reports whether the kind requires an admin session.
func (k Kind) AdminOnly() bool {
	switch k {
	case KindCreate, KindDelete, KindDisable, KindChangePlan:
		return true
	}
	return false
}

// Record is one completed transaction as written to the audit log.
type Record struct {
	Kind    Kind
	Holder  string
	Account string
	Amount  decimal.Decimal
	Trailer string // receiver, company id, status or plan; empty when unused
}

// Sentinel returns the blank record that closes a session.
func Sentinel() Record {
	return Record{Kind: KindLogout, Account: "00000", Amount: decimal.Zero}
}

// IsSentinel reports whether r is the session-closing marker.
func (r Record) IsSentinel() bool {
	return r.Kind == KindLogout
}
