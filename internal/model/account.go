package model

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Availability is the A/D status flag carried by every account.
type Availability string

const (
	Active   Availability = "A"
	Disabled Availability = "D"
)

// Plan is the transaction fee plan of an account.
type Plan string

const (
	StudentPlan    Plan = "SP"
	NonStudentPlan Plan = "NP"
)

// Valid reports whether p is one of the known plan codes.
func (p Plan) Valid() bool {
	return p == StudentPlan || p == NonStudentPlan
}

// Toggle returns the other plan.
func (p Plan) Toggle() Plan {
	if p == NonStudentPlan {
		return StudentPlan
	}
	return NonStudentPlan
}

// MaxHolderLength is the longest holder name an account may carry, in bytes.
// Roster lines and records place fields by byte offset.
const MaxHolderLength = 20

// Account is a customer account held by the branch.
type Account struct {
	Number       string // 5-digit, zero-padded
	Holder       string
	Balance      decimal.Decimal
	Availability Availability
	Plan         Plan
}

// IsActive reports whether the account can take part in transactions.
func (a Account) IsActive() bool {
	return a.Availability == Active
}

// NormalizeHolder folds a holder name for comparison. Underscores and spaces
// are interchangeable because scripts and fixed-width files cannot carry spaces.
// "  Xuan_Zheng " -> "xuan zheng"
func NormalizeHolder(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// SameHolder reports whether two holder names refer to the same person.
func SameHolder(a, b string) bool {
	return NormalizeHolder(a) == NormalizeHolder(b)
}
