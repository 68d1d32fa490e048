// Package txn implements one handler per transaction kind. Each handler runs
// its checks in a fixed order, mutates the account store only after every
// check passes, and returns the record describing the change.
package txn

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/teller/internal/accounts"
	"github.com/cleared-dev/teller/internal/model"
	"github.com/cleared-dev/teller/internal/session"
	"github.com/cleared-dev/teller/internal/validate"
)

// Policy holds the per-run limits and the biller table.
type Policy struct {
	TransferLimit decimal.Decimal
	PayBillLimit  decimal.Decimal
	BalanceCap    decimal.Decimal
	Companies     map[string]string // biller code -> settlement account id
}

// DefaultPolicy returns the branch's standard limits.
func DefaultPolicy() Policy {
	return Policy{
		TransferLimit: decimal.NewFromInt(1000),
		PayBillLimit:  decimal.NewFromInt(2000),
		BalanceCap:    decimal.NewFromInt(10000),
		Companies: map[string]string{
			"EC": "10000",
			"CQ": "20000",
			"FI": "30000",
		},
	}
}

// CompanyCodes returns the biller codes in sorted order, e.g. "CQ, EC, or FI".
func (p Policy) CompanyCodes() string {
	codes := make([]string, 0, len(p.Companies))
	for c := range p.Companies {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	switch len(codes) {
	case 0:
		return ""
	case 1:
		return codes[0]
	case 2:
		return codes[0] + " or " + codes[1]
	}
	return strings.Join(codes[:len(codes)-1], ", ") + ", or " + codes[len(codes)-1]
}

// Env is what a handler may read and mutate.
type Env struct {
	Accounts *accounts.Store
	Session  *session.Session
	Policy   Policy
}

// Outcome is the result of a successful handler.
type Outcome struct {
	Record  model.Record
	Message string
}

// Handler runs one transaction. args are positional, already split by the
// interpreter. A returned error means nothing was mutated.
type Handler func(env *Env, args []string) (Outcome, error)

// Handlers maps every transaction kind to its handler. Login and logout are
// session commands and are handled by the interpreter.
var Handlers = map[model.Kind]Handler{
	model.KindWithdraw:   Withdraw,
	model.KindDeposit:    Deposit,
	model.KindTransfer:   Transfer,
	model.KindPayBill:    PayBill,
	model.KindCreate:     Create,
	model.KindDelete:     Delete,
	model.KindDisable:    Disable,
	model.KindChangePlan: ChangePlan,
}

// Run dispatches k to its handler. Every handler authorizes against the
// session before looking at its arguments.
func Run(env *Env, k model.Kind, args []string) (Outcome, error) {
	h, ok := Handlers[k]
	if !ok {
		return Outcome{}, fmt.Errorf("no handler for %q", k)
	}
	return h(env, args)
}

func arg(args []string, i int) string {
	if i < len(args) {
		return strings.TrimSpace(args[i])
	}
	return ""
}

func missing(noun string, fields ...validate.Field) error {
	if ok, names := validate.MissingFields(fields...); !ok {
		return model.Invalid(string(validate.CheckMissingFields),
			"The %s %s is missing, so the process will be rejected. Please re-try.", noun, strings.Join(names, ", "))
	}
	return nil
}

// amountChecks parses raw and applies the numeric, positive and non-zero
// checks with messages for the given noun ("withdrawal", "deposit", ...).
type amountChecks struct {
	invalid string // "Invalid withdrawal amount."
	zero    string // "Withdrawal amount must be greater than zero."
}

func (c amountChecks) numeric(raw string) (decimal.Decimal, error) {
	if !validate.IsNumeric(raw) {
		return decimal.Zero, model.Invalid(string(validate.CheckNumeric), "%s Amount must be numeric.", c.invalid)
	}
	amount, _ := validate.ParseAmount(raw)
	return amount, nil
}

func (c amountChecks) sign(amount decimal.Decimal) error {
	if !validate.IsPositive(amount) {
		return model.Invalid(string(validate.CheckPositive), "%s Amount must be positive.", c.invalid)
	}
	if !validate.IsNonZero(amount) {
		return model.Invalid(string(validate.CheckNonZero), "%s", c.zero)
	}
	return nil
}

var (
	withdrawalAmount = amountChecks{"Invalid withdrawal amount.", "Withdrawal amount must be greater than zero."}
	depositAmount    = amountChecks{"Invalid deposit amount.", "Deposit amount must be greater than zero."}
	transferAmount   = amountChecks{"Invalid transfer amount.", "Transfer amount must be greater than zero."}
	paymentAmount    = amountChecks{"Invalid payment amount.", "Payment amount must be greater than zero."}
)

// lookup returns the account named by number once AccountExists accepts it.
func lookup(env *Env, number string) (model.Account, bool) {
	if !validate.AccountExists(env.Accounts, number) {
		return model.Account{}, false
	}
	return env.Accounts.Get(number)
}

// credit rejects an amount that would lift acct above the largest balance
// a record or roster line can carry.
func credit(acct model.Account, amount decimal.Decimal) error {
	if !validate.WithinLimit(acct.Balance.Add(amount), model.MaxAmount) {
		return model.Invalid(string(validate.CheckBalanceCap),
			"Account %s cannot hold more than %s.", acct.Number, model.Dollars(model.MaxAmount))
	}
	return nil
}

func ownAccount(env *Env, number, verb string) error {
	if env.Session.Privilege() == session.Standard && !env.Session.Owns(number) {
		return model.Unauthorized("You can only %s your own account %s.", verb, env.Session.Acting())
	}
	return nil
}

var zero = decimal.Zero
