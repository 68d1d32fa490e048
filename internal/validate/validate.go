// Package validate holds the stateless checks every transaction handler is
// built from. Nothing here mutates an account.
package validate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/teller/internal/model"
)

// Check names a validation step. It is reported as the sub-kind of a
// model.ValidationError.
type Check string

const (
	CheckMissingFields Check = "missing_fields"
	CheckNumeric       Check = "numeric"
	CheckPositive      Check = "positive"
	CheckNonZero       Check = "non_zero"
	CheckBalance       Check = "sufficient_balance"
	CheckLimit         Check = "limit"
	CheckActive        Check = "active"
	CheckDistinct      Check = "distinct_parties"
	CheckCompany       Check = "company"
	CheckHolderName    Check = "holder_name"
	CheckAccountMatch  Check = "account_match"
	CheckBalanceCap    Check = "balance_cap"
	CheckPlan          Check = "plan"
	CheckSessionType   Check = "session_type"
	CheckRecord        Check = "record"
)

// Field is one named argument for MissingFields.
type Field struct {
	Name  string
	Value string
}

// AccountChecker tests whether an account number exists.
type AccountChecker interface {
	Exists(number string) bool
}

// AccountExists reports whether number names an account known to accounts.
func AccountExists(accounts AccountChecker, number string) bool {
	return accounts.Exists(number)
}

// IsActive reports whether the account is not disabled.
func IsActive(acct model.Account) bool {
	return acct.IsActive()
}

// HasSufficientBalance reports whether the account can cover amount.
func HasSufficientBalance(acct model.Account, amount decimal.Decimal) bool {
	return acct.Balance.GreaterThanOrEqual(amount)
}

// WithinLimit reports whether amount does not exceed limit.
func WithinLimit(amount, limit decimal.Decimal) bool {
	return amount.LessThanOrEqual(limit)
}

// IsPositive reports whether amount is not negative. Zero passes here and is
// rejected by IsNonZero so each case gets its own message.
func IsPositive(amount decimal.Decimal) bool {
	return !amount.IsNegative()
}

// IsNonZero reports whether amount differs from zero.
func IsNonZero(amount decimal.Decimal) bool {
	return !amount.IsZero()
}

// IsNumeric reports whether raw parses as a decimal number.
func IsNumeric(raw string) bool {
	_, err := ParseAmount(raw)
	return err == nil
}

// maxExponent bounds the exponent of a parsed amount. Comparing decimals
// rescales to the smaller exponent, so "1e-2000000000" would otherwise build
// a number with two billion digits.
const maxExponent = 20

// ParseAmount parses a decimal amount such as "200", "200.00" or "2e2".
func ParseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if exp := d.Exponent(); exp < -maxExponent || exp > maxExponent {
		return decimal.Decimal{}, fmt.Errorf("amount %q: exponent %d out of range", raw, exp)
	}
	return d, nil
}

// DistinctParties reports whether two accounts are different.
func DistinctParties(a, b model.Account) bool {
	return a.Number != b.Number
}

// MissingFields reports which fields are empty, in the order given.
func MissingFields(fields ...Field) (bool, []string) {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	return len(missing) == 0, missing
}
