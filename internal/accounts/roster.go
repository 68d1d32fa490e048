package accounts

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/teller/internal/id"
	"github.com/cleared-dev/teller/internal/model"
)

// EndOfFile is the sentinel line that closes a roster file.
const EndOfFile = "END_OF_FILE"

// Fixed-width roster layout:
//
//	NNNNN_HHHHHHHHHHHHHHHHHHHHHH_S_BBBBBBBB[_PP]
const (
	holderWidth   = 22
	balanceWidth  = model.AmountWidth
	colNumber     = 0
	colHolder     = 6
	colStatus     = 29
	colBalance    = 31
	colPlan       = 40
	minLineLength = colBalance + balanceWidth
	planLength    = colPlan + 2
)

// ReadAccounts reads a roster until END_OF_FILE or the first short line.
// Blank lines are skipped.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	sc := bufio.NewScanner(r)
	seen := make(map[string]int)

	var accounts []model.Account
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, EndOfFile) || len(line) < minLineLength {
			break
		}
		acct, err := UnmarshalAccount(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if prev, dup := seen[acct.Number]; dup {
			return nil, fmt.Errorf("line %d: account %s already defined on line %d", lineNo, acct.Number, prev)
		}
		seen[acct.Number] = lineNo
		accounts = append(accounts, acct)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	return accounts, nil
}

// WriteAccounts writes a roster followed by the END_OF_FILE sentinel.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	bw := bufio.NewWriter(w)
	for i, acct := range accounts {
		line, err := MarshalAccount(acct)
		if err != nil {
			return fmt.Errorf("account %d: %w", i+1, err)
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return fmt.Errorf("writing account %s: %w", acct.Number, err)
		}
	}
	if _, err := fmt.Fprintln(bw, EndOfFile); err != nil {
		return fmt.Errorf("writing sentinel: %w", err)
	}
	return bw.Flush()
}

// MarshalAccount renders an account as one roster line.
func MarshalAccount(acct model.Account) (string, error) {
	if !id.Valid(acct.Number) {
		return "", fmt.Errorf("invalid account number %q", acct.Number)
	}
	holder := strings.ReplaceAll(strings.TrimSpace(acct.Holder), " ", "_")
	if len(holder) > model.MaxHolderLength {
		return "", fmt.Errorf("holder %q exceeds %d characters", acct.Holder, model.MaxHolderLength)
	}
	balance, err := model.FormatAmount(acct.Balance)
	if err != nil {
		return "", err
	}
	status := acct.Availability
	if status == "" {
		status = model.Active
	}
	plan := acct.Plan
	if plan == "" {
		plan = model.StudentPlan
	}

	var b strings.Builder
	b.WriteString(acct.Number)
	b.WriteByte('_')
	b.WriteString(holder)
	b.WriteString(strings.Repeat("_", holderWidth-len(holder)))
	b.WriteByte('_')
	b.WriteString(string(status))
	b.WriteByte('_')
	b.WriteString(balance)
	b.WriteByte('_')
	b.WriteString(string(plan))
	return b.String(), nil
}

// UnmarshalAccount parses one roster line.
func UnmarshalAccount(line string) (model.Account, error) {
	if len(line) < minLineLength {
		return model.Account{}, fmt.Errorf("line too short: %d < %d", len(line), minLineLength)
	}

	number := line[colNumber : colNumber+id.Width]
	if !id.Valid(number) {
		return model.Account{}, fmt.Errorf("invalid account number %q", number)
	}

	holder := strings.ReplaceAll(strings.TrimRight(line[colHolder:colHolder+holderWidth], "_"), "_", " ")
	if len(holder) > model.MaxHolderLength {
		return model.Account{}, fmt.Errorf("holder %q for %s exceeds %d characters", holder, number, model.MaxHolderLength)
	}

	status := model.Availability(line[colStatus : colStatus+1])
	if status != model.Active && status != model.Disabled {
		return model.Account{}, fmt.Errorf("invalid availability %q for %s", status, number)
	}

	rawBalance := line[colBalance : colBalance+balanceWidth]
	balance, err := decimal.NewFromString(rawBalance)
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", rawBalance, err)
	}
	if balance.IsNegative() {
		return model.Account{}, fmt.Errorf("negative balance %s for %s", rawBalance, number)
	}

	plan := model.StudentPlan
	if len(line) >= planLength {
		p := model.Plan(line[colPlan:planLength])
		if !p.Valid() {
			return model.Account{}, fmt.Errorf("invalid plan %q for %s", p, number)
		}
		plan = p
	}

	return model.Account{
		Number:       number,
		Holder:       holder,
		Balance:      balance,
		Availability: status,
		Plan:         plan,
	}, nil
}
