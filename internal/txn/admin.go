package txn

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/teller/internal/id"
	"github.com/cleared-dev/teller/internal/model"
	"github.com/cleared-dev/teller/internal/validate"
)

// Create takes args [holder, initial balance] and opens an active
// student-plan account under the next unused number.
func Create(env *Env, args []string) (Outcome, error) {
	if err := env.Session.Authorize(model.KindCreate); err != nil {
		return Outcome{}, err
	}
	holder := strings.Join(strings.Fields(strings.ReplaceAll(arg(args, 0), "_", " ")), " ")
	raw := arg(args, 1)
	if holder == "" {
		return Outcome{}, model.Invalid(string(validate.CheckHolderName), "Account holder name cannot be empty.")
	}
	if len(holder) > model.MaxHolderLength {
		return Outcome{}, model.Invalid(string(validate.CheckHolderName),
			"Account holder name must be at most %d characters.", model.MaxHolderLength)
	}
	if !validate.IsNumeric(raw) {
		return Outcome{}, model.Invalid(string(validate.CheckNumeric), "Invalid initial balance. Amount must be numeric.")
	}
	balance, _ := validate.ParseAmount(raw)
	if !validate.IsPositive(balance) {
		return Outcome{}, model.Invalid(string(validate.CheckPositive), "Balance cannot be negative.")
	}
	if !validate.WithinLimit(balance, model.MaxAmount) {
		return Outcome{}, model.Invalid(string(validate.CheckLimit),
			"Initial balance cannot exceed %s.", model.Dollars(model.MaxAmount))
	}

	if !id.Valid(env.Accounts.NextNumber()) {
		return Outcome{}, model.BadState("No account numbers are left. Account for '%s' was not created.", holder)
	}

	acct, err := env.Accounts.Insert(holder, balance)
	if err != nil {
		return Outcome{}, fmt.Errorf("create: %w", err)
	}
	return Outcome{
		Record:  model.Record{Kind: model.KindCreate, Holder: acct.Holder, Account: acct.Number, Amount: balance},
		Message: fmt.Sprintf("Account %s created for '%s' with initial balance of %s.", acct.Number, acct.Holder, model.Dollars(balance)),
	}, nil
}

// Delete takes args [holder, account]. The holder must own the account.
func Delete(env *Env, args []string) (Outcome, error) {
	if err := env.Session.Authorize(model.KindDelete); err != nil {
		return Outcome{}, err
	}
	holder, number := arg(args, 0), arg(args, 1)
	if holder == "" {
		return Outcome{}, model.Invalid(string(validate.CheckHolderName), "Account holder name cannot be empty.")
	}
	acct, ok := lookup(env, number)
	if !ok || !model.SameHolder(acct.Holder, holder) {
		return Outcome{}, model.NotFound("No account found for %s with account number %s.", holder, number)
	}

	if _, ok := env.Accounts.Remove(acct.Number); !ok {
		return Outcome{}, fmt.Errorf("delete: account %s: %w", acct.Number, model.ErrNotFound)
	}
	return Outcome{
		Record:  model.Record{Kind: model.KindDelete, Holder: acct.Holder, Account: acct.Number, Amount: zero},
		Message: fmt.Sprintf("Account with account number %s has been deleted successfully.", acct.Number),
	}, nil
}

// Disable takes args [holder, account]. Disabling is one-way.
func Disable(env *Env, args []string) (Outcome, error) {
	if err := env.Session.Authorize(model.KindDisable); err != nil {
		return Outcome{}, err
	}
	holder, number := arg(args, 0), arg(args, 1)
	acct, err := holderAccount(env, holder, number)
	if err != nil {
		return Outcome{}, err
	}
	if !validate.IsActive(acct) {
		return Outcome{}, model.Invalid(string(validate.CheckActive), "Account %s is already disabled.", acct.Number)
	}

	updated, err := env.Accounts.Update(acct.Number, func(a *model.Account) {
		a.Availability = model.Disabled
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("disable: %w", err)
	}
	return Outcome{
		Record: model.Record{
			Kind:    model.KindDisable,
			Holder:  updated.Holder,
			Account: updated.Number,
			Amount:  zero,
			Trailer: string(model.Disabled),
		},
		Message: fmt.Sprintf("Account %s (%s) has been disabled.", updated.Number, updated.Holder),
	}, nil
}

// ChangePlan takes args [holder, account] or [holder, account, plan]. Without
// a plan the account switches to the other plan.
func ChangePlan(env *Env, args []string) (Outcome, error) {
	if err := env.Session.Authorize(model.KindChangePlan); err != nil {
		return Outcome{}, err
	}
	holder, number, planArg := arg(args, 0), arg(args, 1), arg(args, 2)
	acct, ok := env.Accounts.FindByHolder(holder)
	if !ok {
		return Outcome{}, model.NotFound("Account holder name %q not found.", holder)
	}
	if !validate.IsActive(acct) {
		return Outcome{}, model.Invalid(string(validate.CheckActive), "Account %s is disabled. Cannot change plan.", acct.Number)
	}
	if acct.Number != number {
		return Outcome{}, accountMismatch()
	}
	plan := acct.Plan.Toggle()
	if planArg != "" {
		plan = model.Plan(strings.ToUpper(planArg))
		if !plan.Valid() {
			return Outcome{}, model.Invalid(string(validate.CheckPlan), "Invalid plan %q. Must be 'SP' or 'NP'.", planArg)
		}
	}

	updated, err := env.Accounts.Update(acct.Number, func(a *model.Account) {
		a.Plan = plan
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("changeplan: %w", err)
	}
	return Outcome{
		Record: model.Record{
			Kind:    model.KindChangePlan,
			Holder:  updated.Holder,
			Account: updated.Number,
			Amount:  zero,
			Trailer: string(updated.Plan),
		},
		Message: fmt.Sprintf("Plan change successful. New plan for account %s is %s.", updated.Number, updated.Plan),
	}, nil
}

// holderAccount finds the lowest-numbered account of holder and checks that
// it is the account the admin named.
func holderAccount(env *Env, holder, number string) (model.Account, error) {
	acct, ok := env.Accounts.FindByHolder(holder)
	if !ok {
		return model.Account{}, model.NotFound("Account holder name %q not found.", holder)
	}
	if acct.Number != number {
		return model.Account{}, accountMismatch()
	}
	return acct, nil
}

func accountMismatch() error {
	return model.Invalid(string(validate.CheckAccountMatch), "Provided account number does not match the account holder name.")
}
