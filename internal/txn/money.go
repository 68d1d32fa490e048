package txn

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/teller/internal/model"
	"github.com/cleared-dev/teller/internal/session"
	"github.com/cleared-dev/teller/internal/validate"
)

// Withdraw takes args [account, amount].
func Withdraw(env *Env, args []string) (Outcome, error) {
	if err := env.Session.Authorize(model.KindWithdraw); err != nil {
		return Outcome{}, err
	}
	number, raw := arg(args, 0), arg(args, 1)
	if err := missing("withdrawal",
		validate.Field{Name: "account", Value: number},
		validate.Field{Name: "amount", Value: raw},
	); err != nil {
		return Outcome{}, err
	}
	acct, ok := lookup(env, number)
	if !ok {
		return Outcome{}, model.NotFound("Invalid account number %s.", number)
	}
	if err := ownAccount(env, acct.Number, "withdraw from"); err != nil {
		return Outcome{}, err
	}
	amount, err := withdrawalAmount.numeric(raw)
	if err != nil {
		return Outcome{}, err
	}
	if err := withdrawalAmount.sign(amount); err != nil {
		return Outcome{}, err
	}
	if !validate.HasSufficientBalance(acct, amount) {
		return Outcome{}, model.Invalid(string(validate.CheckBalance), "Account balance less than requested withdrawal amount.")
	}

	updated, err := env.Accounts.Update(acct.Number, func(a *model.Account) {
		a.Balance = a.Balance.Sub(amount)
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("withdraw: %w", err)
	}
	return Outcome{
		Record:  model.Record{Kind: model.KindWithdraw, Holder: updated.Holder, Account: updated.Number, Amount: amount},
		Message: "Withdrawal successful. New balance: " + model.Dollars(updated.Balance),
	}, nil
}

// Deposit takes args [account, amount]. A deposit that would lift the balance
// above the policy cap is rejected.
func Deposit(env *Env, args []string) (Outcome, error) {
	if err := env.Session.Authorize(model.KindDeposit); err != nil {
		return Outcome{}, err
	}
	number, raw := arg(args, 0), arg(args, 1)
	if err := missing("deposit",
		validate.Field{Name: "account", Value: number},
		validate.Field{Name: "amount", Value: raw},
	); err != nil {
		return Outcome{}, err
	}
	acct, ok := lookup(env, number)
	if !ok {
		return Outcome{}, model.NotFound("Invalid account number %s.", number)
	}
	if err := ownAccount(env, acct.Number, "deposit to"); err != nil {
		return Outcome{}, err
	}
	amount, err := depositAmount.numeric(raw)
	if err != nil {
		return Outcome{}, err
	}
	if err := depositAmount.sign(amount); err != nil {
		return Outcome{}, err
	}
	if !validate.IsActive(acct) {
		return Outcome{}, model.Invalid(string(validate.CheckActive), "Account is inactive. Please use an available account.")
	}
	if !validate.WithinLimit(acct.Balance.Add(amount), env.Policy.BalanceCap) {
		return Outcome{}, model.Invalid(string(validate.CheckBalanceCap),
			"Cannot deposit more funds than the account balance limit of %s.", model.Dollars(env.Policy.BalanceCap))
	}
	if err := credit(acct, amount); err != nil {
		return Outcome{}, err
	}

	updated, err := env.Accounts.Update(acct.Number, func(a *model.Account) {
		a.Balance = a.Balance.Add(amount)
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("deposit: %w", err)
	}
	return Outcome{
		Record:  model.Record{Kind: model.KindDeposit, Holder: updated.Holder, Account: updated.Number, Amount: amount},
		Message: "Deposit successful. Funds unavailable for this session. New balance: " + model.Dollars(updated.Balance),
	}, nil
}

// Transfer takes args [sender, receiver, amount]. Admin sessions skip the
// ownership, distinct-party and limit checks but not balance or availability.
func Transfer(env *Env, args []string) (Outcome, error) {
	if err := env.Session.Authorize(model.KindTransfer); err != nil {
		return Outcome{}, err
	}
	from, to, raw := arg(args, 0), arg(args, 1), arg(args, 2)
	if err := missing("transfer",
		validate.Field{Name: "sender", Value: from},
		validate.Field{Name: "receiver", Value: to},
		validate.Field{Name: "amount", Value: raw},
	); err != nil {
		return Outcome{}, err
	}
	if err := ownAccount(env, from, "transfer from"); err != nil {
		return Outcome{}, err
	}
	src, ok := lookup(env, from)
	if !ok {
		return Outcome{}, model.NotFound("Source account %s does not exist.", from)
	}
	dst, ok := lookup(env, to)
	if !ok {
		return Outcome{}, model.NotFound("Target account %s does not exist.", to)
	}
	amount, err := transferAmount.numeric(raw)
	if err != nil {
		return Outcome{}, err
	}

	if env.Session.Privilege() == session.Admin {
		err = checkAdminTransfer(src, dst, amount)
	} else {
		err = checkStandardTransfer(env.Policy, src, dst, amount)
	}
	if err == nil && validate.DistinctParties(src, dst) {
		err = credit(dst, amount)
	}
	if err != nil {
		return Outcome{}, err
	}

	src, dst, err = env.Accounts.Transfer(src.Number, dst.Number, amount)
	if err != nil {
		return Outcome{}, fmt.Errorf("transfer: %w", err)
	}
	return Outcome{
		Record: model.Record{
			Kind:    model.KindTransfer,
			Holder:  src.Holder,
			Account: src.Number,
			Amount:  amount,
			Trailer: dst.Number,
		},
		Message: fmt.Sprintf("Transfer successful. New balance: %s (Account %s), %s (Account %s).",
			model.Dollars(src.Balance), src.Number, model.Dollars(dst.Balance), dst.Number),
	}, nil
}

func checkAdminTransfer(src, dst model.Account, amount decimal.Decimal) error {
	if err := transferAmount.sign(amount); err != nil {
		return err
	}
	if !validate.HasSufficientBalance(src, amount) {
		return model.Invalid(string(validate.CheckBalance), "Insufficient funds for transfer.")
	}
	if !validate.IsActive(dst) {
		return disabledForTransfer(dst)
	}
	return nil
}

func checkStandardTransfer(p Policy, src, dst model.Account, amount decimal.Decimal) error {
	if !validate.DistinctParties(src, dst) {
		return model.Invalid(string(validate.CheckDistinct), "Cannot transfer money to the same account.")
	}
	if !validate.IsActive(src) {
		return disabledForTransfer(src)
	}
	if !validate.IsActive(dst) {
		return disabledForTransfer(dst)
	}
	if err := transferAmount.sign(amount); err != nil {
		return err
	}
	if !validate.HasSufficientBalance(src, amount) {
		return model.Invalid(string(validate.CheckBalance), "Insufficient funds for transfer.")
	}
	if !validate.WithinLimit(amount, p.TransferLimit) {
		return model.Invalid(string(validate.CheckLimit),
			"Maximum transfer limit exceeded. You can transfer up to %s in this session.", model.Dollars(p.TransferLimit))
	}
	return nil
}

func disabledForTransfer(a model.Account) error {
	return model.Invalid(string(validate.CheckActive), "Account %s is disabled. Transfers cannot be processed.", a.Number)
}

// PayBill takes args [account, company, amount].
func PayBill(env *Env, args []string) (Outcome, error) {
	if err := env.Session.Authorize(model.KindPayBill); err != nil {
		return Outcome{}, err
	}
	number, company, raw := arg(args, 0), arg(args, 1), arg(args, 2)
	if err := missing("paybill",
		validate.Field{Name: "account", Value: number},
		validate.Field{Name: "company", Value: company},
		validate.Field{Name: "amount", Value: raw},
	); err != nil {
		return Outcome{}, err
	}
	acct, ok := lookup(env, number)
	if !ok {
		return Outcome{}, model.NotFound("Invalid account number %s.", number)
	}
	if err := ownAccount(env, acct.Number, "pay bills from"); err != nil {
		return Outcome{}, err
	}
	amount, err := paymentAmount.numeric(raw)
	if err != nil {
		return Outcome{}, err
	}
	company = strings.ToUpper(company)
	companyID, ok := env.Policy.Companies[company]
	if !ok {
		return Outcome{}, model.Invalid(string(validate.CheckCompany),
			"'%s' is not a recognized biller. Please use %s.", company, env.Policy.CompanyCodes())
	}
	if companyID == "" {
		return Outcome{}, model.Invalid(string(validate.CheckCompany), "No valid company ID found for the selected biller.")
	}

	if env.Session.Privilege() == session.Admin {
		err = checkAdminPayment(acct, amount)
	} else {
		err = checkStandardPayment(env.Policy, acct, company, amount)
	}
	if err != nil {
		return Outcome{}, err
	}

	updated, err := env.Accounts.Update(acct.Number, func(a *model.Account) {
		a.Balance = a.Balance.Sub(amount)
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("paybill: %w", err)
	}
	return Outcome{
		Record: model.Record{
			Kind:    model.KindPayBill,
			Holder:  updated.Holder,
			Account: updated.Number,
			Amount:  amount,
			Trailer: companyID,
		},
		Message: fmt.Sprintf("Payment successful. New balance for Account %s: %s.", updated.Number, model.Dollars(updated.Balance)),
	}, nil
}

func checkAdminPayment(acct model.Account, amount decimal.Decimal) error {
	if err := paymentAmount.sign(amount); err != nil {
		return err
	}
	if !validate.HasSufficientBalance(acct, amount) {
		return insufficientForPayment(acct)
	}
	return nil
}

func checkStandardPayment(p Policy, acct model.Account, company string, amount decimal.Decimal) error {
	if !validate.IsActive(acct) {
		return model.Invalid(string(validate.CheckActive), "Your account is disabled. Please use an available account to paybill.")
	}
	if err := paymentAmount.sign(amount); err != nil {
		return err
	}
	if !validate.WithinLimit(amount, p.PayBillLimit) {
		return model.Invalid(string(validate.CheckLimit),
			"Maximum bill payment limit exceeded. You can pay up to %s in this session.", model.Dollars(p.PayBillLimit))
	}
	if !validate.HasSufficientBalance(acct, amount) {
		return insufficientForPayment(acct)
	}
	if _, ok := p.Companies[company]; !ok {
		return model.Invalid(string(validate.CheckCompany), "Biller not recognized. Please use %s.", p.CompanyCodes())
	}
	return nil
}

func insufficientForPayment(acct model.Account) error {
	return model.Invalid(string(validate.CheckBalance),
		"Insufficient funds to pay the bill. Available balance: %s.", model.Dollars(acct.Balance))
}
