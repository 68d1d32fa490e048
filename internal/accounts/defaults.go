package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/teller/internal/model"
)

// SampleRoster returns the demo roster written by `teller init`.
func SampleRoster() []model.Account {
	return []model.Account{
		sample("00001", "Dev Thaker", model.Active, "500.00"),
		sample("00002", "Wenbo Zhang", model.Disabled, "250.00"),
		sample("00003", "Xuan Zheng", model.Active, "1400.00"),
		sample("00004", "Neel Shah", model.Active, "0.00"),
		sample("00005", "Jeremy Bradbury", model.Disabled, "1500.00"),
		sample("00006", "Riddhi More", model.Active, "2200.00"),
		sample("00007", "Emon Roy", model.Active, "750.00"),
		sample("00008", "Eve Adams", model.Active, "300.00"),
	}
}

func sample(number, holder string, status model.Availability, balance string) model.Account {
	return model.Account{
		Number:       number,
		Holder:       holder,
		Balance:      decimal.RequireFromString(balance),
		Availability: status,
		Plan:         model.StudentPlan,
	}
}
