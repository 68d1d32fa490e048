package journal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/teller/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEncode(t *testing.T) {
	c := DefaultCodec()
	tests := []struct {
		name string
		rec  model.Record
		want string
	}{
		{
			"withdraw",
			model.Record{Kind: model.KindWithdraw, Holder: "Xuan Zheng", Account: "00003", Amount: dec("200")},
			"01_Xuan_Zheng____________00003_00200.00___",
		},
		{
			"transfer",
			model.Record{Kind: model.KindTransfer, Holder: "Dev Thaker", Account: "00001", Amount: dec("300.5"), Trailer: "00003"},
			"02_Dev_Thaker____________00001_00300.50_00003",
		},
		{
			"paybill",
			model.Record{Kind: model.KindPayBill, Holder: "Riddhi More", Account: "00006", Amount: dec("99999.99"), Trailer: "10000"},
			"03_Riddhi_More___________00006_99999.99_10000",
		},
		{
			"disable",
			model.Record{Kind: model.KindDisable, Holder: "Emon Roy", Account: "00007", Amount: decimal.Zero, Trailer: "D"},
			"07_Emon_Roy______________00007_00000.00_D_",
		},
		{
			"changeplan",
			model.Record{Kind: model.KindChangePlan, Holder: "Emon Roy", Account: "00007", Trailer: "NP"},
			"08_Emon_Roy______________00007_00000.00_NP",
		},
		{
			"sentinel",
			model.Sentinel(),
			"00_______________________00000_00000.00___",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Encode(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, len(got), minLine)
		})
	}
}

func TestEncode_Offsets(t *testing.T) {
	line, err := DefaultCodec().Encode(model.Record{
		Kind: model.KindDeposit, Holder: "Abcdefghij Klmnopqrs", Account: "12345", Amount: dec("1.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "04", line[0:2])
	assert.Equal(t, "Abcdefghij_Klmnopqrs_", line[3:24])
	assert.Equal(t, "12345", line[25:30])
	assert.Equal(t, "00001.50", line[31:39])
	assert.Equal(t, "__", line[40:])
}

func TestEncode_Errors(t *testing.T) {
	c := DefaultCodec()
	tests := []struct {
		name string
		rec  model.Record
	}{
		{"login has no code", model.Record{Kind: model.KindLogin, Account: "00001"}},
		{"amount too wide", model.Record{Kind: model.KindWithdraw, Account: "00001", Amount: dec("100000")}},
		{"negative amount", model.Record{Kind: model.KindWithdraw, Account: "00001", Amount: dec("-1")}},
		{"bad account", model.Record{Kind: model.KindWithdraw, Account: "1"}},
		{"long holder", model.Record{Kind: model.KindWithdraw, Holder: "Abcdefghijk Lmnopqrstu", Account: "00001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Encode(tt.rec)
			assert.Error(t, err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	c := DefaultCodec()
	recs := []model.Record{
		{Kind: model.KindWithdraw, Holder: "Xuan Zheng", Account: "00003", Amount: dec("200")},
		{Kind: model.KindTransfer, Holder: "A B C", Account: "00010", Amount: dec("0.01"), Trailer: "00011"},
		{Kind: model.KindPayBill, Holder: "Neel Shah", Account: "00004", Amount: dec("1999.999"), Trailer: "30000"},
		{Kind: model.KindCreate, Holder: "New Person", Account: "00009", Amount: dec("125.5")},
		{Kind: model.KindDisable, Holder: "Emon Roy", Account: "00007", Trailer: "D"},
		model.Sentinel(),
	}
	for _, r := range recs {
		line, err := c.Encode(r)
		require.NoError(t, err)

		got, err := c.Decode(line)
		require.NoError(t, err)
		assert.Equal(t, r.Kind, got.Kind, line)
		assert.Equal(t, r.Holder, got.Holder, line)
		assert.Equal(t, r.Account, got.Account, line)
		assert.True(t, r.Amount.Round(2).Equal(got.Amount), "%s: amount %s", line, got.Amount)
		assert.Equal(t, r.Trailer, got.Trailer, line)
	}
}

func TestDecode_Errors(t *testing.T) {
	c := DefaultCodec()
	for _, line := range []string{
		"",
		"01_Xuan_Zheng",
		"01-Xuan_Zheng____________00003_00200.00___",
		"99_Xuan_Zheng____________00003_00200.00___",
		"01_Xuan_Zheng____________0000x_00200.00___",
		"01_Xuan_Zheng____________00003_002oo.00___",
	} {
		_, err := c.Decode(line)
		assert.Error(t, err, "%q", line)
	}
}

func TestNewCodec(t *testing.T) {
	_, err := NewCodec(CodeTable{model.KindWithdraw: "01"})
	assert.Error(t, err, "logout is required")

	_, err = NewCodec(CodeTable{model.KindLogout: "00", model.KindWithdraw: "1"})
	assert.Error(t, err)

	_, err = NewCodec(CodeTable{model.KindLogout: "00", model.KindWithdraw: "00"})
	assert.Error(t, err)

	// Older numbering puts login at 01 and shifts withdraw.
	c, err := NewCodec(CodeTable{model.KindLogout: "00", model.KindLogin: "01", model.KindWithdraw: "09"})
	require.NoError(t, err)
	code, ok := c.Code(model.KindWithdraw)
	assert.True(t, ok)
	assert.Equal(t, "09", code)
}
