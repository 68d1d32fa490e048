package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/teller/internal/model"
)

func TestReadTokens(t *testing.T) {
	toks, err := readTokens(strings.NewReader("  login \n\n admin\r\n\t\nlogout"))
	require.NoError(t, err)
	assert.Equal(t, []string{"login", "admin", "logout"}, toks.items)
}

func TestArgs(t *testing.T) {
	tests := []struct {
		name   string
		kind   model.Kind
		stream []string
		want   []string
		left   int
	}{
		{"logout", model.KindLogout, []string{"login"}, []string{}, 1},
		{"login admin", model.KindLogin, []string{"Admin", "withdraw"}, []string{"Admin"}, 1},
		{"login standard", model.KindLogin, []string{"standard", "Xuan Zheng", "logout"}, []string{"standard", "Xuan Zheng"}, 1},
		{"withdraw", model.KindWithdraw, []string{"00003", "200", "logout"}, []string{"00003", "200"}, 1},
		{"transfer", model.KindTransfer, []string{"00001", "00002", "5"}, []string{"00001", "00002", "5"}, 0},
		{"changeplan with plan", model.KindChangePlan, []string{"Emon", "00007", "SP", "logout"}, []string{"Emon", "00007", "SP"}, 1},
		{"changeplan before command", model.KindChangePlan, []string{"Emon", "00007", "Logout"}, []string{"Emon", "00007"}, 1},
		{"changeplan at end", model.KindChangePlan, []string{"Emon", "00007"}, []string{"Emon", "00007"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := &tokens{items: tt.stream}
			got, err := toks.args(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, append([]string{}, got...))
			assert.Equal(t, tt.left, toks.remaining())
		})
	}
}

func TestArgs_Truncated(t *testing.T) {
	tests := []struct {
		kind   model.Kind
		stream []string
		msg    string
	}{
		{model.KindLogin, nil, "Missing arguments for login: need 1, have 0."},
		{model.KindLogin, []string{"standard"}, "Missing arguments for login: need 2, have 1."},
		{model.KindTransfer, []string{"00001", "00002"}, "Missing arguments for transfer: need 3, have 2."},
		{model.KindPayBill, nil, "Missing arguments for paybill: need 3, have 0."},
		{model.KindChangePlan, []string{"Emon"}, "Missing arguments for changeplan: need 2, have 1."},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			toks := &tokens{items: tt.stream}
			_, err := toks.args(tt.kind)
			require.ErrorIs(t, err, model.ErrTruncated)
			assert.Equal(t, tt.msg, err.Error())
			assert.Zero(t, toks.remaining())
		})
	}
}
