package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		token string
		want  Kind
		ok    bool
	}{
		{"login", KindLogin, true},
		{"LOGOUT", KindLogout, true},
		{"Transfer", KindTransfer, true},
		{"changeplan", KindChangePlan, true},
		{"withdrawal", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.token)
		assert.Equal(t, tt.ok, ok, "ParseKind(%q)", tt.token)
		assert.Equal(t, tt.want, got, "ParseKind(%q)", tt.token)
	}
}

func TestAdminOnly(t *testing.T) {
	admin := map[Kind]bool{KindCreate: true, KindDelete: true, KindDisable: true, KindChangePlan: true}
	for _, k := range Kinds {
		assert.Equal(t, admin[k], k.AdminOnly(), "kind %s", k)
	}
}

func TestSentinel(t *testing.T) {
	r := Sentinel()
	assert.True(t, r.IsSentinel())
	assert.Equal(t, "00000", r.Account)
	assert.True(t, r.Amount.IsZero())
	assert.Empty(t, r.Holder)
}
