package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/teller/internal/model"
)

type fakeHolders map[string]model.Account

func (f fakeHolders) FindByHolder(name string) (model.Account, bool) {
	for _, a := range f {
		if model.SameHolder(a.Holder, name) {
			return a, true
		}
	}
	return model.Account{}, false
}

var holders = fakeHolders{
	"00003": {Number: "00003", Holder: "Xuan Zheng"},
}

func TestLoginAdmin(t *testing.T) {
	s := New()
	require.NoError(t, s.Login("admin", "", holders))
	assert.Equal(t, AdminActive, s.State())
	assert.Equal(t, Admin, s.Privilege())
	assert.Empty(t, s.Acting())
	assert.True(t, s.Owns("00042"))
}

func TestLoginStandard(t *testing.T) {
	s := New()
	require.NoError(t, s.Login("Standard", "xuan_zheng", holders))
	assert.Equal(t, StandardActive, s.State())
	assert.Equal(t, Standard, s.Privilege())
	assert.Equal(t, "00003", s.Acting())
	assert.Equal(t, "Xuan Zheng", s.Holder())
	assert.True(t, s.Owns("00003"))
	assert.False(t, s.Owns("00001"))
	assert.Equal(t, "standard(00003)", s.String())
}

func TestLoginStandard_UnknownHolder(t *testing.T) {
	s := New()
	err := s.Login("standard", "Nobody", holders)
	require.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, LoggedOut, s.State())
}

func TestLogin_InvalidType(t *testing.T) {
	s := New()
	err := s.Login("superuser", "", holders)
	require.ErrorIs(t, err, model.ErrInvalid)
	assert.False(t, s.Active())
}

func TestLogin_Twice(t *testing.T) {
	s := New()
	require.NoError(t, s.Login("admin", "", holders))

	err := s.Login("standard", "Xuan_Zheng", holders)
	require.ErrorIs(t, err, model.ErrState)
	assert.Equal(t, AdminActive, s.State(), "rejected login keeps the session")
	assert.Contains(t, err.Error(), "already logged in")
}

func TestLogout(t *testing.T) {
	s := New()
	require.NoError(t, s.Login("standard", "Xuan Zheng", holders))
	require.NoError(t, s.Logout())
	assert.Equal(t, LoggedOut, s.State())
	assert.Empty(t, s.Acting())

	err := s.Logout()
	require.ErrorIs(t, err, model.ErrState)
	assert.Contains(t, err.Error(), "already logged out")
}

func TestAuthorize(t *testing.T) {
	s := New()
	err := s.Authorize(model.KindWithdraw)
	require.ErrorIs(t, err, model.ErrUnauthorized)

	require.NoError(t, s.Login("standard", "Xuan Zheng", holders))
	assert.NoError(t, s.Authorize(model.KindWithdraw))
	assert.NoError(t, s.Authorize(model.KindDeposit))

	for _, k := range []model.Kind{model.KindCreate, model.KindDelete, model.KindDisable, model.KindChangePlan} {
		err := s.Authorize(k)
		assert.ErrorIs(t, err, model.ErrUnauthorized, "kind %s", k)
		assert.Contains(t, err.Error(), "requires admin mode")
	}

	require.NoError(t, s.Logout())
	require.NoError(t, s.Login("admin", "", holders))
	for _, k := range model.Kinds {
		assert.NoError(t, s.Authorize(k), "kind %s", k)
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "logged_out", LoggedOut.String())
	assert.Equal(t, "admin", Admin.String())
	assert.Equal(t, "none", NoPrivilege.String())
}
