package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserValidation(t *testing.T) {
	_, err := NewUser("not-an-email", "Ada", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewUser("ada@example.com", "A", "correct-horse")
	assert.ErrorIs(t, err, ErrNameTooShort)

	_, err = NewUser("ada@example.com", "Ada", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	u, err := NewUser("Ada@Example.COM", "Ada", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email())
	assert.Equal(t, []Entitlement{EntitlementFree}, u.Entitlements())
	assert.True(t, u.CheckPassword("correct-horse"))
	assert.False(t, u.CheckPassword("wrong-horse"))
}

func TestEntitlements(t *testing.T) {
	u, err := NewUser("ada@example.com", "Ada", "correct-horse")
	require.NoError(t, err)

	assert.True(t, u.HasEntitlement(EntitlementFree))
	assert.False(t, u.HasEntitlement(EntitlementPlus))

	u.GrantEntitlement(EntitlementPlus, "mealpathway_plus_monthly")
	assert.True(t, u.HasEntitlement(EntitlementPlus))
	assert.Equal(t, "mealpathway_plus_monthly", u.PlanLookupKey())

	// Granting twice does not duplicate the tag.
	u.GrantEntitlement(EntitlementPlus, "")
	assert.Len(t, u.Entitlements(), 2)
	assert.Equal(t, "mealpathway_plus_monthly", u.PlanLookupKey())
}

func TestRecordLoginAndGateState(t *testing.T) {
	u, err := NewUser("ada@example.com", "Ada", "correct-horse")
	require.NoError(t, err)
	assert.Nil(t, u.LastLoginAt())

	u.RecordLogin("device-7")
	require.NotNil(t, u.LastLoginAt())
	assert.Equal(t, "device-7", u.DeviceID())

	u.RecordLogin("")
	assert.Equal(t, "device-7", u.DeviceID())

	state := u.GateState().AcceptDisclaimer()
	u.SetGateState(state)
	assert.True(t, u.GateState().DisclaimerAccepted)
}
