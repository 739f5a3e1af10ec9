package diabetes

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGlucoseLogValidatesRange(t *testing.T) {
	userID := uuid.New()

	log, err := NewGlucoseLog(userID, 110, "fasting", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 110, log.ValueMgdl)
	assert.False(t, log.RecordedAt.IsZero())

	for _, value := range []int{19, 601, 0, -5} {
		_, err := NewGlucoseLog(userID, value, "fasting", time.Time{})
		assert.ErrorIs(t, err, ErrValueOutOfRange, value)
	}

	// Boundary values are valid readings.
	_, err = NewGlucoseLog(userID, MinGlucoseMgdl, "fasting", time.Time{})
	assert.NoError(t, err)
	_, err = NewGlucoseLog(userID, MaxGlucoseMgdl, "post-meal", time.Time{})
	assert.NoError(t, err)
}

func TestClassifyAlert(t *testing.T) {
	assert.Equal(t, AlertLowCritical, ClassifyAlert(53))
	assert.Equal(t, AlertNone, ClassifyAlert(54))
	assert.Equal(t, AlertNone, ClassifyAlert(400))
	assert.Equal(t, AlertHighCritical, ClassifyAlert(401))
	assert.Equal(t, AlertNone, ClassifyAlert(110))
}

func TestNewProfileDefaults(t *testing.T) {
	profile := NewProfile(uuid.New(), TypeTwo, nil, true, nil)
	assert.NotNil(t, profile.Medications)
	assert.Empty(t, profile.Medications)
	assert.True(t, profile.HypoHistory)
	assert.False(t, profile.UpdatedAt.IsZero())
}
