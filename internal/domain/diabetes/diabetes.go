// Package diabetes holds the diabetes profile and glucose logging domain:
// value range validation and clinical alert classification.
package diabetes

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Glucose value bounds in mg/dL. Values outside this range are rejected as
// physiologically impossible rather than stored.
const (
	MinGlucoseMgdl = 20
	MaxGlucoseMgdl = 600
)

// Clinical alert thresholds in mg/dL. These are fixed service-level
// constants, not per-user configuration.
const (
	LowCriticalMgdl  = 54
	HighCriticalMgdl = 400
)

// Alert tags attached to a glucose log response. Alerts are derived on read,
// never persisted.
type Alert string

const (
	AlertNone         Alert = ""
	AlertLowCritical  Alert = "LOW_CRITICAL"
	AlertHighCritical Alert = "HIGH_CRITICAL"
)

// ErrValueOutOfRange reports a glucose value outside [MinGlucoseMgdl,
// MaxGlucoseMgdl].
var ErrValueOutOfRange = errors.New("glucose value out of range")

// DiabetesType enumerates the supported profile types.
type DiabetesType string

const (
	TypeOne         DiabetesType = "type1"
	TypeTwo         DiabetesType = "type2"
	TypeGestational DiabetesType = "gestational"
	TypePrediabetes DiabetesType = "prediabetes"
)

// Profile is a user's diabetes profile, one row per user, last write wins.
type Profile struct {
	UserID      uuid.UUID    `json:"userId"`
	Type        DiabetesType `json:"type"`
	Medications []string     `json:"medications,omitempty"`
	HypoHistory bool         `json:"hypoHistory,omitempty"`
	A1CPercent  *float64     `json:"a1cPercent,omitempty"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// GlucoseLog is a single glucose reading.
type GlucoseLog struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	ValueMgdl     int        `json:"valueMgdl"`
	Context       string     `json:"context,omitempty"`
	RelatedMealID *uuid.UUID `json:"relatedMealId,omitempty"`
	RecordedAt    time.Time  `json:"recordedAt"`
	InsulinUnits  *float64   `json:"insulinUnits,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// NewProfile builds a profile row with the update timestamp applied.
func NewProfile(userID uuid.UUID, profileType DiabetesType, medications []string, hypoHistory bool, a1cPercent *float64) *Profile {
	if medications == nil {
		medications = []string{}
	}
	return &Profile{
		UserID:      userID,
		Type:        profileType,
		Medications: medications,
		HypoHistory: hypoHistory,
		A1CPercent:  a1cPercent,
		UpdatedAt:   time.Now(),
	}
}

// NewGlucoseLog validates the value range and builds a log row. RecordedAt
// defaults to now when zero.
func NewGlucoseLog(userID uuid.UUID, valueMgdl int, context string, recordedAt time.Time) (*GlucoseLog, error) {
	if valueMgdl < MinGlucoseMgdl || valueMgdl > MaxGlucoseMgdl {
		return nil, ErrValueOutOfRange
	}
	now := time.Now()
	if recordedAt.IsZero() {
		recordedAt = now
	}
	return &GlucoseLog{
		ID:         uuid.New(),
		UserID:     userID,
		ValueMgdl:  valueMgdl,
		Context:    context,
		RecordedAt: recordedAt,
		CreatedAt:  now,
	}, nil
}

// ClassifyAlert maps a glucose value to its clinical alert tag.
func ClassifyAlert(valueMgdl int) Alert {
	switch {
	case valueMgdl < LowCriticalMgdl:
		return AlertLowCritical
	case valueMgdl > HighCriticalMgdl:
		return AlertHighCritical
	default:
		return AlertNone
	}
}
