// Package user defines the user domain entity
package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mealpathway/v1/internal/domain/gate"
)

// Entitlement is a tag on a user record indicating access to a paid feature
// tier.
type Entitlement string

const (
	EntitlementFree      Entitlement = "free"
	EntitlementPlus      Entitlement = "plus"
	EntitlementCoachPack Entitlement = "coach_pack"
)

// User represents a user in the system. Entitlements and the plan lookup key
// drive the feature gate; gate state drives client navigation.
type User struct {
	id           uuid.UUID
	email        string
	name         string
	passwordHash string
	entitlements []Entitlement
	planKey      string
	deviceID     string
	gateState    gate.State
	createdAt    time.Time
	updatedAt    time.Time
	lastLoginAt  *time.Time
}

var (
	ErrInvalidEmail     = errors.New("email address is invalid")
	ErrNameTooShort     = errors.New("name must be at least 2 characters")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

// NewUser creates a new user with validation
func NewUser(email, name, password string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	now := time.Now()
	return &User{
		id:           uuid.New(),
		email:        strings.ToLower(email),
		name:         name,
		passwordHash: string(hashedPassword),
		entitlements: []Entitlement{EntitlementFree},
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a user from persisted state. Used by repositories.
func Reconstruct(
	id uuid.UUID,
	email, name, passwordHash string,
	entitlements []Entitlement,
	planKey, deviceID string,
	gateState gate.State,
	createdAt, updatedAt time.Time,
	lastLoginAt *time.Time,
) *User {
	if entitlements == nil {
		entitlements = []Entitlement{}
	}
	return &User{
		id:           id,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		entitlements: entitlements,
		planKey:      planKey,
		deviceID:     deviceID,
		gateState:    gateState,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		lastLoginAt:  lastLoginAt,
	}
}

// ID returns the user's unique identifier
func (u *User) ID() uuid.UUID { return u.id }

// Email returns the user's email
func (u *User) Email() string { return u.email }

// Name returns the user's display name
func (u *User) Name() string { return u.name }

// PasswordHash returns the stored bcrypt hash
func (u *User) PasswordHash() string { return u.passwordHash }

// Entitlements returns the user's plan tags
func (u *User) Entitlements() []Entitlement { return u.entitlements }

// PlanLookupKey returns the checkout lookup key for the user's plan tier
func (u *User) PlanLookupKey() string { return u.planKey }

// DeviceID returns the last device identifier seen for this user
func (u *User) DeviceID() string { return u.deviceID }

// GateState returns the persisted navigation gate flags
func (u *User) GateState() gate.State { return u.gateState }

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns when the user was last updated
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// LastLoginAt returns the last login time, nil if never logged in
func (u *User) LastLoginAt() *time.Time { return u.lastLoginAt }

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}

// HasEntitlement reports whether the user carries the given plan tag.
func (u *User) HasEntitlement(e Entitlement) bool {
	for _, tag := range u.entitlements {
		if tag == e {
			return true
		}
	}
	return false
}

// GrantEntitlement adds a plan tag if not already present.
func (u *User) GrantEntitlement(e Entitlement, planKey string) {
	if !u.HasEntitlement(e) {
		u.entitlements = append(u.entitlements, e)
	}
	if planKey != "" {
		u.planKey = planKey
	}
	u.updatedAt = time.Now()
}

// SetGateState replaces the persisted gate flags.
func (u *User) SetGateState(s gate.State) {
	u.gateState = s
	u.updatedAt = time.Now()
}

// RecordLogin updates login bookkeeping and the device seen.
func (u *User) RecordLogin(deviceID string) {
	now := time.Now()
	u.lastLoginAt = &now
	if deviceID != "" {
		u.deviceID = deviceID
	}
	u.updatedAt = now
}

// validateEmail validates an email address shape without reaching for a full
// RFC parser.
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	at := strings.IndexByte(email, '@')
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return ErrInvalidEmail
	}
	return nil
}

func validateName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return ErrNameTooShort
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}
