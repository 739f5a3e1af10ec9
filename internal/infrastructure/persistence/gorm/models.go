// Package gorm provides GORM model definitions and repository
// implementations.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is the GORM model for users. Gate flags are embedded so a
// single row round-trips the whole navigation state.
type UserModel struct {
	ID                   uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Email                string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name                 string      `gorm:"type:varchar(255);not null"`
	PasswordHash         string      `gorm:"type:varchar(255);not null"`
	Entitlements         StringSlice `gorm:"type:json"`
	PlanLookupKey        string      `gorm:"type:varchar(100)"`
	DeviceID             string      `gorm:"type:varchar(100)"`
	DisclaimerAccepted   bool        `gorm:"default:false"`
	OnboardingCompleted  bool        `gorm:"default:false"`
	OnboardingFinishedAt *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
	LastLoginAt          *time.Time
}

// MealModel is the GORM model for generated meals.
type MealModel struct {
	ID           uuid.UUID   `gorm:"type:char(36);primaryKey"`
	UserID       uuid.UUID   `gorm:"type:char(36);not null;index"`
	Name         string      `gorm:"type:varchar(255);not null"`
	Description  string      `gorm:"type:text"`
	ImageURL     string      `gorm:"type:text"`
	Ingredients  JSONField   `gorm:"type:json"`
	Instructions StringSlice `gorm:"type:json"`
	Calories     *float64
	Protein      *float64
	Carbs        *float64
	Fats         *float64
	Labels       StringSlice `gorm:"type:json"`
	Badges       StringSlice `gorm:"type:json"`
	Source       string      `gorm:"type:varchar(50);index"`
	CreatedAt    time.Time   `gorm:"index"`
}

// DiabetesProfileModel is the GORM model for diabetes profiles, one row
// per user.
type DiabetesProfileModel struct {
	UserID      uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Type        string      `gorm:"type:varchar(20);not null"`
	Medications StringSlice `gorm:"type:json"`
	HypoHistory bool        `gorm:"default:false"`
	A1CPercent  *float64
	UpdatedAt   time.Time
}

// GlucoseLogModel is the GORM model for glucose readings.
type GlucoseLogModel struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID `gorm:"type:char(36);not null;index"`
	ValueMgdl     int       `gorm:"not null"`
	Context       string    `gorm:"type:varchar(50)"`
	RelatedMealID *uuid.UUID `gorm:"type:char(36)"`
	RecordedAt    time.Time `gorm:"index"`
	InsulinUnits  *float64
	Notes         string    `gorm:"type:text"`
	CreatedAt     time.Time
}

// ShoppingItemModel is the GORM model for shopping list items.
type ShoppingItemModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Quantity  string    `gorm:"type:varchar(50)"`
	Unit      string    `gorm:"type:varchar(50)"`
	Note      string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time
}

// StringSlice stores a string slice as JSON.
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// JSONField stores an arbitrary JSON document.
type JSONField json.RawMessage

// Scan implements the sql.Scanner interface
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = JSONField("null")
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append(JSONField(nil), v...)
		return nil
	case string:
		*j = JSONField(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into JSONField", value)
	}
}

// Value implements the driver.Valuer interface
func (j JSONField) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "null", nil
	}
	return []byte(j), nil
}

// BeforeCreate hook for MealModel
func (m *MealModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for GlucoseLogModel
func (g *GlucoseLogModel) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for ShoppingItemModel
func (s *ShoppingItemModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (UserModel) TableName() string {
	return "users"
}

func (MealModel) TableName() string {
	return "meals"
}

func (DiabetesProfileModel) TableName() string {
	return "diabetes_profiles"
}

func (GlucoseLogModel) TableName() string {
	return "glucose_logs"
}

func (ShoppingItemModel) TableName() string {
	return "shopping_items"
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&MealModel{},
		&DiabetesProfileModel{},
		&GlucoseLogModel{},
		&ShoppingItemModel{},
	)
}
