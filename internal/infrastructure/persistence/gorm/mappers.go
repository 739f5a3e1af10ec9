// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"encoding/json"
	"time"

	"github.com/mealpathway/v1/internal/domain/diabetes"
	"github.com/mealpathway/v1/internal/domain/gate"
	"github.com/mealpathway/v1/internal/domain/meal"
	"github.com/mealpathway/v1/internal/domain/shopping"
	"github.com/mealpathway/v1/internal/domain/user"
	"github.com/google/uuid"
)

// UserToModel converts a domain user to a GORM model.
func UserToModel(u *user.User) *UserModel {
	entitlements := make([]string, len(u.Entitlements()))
	for i, e := range u.Entitlements() {
		entitlements[i] = string(e)
	}

	gateState := u.GateState()
	var finishedAt *time.Time
	if !gateState.OnboardingFinishedAt.IsZero() {
		t := gateState.OnboardingFinishedAt
		finishedAt = &t
	}

	return &UserModel{
		ID:                   u.ID(),
		Email:                u.Email(),
		Name:                 u.Name(),
		PasswordHash:         u.PasswordHash(),
		Entitlements:         entitlements,
		PlanLookupKey:        u.PlanLookupKey(),
		DeviceID:             u.DeviceID(),
		DisclaimerAccepted:   gateState.DisclaimerAccepted,
		OnboardingCompleted:  gateState.OnboardingCompleted,
		OnboardingFinishedAt: finishedAt,
		CreatedAt:            u.CreatedAt(),
		UpdatedAt:            u.UpdatedAt(),
		LastLoginAt:          u.LastLoginAt(),
	}
}

// ModelToUser converts a GORM model back to the domain entity.
func ModelToUser(model *UserModel) *user.User {
	entitlements := make([]user.Entitlement, len(model.Entitlements))
	for i, e := range model.Entitlements {
		entitlements[i] = user.Entitlement(e)
	}

	gateState := gate.State{
		DisclaimerAccepted:  model.DisclaimerAccepted,
		OnboardingCompleted: model.OnboardingCompleted,
	}
	if model.OnboardingFinishedAt != nil {
		gateState.OnboardingFinishedAt = *model.OnboardingFinishedAt
	}

	return user.Reconstruct(
		model.ID,
		model.Email,
		model.Name,
		model.PasswordHash,
		entitlements,
		model.PlanLookupKey,
		model.DeviceID,
		gateState,
		model.CreatedAt,
		model.UpdatedAt,
		model.LastLoginAt,
	)
}

// MealToModel converts a canonical meal to a GORM model.
func MealToModel(userID uuid.UUID, m *meal.Meal) *MealModel {
	ingredients, _ := json.Marshal(m.Ingredients)

	return &MealModel{
		ID:           m.ID,
		UserID:       userID,
		Name:         m.Name,
		Description:  m.Description,
		ImageURL:     m.ImageURL,
		Ingredients:  JSONField(ingredients),
		Instructions: m.Instructions,
		Calories:     m.Macros.Calories,
		Protein:      m.Macros.Protein,
		Carbs:        m.Macros.Carbs,
		Fats:         m.Macros.Fats,
		Labels:       m.Labels,
		Badges:       m.Badges,
		Source:       m.Source,
		CreatedAt:    m.CreatedAt,
	}
}

// ModelToMeal converts a GORM model back to the canonical meal.
func ModelToMeal(model *MealModel) *meal.Meal {
	var ingredients []meal.Ingredient
	if len(model.Ingredients) > 0 {
		_ = json.Unmarshal(model.Ingredients, &ingredients)
	}
	if ingredients == nil {
		ingredients = []meal.Ingredient{}
	}

	instructions := []string(model.Instructions)
	if instructions == nil {
		instructions = []string{}
	}
	labels := []string(model.Labels)
	if labels == nil {
		labels = []string{}
	}
	badges := []string(model.Badges)
	if badges == nil {
		badges = []string{}
	}

	return &meal.Meal{
		ID:           model.ID,
		Name:         model.Name,
		Description:  model.Description,
		ImageURL:     model.ImageURL,
		Ingredients:  ingredients,
		Instructions: instructions,
		Macros: meal.Macros{
			Calories: model.Calories,
			Protein:  model.Protein,
			Carbs:    model.Carbs,
			Fats:     model.Fats,
		},
		Labels:    labels,
		Badges:    badges,
		Source:    model.Source,
		CreatedAt: model.CreatedAt,
	}
}

// ProfileToModel converts a diabetes profile to a GORM model.
func ProfileToModel(p *diabetes.Profile) *DiabetesProfileModel {
	return &DiabetesProfileModel{
		UserID:      p.UserID,
		Type:        string(p.Type),
		Medications: p.Medications,
		HypoHistory: p.HypoHistory,
		A1CPercent:  p.A1CPercent,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ModelToProfile converts a GORM model back to a diabetes profile.
func ModelToProfile(model *DiabetesProfileModel) *diabetes.Profile {
	medications := []string(model.Medications)
	if medications == nil {
		medications = []string{}
	}
	return &diabetes.Profile{
		UserID:      model.UserID,
		Type:        diabetes.DiabetesType(model.Type),
		Medications: medications,
		HypoHistory: model.HypoHistory,
		A1CPercent:  model.A1CPercent,
		UpdatedAt:   model.UpdatedAt,
	}
}

// GlucoseLogToModel converts a glucose log to a GORM model.
func GlucoseLogToModel(l *diabetes.GlucoseLog) *GlucoseLogModel {
	return &GlucoseLogModel{
		ID:            l.ID,
		UserID:        l.UserID,
		ValueMgdl:     l.ValueMgdl,
		Context:       l.Context,
		RelatedMealID: l.RelatedMealID,
		RecordedAt:    l.RecordedAt,
		InsulinUnits:  l.InsulinUnits,
		Notes:         l.Notes,
		CreatedAt:     l.CreatedAt,
	}
}

// ModelToGlucoseLog converts a GORM model back to a glucose log.
func ModelToGlucoseLog(model *GlucoseLogModel) *diabetes.GlucoseLog {
	return &diabetes.GlucoseLog{
		ID:            model.ID,
		UserID:        model.UserID,
		ValueMgdl:     model.ValueMgdl,
		Context:       model.Context,
		RelatedMealID: model.RelatedMealID,
		RecordedAt:    model.RecordedAt,
		InsulinUnits:  model.InsulinUnits,
		Notes:         model.Notes,
		CreatedAt:     model.CreatedAt,
	}
}

// ItemToModel converts a shopping item to a GORM model.
func ItemToModel(item *shopping.Item) *ShoppingItemModel {
	return &ShoppingItemModel{
		ID:        item.ID,
		UserID:    item.UserID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		Note:      item.Note,
		CreatedAt: item.CreatedAt,
	}
}

// ModelToItem converts a GORM model back to a shopping item.
func ModelToItem(model *ShoppingItemModel) *shopping.Item {
	return &shopping.Item{
		ID:        model.ID,
		UserID:    model.UserID,
		Name:      model.Name,
		Quantity:  model.Quantity,
		Unit:      model.Unit,
		Note:      model.Note,
		CreatedAt: model.CreatedAt,
	}
}
