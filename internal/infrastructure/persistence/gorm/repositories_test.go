package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	gormdb "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mealpathway/v1/internal/domain/diabetes"
	"github.com/mealpathway/v1/internal/domain/gate"
	"github.com/mealpathway/v1/internal/domain/meal"
	"github.com/mealpathway/v1/internal/domain/shopping"
	"github.com/mealpathway/v1/internal/domain/user"
)

func newTestDB(t *testing.T) *gormdb.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gormdb.Open(sqlite.Open(dsn), &gormdb.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	return db
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	u, err := user.NewUser("jo@example.com", "Jo", "correct-horse")
	require.NoError(t, err)
	u.GrantEntitlement(user.EntitlementPlus, "mealpathway_plus_monthly")
	u.SetGateState(gate.State{DisclaimerAccepted: true, OnboardingCompleted: true})

	require.NoError(t, repo.Create(ctx, u))

	found, err := repo.FindByEmail(ctx, "JO@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID(), found.ID())
	assert.Equal(t, "jo@example.com", found.Email())
	assert.True(t, found.HasEntitlement(user.EntitlementPlus))
	assert.Equal(t, "mealpathway_plus_monthly", found.PlanLookupKey())
	assert.True(t, found.GateState().DisclaimerAccepted)
	assert.True(t, found.GateState().OnboardingCompleted)
	assert.True(t, found.CheckPassword("correct-horse"))

	exists, err := repo.Exists(ctx, u.ID())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	first, err := user.NewUser("dup@example.com", "First", "password-one")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := user.NewUser("dup@example.com", "Second", "password-two")
	require.NoError(t, err)
	assert.Error(t, repo.Create(ctx, second))
}

func TestMealRepositoryRoundTrip(t *testing.T) {
	repo := NewMealRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	calories := 420.0
	m := meal.New("Miso Salmon Bowl")
	m.Description = "Salmon over rice with miso glaze"
	m.Ingredients = []meal.Ingredient{{Name: "salmon", Amount: "6 oz"}, {Name: "rice", Amount: "1 cup"}}
	m.Instructions = []string{"Cook rice", "Glaze and broil salmon"}
	m.Macros.Calories = &calories
	m.Labels = []string{"high-protein"}
	m.Source = "craving-creator"

	require.NoError(t, repo.Create(ctx, userID, m))

	found, err := repo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Name, found.Name)
	assert.Equal(t, m.Ingredients, found.Ingredients)
	assert.Equal(t, m.Instructions, found.Instructions)
	require.NotNil(t, found.Macros.Calories)
	assert.Equal(t, calories, *found.Macros.Calories)
	assert.Nil(t, found.Macros.Protein)

	listed, err := repo.FindByUserID(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, m.ID, listed[0].ID)
}

func TestDiabetesProfileUpsertLastWriteWins(t *testing.T) {
	repo := NewDiabetesRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	first := &diabetes.Profile{
		UserID:      userID,
		Type:        diabetes.TypeTwo,
		Medications: []string{"metformin"},
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, repo.UpsertProfile(ctx, first))

	a1c := 6.4
	second := &diabetes.Profile{
		UserID:      userID,
		Type:        diabetes.TypeTwo,
		Medications: []string{"metformin", "insulin"},
		HypoHistory: true,
		A1CPercent:  &a1c,
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, repo.UpsertProfile(ctx, second))

	found, err := repo.FindProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"metformin", "insulin"}, found.Medications)
	assert.True(t, found.HypoHistory)
	require.NotNil(t, found.A1CPercent)
	assert.Equal(t, a1c, *found.A1CPercent)
}

func TestGlucoseLogsNewestFirst(t *testing.T) {
	repo := NewDiabetesRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i, value := range []int{110, 95, 140} {
		log, err := diabetes.NewGlucoseLog(userID, value, "fasting", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, repo.CreateGlucoseLog(ctx, log))
	}

	logs, err := repo.ListGlucoseLogs(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 140, logs[0].ValueMgdl)
	assert.Equal(t, 95, logs[1].ValueMgdl)
}

func TestShoppingRepositoryReplaceAndDelete(t *testing.T) {
	repo := NewShoppingRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	initial := []*shopping.Item{
		shopping.NewItem(userID, "chicken", "2", "lb", ""),
		shopping.NewItem(userID, "rice", "1", "bag", ""),
	}
	require.NoError(t, repo.Save(ctx, initial))

	merged := []*shopping.Item{
		shopping.NewItem(userID, "chicken", "4", "lb", ""),
		shopping.NewItem(userID, "broccoli", "", "", "Grilled Veggie Plate"),
	}
	require.NoError(t, repo.Replace(ctx, userID, merged))

	items, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NoError(t, repo.Delete(ctx, userID, items[0].ID))
	assert.Error(t, repo.Delete(ctx, userID, items[0].ID))

	remaining, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
