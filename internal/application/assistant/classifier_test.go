package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		utterance string
		want      Intent
	}{
		{"I might be having a heart attack", IntentBlocked},
		{"add protein shake to my list, my chest pain is back", IntentBlocked},
		{"open fitbrain", IntentNavigate},
		{"show me my meal plan", IntentNavigate},
		{"take me to the dashboard", IntentNavigate},
		{"add 2 lb chicken to my shopping list", IntentDo},
		{"put oat milk in my cart", IntentDo},
		{"log breakfast", IntentDo},
		{"how much protein should I eat per day", IntentQnAHealth},
		{"is keto safe long term", IntentQnAHealth},
		{"best cardio for fat loss", IntentQnAHealth},
		{"hello", IntentSmalltalk},
		{"thanks!", IntentSmalltalk},
		{"what's the weather like", IntentQnAHealth},
		{"", IntentQnAHealth},
	}

	for _, tc := range cases {
		t.Run(tc.utterance, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.utterance))
		})
	}
}

func TestDangerPatternOverridesEverything(t *testing.T) {
	// Navigation and shopping keywords present, but the safety rule has
	// priority zero.
	assert.Equal(t, IntentBlocked, Classify("open the dashboard and add aspirin to my list, I think I'm having a stroke"))
}

func TestParseAddToList(t *testing.T) {
	slots, ok := ParseAddToList("add 2 lb chicken to my shopping list")
	require.True(t, ok)
	assert.Equal(t, "chicken", slots.Item)
	require.NotNil(t, slots.Qty)
	assert.Equal(t, 2.0, *slots.Qty)
	assert.Equal(t, "lb", slots.Unit)
}

func TestParseAddToListWithoutQuantity(t *testing.T) {
	slots, ok := ParseAddToList("add spinach to the list")
	require.True(t, ok)
	assert.Equal(t, "spinach", slots.Item)
	assert.Nil(t, slots.Qty)
	assert.Empty(t, slots.Unit)
}

func TestParseAddToListNoMatch(t *testing.T) {
	_, ok := ParseAddToList("what should I eat for dinner")
	assert.False(t, ok)
}

func TestParseNavigation(t *testing.T) {
	cases := []struct {
		utterance string
		route     string
	}{
		{"open fitbrain", "/fitbrain-rush"},
		{"show me my shopping list", "/shopping-list"},
		{"go to my meal plan", "/meal-plan"},
		{"take me to the dashboard", "/dashboard"},
		{"show my glucose", "/diabetes"},
	}

	for _, tc := range cases {
		t.Run(tc.utterance, func(t *testing.T) {
			route, ok := ParseNavigation(tc.utterance)
			require.True(t, ok)
			assert.Equal(t, tc.route, route)
		})
	}
}

func TestParseNavigationNoDestination(t *testing.T) {
	_, ok := ParseNavigation("open the pod bay doors")
	assert.False(t, ok)
}
