package images

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/domain/meal"
	"github.com/mealpathway/v1/internal/infrastructure/cache"
	"github.com/mealpathway/v1/internal/infrastructure/config"
	"github.com/mealpathway/v1/internal/ports/outbound"
)

type stubSearch struct {
	result *outbound.ImageResult
	err    error
	calls  int
}

func (s *stubSearch) Search(ctx context.Context, query string) (*outbound.ImageResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubGenerator struct {
	configured bool
	url        string
	err        error
	calls      int
}

func (g *stubGenerator) Configured() bool { return g.configured }

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.url, nil
}

func testConfig() config.ImagesConfig {
	return config.ImagesConfig{
		CacheTTL:  0,
		BatchSize: 2,
		FallbackAssets: config.FallbackAssets{
			Breakfast: "/assets/meals/breakfast-default.jpg",
			Lunch:     "/assets/meals/lunch-default.jpg",
			Dinner:    "/assets/meals/dinner-default.jpg",
		},
	}
}

func newTestService(t *testing.T, search outbound.ImageSearchClient, gen outbound.ImageGenerationClient) *Service {
	t.Helper()
	repo := cache.NewLayeredCache(cache.NewLocalCache(100), nil, 0, zap.NewNop())
	return NewService(repo, search, gen, testConfig(), zap.NewNop())
}

func TestResolveCacheHitSkipsProviders(t *testing.T) {
	search := &stubSearch{result: &outbound.ImageResult{URL: "https://img.example/oats.jpg", Width: 640, Height: 640}}
	svc := newTestService(t, search, &stubGenerator{})

	first := svc.Resolve(context.Background(), "meal", "Overnight Oats")
	second := svc.Resolve(context.Background(), "meal", "Overnight Oats")

	assert.Equal(t, "https://img.example/oats.jpg", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, search.calls, "second request must be served from cache")
}

func TestResolveFallsBackToGeneration(t *testing.T) {
	search := &stubSearch{err: errors.New("search unavailable")}
	gen := &stubGenerator{configured: true, url: "https://cdn.example/generated.png"}
	svc := newTestService(t, search, gen)

	url := svc.Resolve(context.Background(), "meal", "Miso Salmon Bowl")

	assert.Equal(t, "https://cdn.example/generated.png", url)
	assert.Equal(t, 1, search.calls)
	assert.Equal(t, 1, gen.calls)
}

func TestResolveUnconfiguredGeneratorIsSkipped(t *testing.T) {
	search := &stubSearch{err: errors.New("search unavailable")}
	gen := &stubGenerator{configured: false}
	svc := newTestService(t, search, gen)

	url := svc.Resolve(context.Background(), "meal", "Miso Salmon Bowl")

	assert.Empty(t, url)
	assert.Zero(t, gen.calls)
}

func TestResolveExhaustedChainReturnsEmptyAndCachesIt(t *testing.T) {
	search := &stubSearch{err: errors.New("down")}
	gen := &stubGenerator{configured: true, err: errors.New("down")}
	svc := newTestService(t, search, gen)

	for i := 0; i < 3; i++ {
		url := svc.Resolve(context.Background(), "ingredient", "dragon fruit")
		assert.Empty(t, url, "an exhausted chain must not invent a URL")
	}

	assert.Equal(t, 1, search.calls, "the empty result must be cached, not retried")
	assert.Equal(t, 1, gen.calls)
}

func TestResolveMealStaticFallbackIsDeterministicAndCached(t *testing.T) {
	search := &stubSearch{err: errors.New("down")}
	gen := &stubGenerator{configured: true, err: errors.New("down")}
	svc := newTestService(t, search, gen)

	parfait := meal.New("Blueberry Breakfast Parfait")
	for i := 0; i < 3; i++ {
		url := svc.ResolveMeal(context.Background(), parfait, "")
		assert.Equal(t, "/assets/meals/breakfast-default.jpg", url)
	}

	assert.Equal(t, 1, search.calls, "fallback must be cached, not retried")
	assert.Equal(t, 1, gen.calls)
}

func TestResolveMealFallbackAssetBySlot(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Sunrise Breakfast Hash", "/assets/meals/breakfast-default.jpg"},
		{"Packed Lunch Wrap", "/assets/meals/lunch-default.jpg"},
		{"Herb Roasted Chicken", "/assets/meals/dinner-default.jpg"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t, &stubSearch{err: errors.New("down")}, &stubGenerator{})
			assert.Equal(t, tc.want, svc.ResolveMeal(context.Background(), meal.New(tc.name), ""))
		})
	}
}

func TestResolveMealKeyCoversIngredientsAndStyle(t *testing.T) {
	search := &stubSearch{result: &outbound.ImageResult{URL: "https://img.example/bowl.jpg", Width: 512, Height: 512}}
	svc := newTestService(t, search, &stubGenerator{})

	base := meal.New("Quinoa Bowl")
	base.Ingredients = []meal.Ingredient{{Name: "quinoa"}, {Name: "kale"}}

	variant := meal.New("Quinoa Bowl")
	variant.Ingredients = []meal.Ingredient{{Name: "quinoa"}, {Name: "feta"}}

	svc.ResolveMeal(context.Background(), base, "rustic")
	svc.ResolveMeal(context.Background(), base, "rustic")
	require.Equal(t, 1, search.calls, "identical meal and style must hit the cache")

	svc.ResolveMeal(context.Background(), variant, "rustic")
	assert.Equal(t, 2, search.calls, "different ingredients must miss the cache")
}

func TestBatchMealImagesSurvivesPerItemFailure(t *testing.T) {
	search := &stubSearch{err: errors.New("down")}
	svc := newTestService(t, search, &stubGenerator{})

	meals := []*meal.Meal{
		meal.New("Berry Breakfast Smoothie"),
		meal.New("Grilled Veggie Plate"),
		nil,
		meal.New("Lentil Lunch Soup"),
	}

	svc.BatchMealImages(context.Background(), meals, "")

	assert.Equal(t, "/assets/meals/breakfast-default.jpg", meals[0].ImageURL)
	assert.Equal(t, "/assets/meals/dinner-default.jpg", meals[1].ImageURL)
	assert.Equal(t, "/assets/meals/lunch-default.jpg", meals[3].ImageURL)
}
