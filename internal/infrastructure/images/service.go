// Package images implements the meal image pipeline: a cached fallback
// chain of free search, paid generation, and static assets.
package images

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/domain/meal"
	"github.com/mealpathway/v1/internal/infrastructure/config"
	"github.com/mealpathway/v1/internal/ports/outbound"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealpathway_image_cache_lookups_total",
		Help: "Image cache lookups by outcome",
	}, []string{"outcome"})

	providerCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealpathway_image_provider_calls_total",
		Help: "External image provider calls by provider and outcome",
	}, []string{"provider", "outcome"})

	fallbacksServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealpathway_image_fallbacks_total",
		Help: "Requests resolved with a static fallback asset",
	})
)

// Service resolves an image URL for a subject through an ordered chain:
// cache, free search, paid generation. Neither variant ever errors. When
// every provider is down the meal variant returns a deterministic local
// asset path while the generic variant returns "", so callers can tell
// "no image" apart from a real URL. Exhausted results are cached either
// way so repeated requests do not retry external calls.
type Service struct {
	cache     outbound.CacheRepository
	search    outbound.ImageSearchClient
	generator outbound.ImageGenerationClient
	cfg       config.ImagesConfig
	logger    *zap.Logger
}

// NewService creates the image pipeline service.
func NewService(
	cache outbound.CacheRepository,
	search outbound.ImageSearchClient,
	generator outbound.ImageGenerationClient,
	cfg config.ImagesConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		cache:     cache,
		search:    search,
		generator: generator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Resolve returns an image URL for an arbitrary subject, or "" when the
// whole chain fails. The cache key is the type and lowercased name.
func (s *Service) Resolve(ctx context.Context, imageType, name string) string {
	key := fmt.Sprintf("image:%s-%s", imageType, strings.ToLower(strings.TrimSpace(name)))
	prompt := fmt.Sprintf("%s, %s, professional food photography", name, imageType)
	return s.resolve(ctx, key, name, prompt, "")
}

// ResolveMeal returns an image URL for a meal. The cache key is an MD5
// hash over the meal name, ingredient names, and style, so the same meal
// generated twice reuses the same image.
func (s *Service) ResolveMeal(ctx context.Context, m *meal.Meal, style string) string {
	key := "image:meal-" + mealCacheKey(m, style)
	prompt := mealPrompt(m, style)
	return s.resolve(ctx, key, m.Name, prompt, s.fallbackFor(m.Name))
}

// BatchMealImages fills in ImageURL for every meal, processing in fixed
// size batches with a delay between them. A per-meal failure is replaced
// with the dinner fallback and never aborts the batch.
func (s *Service) BatchMealImages(ctx context.Context, meals []*meal.Meal, style string) {
	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 3
	}

	for start := 0; start < len(meals); start += batchSize {
		end := start + batchSize
		if end > len(meals) {
			end = len(meals)
		}

		for _, m := range meals[start:end] {
			if m == nil {
				continue
			}
			m.ImageURL = s.ResolveMeal(ctx, m, style)
		}

		if end < len(meals) && s.cfg.BatchDelay > 0 {
			select {
			case <-time.After(s.cfg.BatchDelay):
			case <-ctx.Done():
				for _, m := range meals[end:] {
					if m != nil && m.ImageURL == "" {
						m.ImageURL = s.cfg.FallbackAssets.Dinner
					}
				}
				return
			}
		}
	}
}

func (s *Service) resolve(ctx context.Context, key, name, prompt, fallback string) string {
	// A cached empty value is a remembered exhausted chain, so presence
	// alone counts as a hit.
	if cached, err := s.cache.Get(ctx, key); err == nil {
		cacheLookups.WithLabelValues("hit").Inc()
		return string(cached)
	}
	cacheLookups.WithLabelValues("miss").Inc()

	if url := s.trySearch(ctx, name); url != "" {
		s.store(ctx, key, url)
		return url
	}

	if url := s.tryGenerate(ctx, prompt); url != "" {
		s.store(ctx, key, url)
		return url
	}

	if fallback != "" {
		fallbacksServed.Inc()
		s.logger.Debug("serving static image fallback", zap.String("name", name))
	}
	s.store(ctx, key, fallback)
	return fallback
}

func (s *Service) trySearch(ctx context.Context, query string) string {
	if s.search == nil {
		return ""
	}

	result, err := s.search.Search(ctx, query)
	if err != nil {
		providerCalls.WithLabelValues("search", "failure").Inc()
		s.logger.Debug("image search failed", zap.String("query", query), zap.Error(err))
		return ""
	}

	providerCalls.WithLabelValues("search", "success").Inc()
	return result.URL
}

func (s *Service) tryGenerate(ctx context.Context, prompt string) string {
	if s.generator == nil || !s.generator.Configured() {
		return ""
	}

	url, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		providerCalls.WithLabelValues("generation", "failure").Inc()
		s.logger.Warn("image generation failed", zap.Error(err))
		return ""
	}

	providerCalls.WithLabelValues("generation", "success").Inc()
	return url
}

func (s *Service) store(ctx context.Context, key, url string) {
	if err := s.cache.Set(ctx, key, []byte(url), s.cfg.CacheTTL); err != nil {
		s.logger.Debug("image cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// fallbackFor picks the static asset by meal slot.
func (s *Service) fallbackFor(name string) string {
	switch meal.Slot(name) {
	case "breakfast":
		return s.cfg.FallbackAssets.Breakfast
	case "lunch":
		return s.cfg.FallbackAssets.Lunch
	default:
		return s.cfg.FallbackAssets.Dinner
	}
}

func mealCacheKey(m *meal.Meal, style string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(m.Name)))
	for _, ing := range m.Ingredients {
		b.WriteByte('|')
		b.WriteString(strings.ToLower(ing.Name))
	}
	b.WriteByte('|')
	b.WriteString(style)

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func mealPrompt(m *meal.Meal, style string) string {
	prompt := fmt.Sprintf("A plated serving of %s", m.Name)
	if len(m.Ingredients) > 0 {
		names := make([]string, 0, 3)
		for i, ing := range m.Ingredients {
			if i == 3 {
				break
			}
			names = append(names, ing.Name)
		}
		prompt += " with " + strings.Join(names, ", ")
	}
	if style != "" {
		prompt += ", " + style
	}
	return prompt + ", professional food photography"
}
