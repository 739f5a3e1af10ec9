package outbound

import "context"

// ChatCompletionClient is the text generation dependency used by the meal
// generation endpoints.
type ChatCompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ImageResult is a candidate image returned by a search provider.
type ImageResult struct {
	URL    string
	Width  int
	Height int
}

// ImageSearchClient is the free image search provider, tried before paid
// generation.
type ImageSearchClient interface {
	Search(ctx context.Context, query string) (*ImageResult, error)
}

// ImageGenerationClient is the paid image generation provider. Configured
// reports whether an API key is present; unconfigured clients are skipped in
// the fallback chain rather than called.
type ImageGenerationClient interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}
