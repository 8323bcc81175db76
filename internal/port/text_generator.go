package port

import "context"

// GenerateInput carries a prompt to an LLM text-generation provider. OnChunk,
// when set, is invoked for each streamed fragment before the full text is
// returned; implementations that do not stream call it once with the whole
// response.
type GenerateInput struct {
	Prompt  string
	OnChunk func(text string)
}

// GenerateOutput contains the accumulated response from a provider.
type GenerateOutput struct {
	Text      string
	ModelUsed string
}

// TextGenerator abstracts LLM text generation.
type TextGenerator interface {
	Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error)
}
