package ai

import "context"

// Prompt is the multi-part classifier input: an optional image followed by
// the mandatory text part.
type Prompt struct {
	Text           string
	ImageData      []byte
	ImageMediaType string
}

func (p Prompt) HasImage() bool { return len(p.ImageData) > 0 }

// Builder composes the classifier input from ad copy and an optional image.
type Builder interface {
	Build(adCopy string, image []byte, mediaType string) Prompt
}

// Classifier is the single outbound capability: one blocking call returning
// the model's unstructured reply. No retries at this layer.
type Classifier interface {
	Classify(ctx context.Context, p Prompt) (string, error)
}
