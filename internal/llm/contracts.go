package llm

import (
	"context"
	"fmt"

	"github.com/voterscan/voterscan/constants"
	"github.com/voterscan/voterscan/internal/common"
)

// DefaultMaxOutputTokens bounds the reply length. Generous for an 11-field
// JSON object, but a hard ceiling so a runaway reply cannot grow unbounded.
const DefaultMaxOutputTokens = 1024

// ImageInput is one card photograph: raw bytes plus the declared media type.
type ImageInput struct {
	Bytes     []byte
	MediaType string
}

// ExtractRequest is one inference call payload. Content order is fixed:
// all images first, in upload order, then the instruction as the final part.
// Constructed per attempt via NewExtractRequest, discarded after the call.
type ExtractRequest struct {
	Images          []ImageInput
	Instruction     string
	Temperature     float32
	MaxOutputTokens int
}

// Client performs exactly one call to the inference backend per invocation
// and returns the raw reply text. No internal retry; the pipeline owns the
// retry policy.
type Client interface {
	Extract(ctx context.Context, req ExtractRequest) (string, error)
}

var allowedMediaTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// NewExtractRequest validates the image set and assembles the call payload.
// 0 or more than 2 images, an empty blob, or an undeclared media type are
// rejected with ErrInvalidInput before any network I/O happens.
// Temperature is pinned to 0 so replies are reproducible. maxOutputTokens
// <= 0 falls back to DefaultMaxOutputTokens.
func NewExtractRequest(images []ImageInput, maxOutputTokens int) (ExtractRequest, error) {
	if len(images) < constants.MinImagesPerAttempt || len(images) > constants.MaxImagesPerAttempt {
		return ExtractRequest{}, common.NewAppError("REQUEST_ERROR",
			"an attempt needs 1 or 2 card images", common.ErrInvalidInput)
	}
	for i, img := range images {
		if len(img.Bytes) == 0 {
			return ExtractRequest{}, common.NewAppError("REQUEST_ERROR",
				fmt.Sprintf("image %d is empty", i+1), common.ErrInvalidInput)
		}
		if _, ok := allowedMediaTypes[img.MediaType]; !ok {
			return ExtractRequest{}, common.NewAppError("REQUEST_ERROR",
				fmt.Sprintf("image %d has unsupported media type %q", i+1, img.MediaType), common.ErrInvalidInput)
		}
	}
	if maxOutputTokens <= 0 {
		maxOutputTokens = DefaultMaxOutputTokens
	}
	return ExtractRequest{
		Images:          images,
		Instruction:     BuildInstruction(),
		Temperature:     0,
		MaxOutputTokens: maxOutputTokens,
	}, nil
}
