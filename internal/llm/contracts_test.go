package llm

import (
	"errors"
	"testing"

	"github.com/voterscan/voterscan/internal/common"
)

func jpeg(b ...byte) ImageInput {
	if len(b) == 0 {
		b = []byte{0xff, 0xd8}
	}
	return ImageInput{Bytes: b, MediaType: "image/jpeg"}
}

func TestNewExtractRequest(t *testing.T) {
	t.Run("one image", func(t *testing.T) {
		req, err := NewExtractRequest([]ImageInput{jpeg()}, 0)
		if err != nil {
			t.Fatalf("NewExtractRequest() error = %v", err)
		}
		if req.Temperature != 0 {
			t.Errorf("Temperature = %v, want 0", req.Temperature)
		}
		if req.MaxOutputTokens != DefaultMaxOutputTokens {
			t.Errorf("MaxOutputTokens = %d, want default %d", req.MaxOutputTokens, DefaultMaxOutputTokens)
		}
		if req.Instruction == "" {
			t.Error("instruction is empty")
		}
	})

	t.Run("configured token ceiling", func(t *testing.T) {
		req, err := NewExtractRequest([]ImageInput{jpeg()}, 2048)
		if err != nil {
			t.Fatalf("NewExtractRequest() error = %v", err)
		}
		if req.MaxOutputTokens != 2048 {
			t.Errorf("MaxOutputTokens = %d, want 2048", req.MaxOutputTokens)
		}
	})

	t.Run("two images", func(t *testing.T) {
		if _, err := NewExtractRequest([]ImageInput{jpeg(), jpeg()}, 0); err != nil {
			t.Fatalf("NewExtractRequest() error = %v", err)
		}
	})

	t.Run("zero images", func(t *testing.T) {
		_, err := NewExtractRequest(nil, 0)
		if !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("three images", func(t *testing.T) {
		_, err := NewExtractRequest([]ImageInput{jpeg(), jpeg(), jpeg()}, 0)
		if !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("empty blob", func(t *testing.T) {
		_, err := NewExtractRequest([]ImageInput{{Bytes: nil, MediaType: "image/jpeg"}}, 0)
		if !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("bad media type", func(t *testing.T) {
		_, err := NewExtractRequest([]ImageInput{{Bytes: []byte{1}, MediaType: "image/gif"}}, 0)
		if !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})
}
