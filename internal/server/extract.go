package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/voterscan/voterscan/constants"
	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/internal/llm"
)

// handleExtract accepts 1 or 2 card photographs as multipart parts named
// "images" and runs one extraction attempt synchronously. The mutex holds
// concurrent submissions back so at most one attempt is ever in flight.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	images, err := readImages(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.extractMu.Lock()
	defer s.extractMu.Unlock()

	rec, attemptID, err := s.proc.Run(r.Context(), images)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{
			"attempt_id": attemptID,
			"error":      err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"attempt_id": attemptID,
		"record":     rec,
	})
}

const maxUploadBytes = (constants.MaxImageMB*constants.MaxImagesPerAttempt + 1) * 1024 * 1024

func readImages(r *http.Request) ([]llm.ImageInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, common.NewAppError("REQUEST_ERROR", "expected multipart form upload", common.ErrInvalidInput)
	}
	files := r.MultipartForm.File["images"]
	if len(files) < constants.MinImagesPerAttempt || len(files) > constants.MaxImagesPerAttempt {
		return nil, common.NewAppError("REQUEST_ERROR",
			"upload 1 or 2 parts named \"images\"", common.ErrInvalidInput)
	}

	images := make([]llm.ImageInput, 0, len(files))
	for _, fh := range files {
		img, err := readImagePart(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func readImagePart(fh *multipart.FileHeader) (llm.ImageInput, error) {
	ext := constants.NormalizeExt(filepath.Ext(fh.Filename))
	mediaType, ok := constants.MediaTypes[ext]
	if !ok {
		return llm.ImageInput{}, common.NewAppError("REQUEST_ERROR",
			"unsupported image type "+fh.Filename, common.ErrInvalidInput)
	}
	if fh.Size > constants.MaxImageMB*1024*1024 {
		return llm.ImageInput{}, common.NewAppError("REQUEST_ERROR",
			fh.Filename+" is too large", common.ErrInvalidInput)
	}

	f, err := fh.Open()
	if err != nil {
		return llm.ImageInput{}, common.WrapError(err, "open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return llm.ImageInput{}, common.WrapError(err, "read upload")
	}
	if len(data) == 0 {
		return llm.ImageInput{}, common.NewAppError("REQUEST_ERROR",
			fh.Filename+" is empty", common.ErrInvalidInput)
	}
	return llm.ImageInput{Bytes: data, MediaType: mediaType}, nil
}
