package daemon

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"squatanalyzer/internal/analysis"
)

var allowedVideoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".avi":  true,
	".mkv":  true,
}

// handleAnalyze godoc
// @Summary Analyze a squat video
// @Description Accepts a multipart video upload, runs the full pose analysis pipeline and returns per-frame measurements with final form scores.
// @Tags analysis
// @Accept mpfd
// @Produce json
// @Param video formData file true "Squat video (mp4, webm, avi or mkv, max 100 MB)"
// @Success 200 {object} analysis.Result
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analyze [post]
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds 100MB limit")
			return
		}
		writeError(w, http.StatusBadRequest, "malformed multipart payload")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, "video file is required")
		return
	}
	defer file.Close()

	if err := validateUpload(header); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path, err := materializeUpload(file, filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	// The scratch copy goes away whether analysis succeeds or not.
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Printf("upload cleanup failed: %v", err)
		}
	}()

	result, err := s.pipeline.Analyze(r.Context(), path)
	if err != nil {
		if errors.Is(err, analysis.ErrDecodeFailed) {
			writeError(w, http.StatusUnprocessableEntity, "could not decode any frames from the video")
			return
		}
		log.Printf("analysis failed: %v", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func validateUpload(header *multipart.FileHeader) error {
	if header.Size == 0 {
		return analysis.ErrEmptyUpload
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedVideoExtensions[ext] {
		return fmt.Errorf("%w: %q", analysis.ErrUnsupportedFormat, ext)
	}
	return nil
}

// materializeUpload writes the upload to a uniquely named scratch file so
// ffmpeg can read it by path.
func materializeUpload(file multipart.File, ext string) (string, error) {
	path := filepath.Join(os.TempDir(), newID("upload_")+strings.ToLower(ext))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	return path, nil
}
