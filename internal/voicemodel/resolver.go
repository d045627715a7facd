// Package voicemodel resolves Piper voice model ids to local .onnx files,
// downloading missing models from the voice repository.
package voicemodel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/voiceover/internal/fsutil"
)

// Voice model file extensions. Piper loads the .onnx weights and the
// side-car .onnx.json voice configuration together.
const (
	modelExtension  = ".onnx"
	configExtension = ".onnx.json"

	modelIDParts    = 3
	localePartCount = 2

	tempFilePattern = "voiceover-download-*"
)

// Static errors.
var (
	ErrDownloadFailed = errors.New("voice model download failed")
	ErrInvalidModelID = errors.New("invalid voice model id")
)

// Resolver locates voice models on disk, fetching absent ones over HTTP.
// Presence of the .onnx file is the sole cache-validity check; no checksum
// or version comparison happens across runs.
type Resolver struct {
	httpClient *http.Client
	baseURL    string
	modelsDir  string
	log        *logger.Logger
}

// New creates a resolver rooted at modelsDir that downloads from baseURL.
func New(baseURL, modelsDir string, timeout time.Duration, log *logger.Logger) *Resolver {
	return &Resolver{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		modelsDir:  modelsDir,
		log:        log,
	}
}

// Resolve returns the local path for a voice model id, downloading the
// model and its voice configuration if the model file is absent. The cached
// flag reports whether the presence check skipped the network entirely.
func (r *Resolver) Resolve(ctx context.Context, model string) (string, bool, error) {
	modelPath := filepath.Join(r.modelsDir, model+modelExtension)

	_, statErr := os.Stat(modelPath)
	if statErr == nil {
		r.log.Info("Voice model already downloaded: %s", model)

		return modelPath, true, nil
	}

	dirErr := fsutil.EnsureDir(r.modelsDir)
	if dirErr != nil {
		return "", false, fmt.Errorf("failed to prepare models directory: %w", dirErr)
	}

	r.log.Info("Downloading voice model: %s", model)

	repoPath, err := repositoryPath(model)
	if err != nil {
		return "", false, err
	}

	err = r.fetch(ctx, repoPath, model+modelExtension, modelPath)
	if err != nil {
		return "", false, err
	}

	configPath := filepath.Join(r.modelsDir, model+configExtension)

	err = r.fetch(ctx, repoPath, model+configExtension, configPath)
	if err != nil {
		return "", false, err
	}

	r.log.Info("Downloaded voice model to: %s", r.modelsDir)

	return modelPath, false, nil
}

// repositoryPath derives the voice repository directory from a model id.
// Ids follow the Piper naming scheme "<locale>-<name>-<quality>", stored
// under "<language>/<locale>/<name>/<quality>".
func repositoryPath(model string) (string, error) {
	parts := strings.SplitN(model, "-", modelIDParts)
	if len(parts) != modelIDParts {
		return "", fmt.Errorf("%w: %q", ErrInvalidModelID, model)
	}

	locale, name, quality := parts[0], parts[1], parts[2]

	localeParts := strings.SplitN(locale, "_", localePartCount)
	if len(localeParts) != localePartCount {
		return "", fmt.Errorf("%w: %q", ErrInvalidModelID, model)
	}

	language := localeParts[0]

	return strings.Join([]string{language, locale, name, quality}, "/"), nil
}

// fetch downloads one repository file to destPath. The body streams into a
// temporary file that is renamed only on success, so an interrupted run
// never leaves a truncated model behind to satisfy the presence check.
func (r *Resolver) fetch(ctx context.Context, repoPath, fileName, destPath string) error {
	url := r.baseURL + "/" + repoPath + "/" + fileName

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDownloadFailed, url, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %s", ErrDownloadFailed, url, resp.Status)
	}

	return r.writeAtomically(resp.Body, destPath)
}

func (r *Resolver) writeAtomically(body io.Reader, destPath string) error {
	tempFile, err := os.CreateTemp(r.modelsDir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("failed to create temp download file: %w", err)
	}

	_, copyErr := io.Copy(tempFile, body)
	closeErr := tempFile.Close()

	if copyErr != nil {
		_ = os.Remove(tempFile.Name())

		return fmt.Errorf("%w: %w", ErrDownloadFailed, copyErr)
	}

	if closeErr != nil {
		_ = os.Remove(tempFile.Name())

		return fmt.Errorf("failed to close temp download file: %w", closeErr)
	}

	renameErr := os.Rename(tempFile.Name(), destPath)
	if renameErr != nil {
		_ = os.Remove(tempFile.Name())

		return fmt.Errorf("failed to move download into place: %w", renameErr)
	}

	return nil
}
