// Package piper renders text segments to WAV files by invoking the Piper
// TTS executable as a subprocess.
package piper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/book-expert/logger"
	"github.com/book-expert/voiceover/internal/core"
)

// DefaultBinary is the Piper executable name resolved through PATH when no
// explicit location is configured.
const DefaultBinary = "piper"

const prosodyFloatPrecision = -1 // shortest representation that round-trips

// Static errors.
var (
	ErrTextEmpty       = errors.New("text cannot be empty")
	ErrOutputPathEmpty = errors.New("output path cannot be empty")
	ErrModelPathEmpty  = errors.New("model path cannot be empty")
)

// Synthesizer implements core.Synthesizer by calling the piper binary.
// Each Process call is one blocking subprocess invocation; the run hangs if
// the engine hangs, unless the context is cancelled.
type Synthesizer struct {
	binary string
	log    *logger.Logger
}

// New creates a Synthesizer that invokes the given piper binary.
func New(binary string, log *logger.Logger) *Synthesizer {
	if binary == "" {
		binary = DefaultBinary
	}

	return &Synthesizer{
		binary: binary,
		log:    log,
	}
}

// Process feeds the text to piper on stdin and lets the engine write the
// rendered audio to the job's output path. A non-zero exit returns an error
// carrying the engine's diagnostic output; the caller decides whether that
// is fatal.
func (s *Synthesizer) Process(ctx context.Context, text string, job core.SynthesisJob) error {
	err := validateJob(text, job)
	if err != nil {
		return err
	}

	args := []string{
		"--model", job.ModelPath,
		"--output_file", job.OutputPath,
		"--length_scale", formatProsody(job.Prosody.LengthScale),
		"--noise_scale", formatProsody(job.Prosody.NoiseScale),
		"--noise_w", formatProsody(job.Prosody.NoiseW),
		"--sentence_silence", formatProsody(job.Prosody.SentenceSilence),
	}

	// #nosec G204 -- the binary comes from configuration, the arguments
	// from the validated job.
	cmd := exec.CommandContext(ctx, s.binary, args...)
	cmd.Stdin = strings.NewReader(text)

	var diagnostics bytes.Buffer

	cmd.Stdout = &diagnostics
	cmd.Stderr = &diagnostics

	s.log.Info("Synthesizing %d characters to %s", len(text), job.OutputPath)

	err = cmd.Run()
	if err != nil {
		return fmt.Errorf(
			"piper execution failed: %w - output: %s",
			err,
			diagnostics.String(),
		)
	}

	return nil
}

func validateJob(text string, job core.SynthesisJob) error {
	if text == "" {
		return ErrTextEmpty
	}

	if job.OutputPath == "" {
		return ErrOutputPathEmpty
	}

	if job.ModelPath == "" {
		return ErrModelPathEmpty
	}

	return nil
}

func formatProsody(value float64) string {
	return strconv.FormatFloat(value, 'f', prosodyFloatPrecision, 64)
}
