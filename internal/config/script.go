// Package config provides the voiceover script document and the tool-level
// settings for the voiceover CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/book-expert/voiceover/internal/core"
)

// Default voice parameters applied at the point of use when the script
// omits them.
const (
	DefaultModel           = "en_US-hfc_male-medium"
	DefaultLengthScale     = 1.0
	DefaultNoiseScale      = 0.667
	DefaultNoiseW          = 0.8
	DefaultSentenceSilence = 0.5
	DefaultOutputFormat    = "wav"
)

// Static errors for script loading failures. Both are fatal: a run never
// starts without a readable, well-formed script.
var (
	ErrScriptNotFound = errors.New("script file not found")
	ErrScriptInvalid  = errors.New("script file is not valid JSON")
)

// VoiceConfig holds the voice selection and prosody parameters of a script.
// Fields are pointers so that an absent field and an explicit zero remain
// distinguishable; effective values come from the accessor methods.
type VoiceConfig struct {
	Model           string   `json:"model,omitempty"`
	LengthScale     *float64 `json:"length_scale,omitempty"`
	NoiseScale      *float64 `json:"noise_scale,omitempty"`
	NoiseW          *float64 `json:"noise_w,omitempty"`
	SentenceSilence *float64 `json:"sentence_silence,omitempty"`
}

// OutputConfig holds the output section of a script.
type OutputConfig struct {
	Format string `json:"format,omitempty"`
}

// Script is the parsed voiceover document: voice parameters, output format,
// and the ordered list of text segments. No schema validation is performed.
type Script struct {
	Voice    VoiceConfig    `json:"voice"`
	Output   OutputConfig   `json:"output"`
	Segments []core.Segment `json:"segments"`
}

// LoadScript reads and parses a JSON voiceover script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrScriptNotFound, path, err)
	}

	var script Script

	err = parseJSON(data, &script)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrScriptInvalid, path, err)
	}

	return &script, nil
}

// ModelName returns the configured voice model id, or the default.
func (v *VoiceConfig) ModelName() string {
	if v.Model == "" {
		return DefaultModel
	}

	return v.Model
}

// Prosody returns the effective synthesis parameters with defaults applied
// for any field the script omitted.
func (v *VoiceConfig) Prosody() core.Prosody {
	return core.Prosody{
		LengthScale:     floatOrDefault(v.LengthScale, DefaultLengthScale),
		NoiseScale:      floatOrDefault(v.NoiseScale, DefaultNoiseScale),
		NoiseW:          floatOrDefault(v.NoiseW, DefaultNoiseW),
		SentenceSilence: floatOrDefault(v.SentenceSilence, DefaultSentenceSilence),
	}
}

// FormatName returns the configured output format, or "wav".
func (o *OutputConfig) FormatName() string {
	if o.Format == "" {
		return DefaultOutputFormat
	}

	return o.Format
}

func floatOrDefault(value *float64, fallback float64) float64 {
	if value == nil {
		return fallback
	}

	return *value
}
