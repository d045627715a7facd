// Package core defines the domain types and interfaces shared by the
// voiceover pipeline components.
package core

import "context"

// Segment is one unit of text mapped to one output audio file.
// Segments are read-only once loaded from a script or direct text input.
type Segment struct {
	// ID names the output file. When empty, the pipeline assigns a
	// positional id of the form "segment_NNN" (1-indexed).
	ID string `json:"id,omitempty"`

	// Text is the content handed to the synthesis engine.
	Text string `json:"text"`
}

// Prosody holds the tunable synthesis parameters passed to the TTS engine.
type Prosody struct {
	LengthScale     float64
	NoiseScale      float64
	NoiseW          float64
	SentenceSilence float64
}

// SynthesisJob describes a single segment rendering: where the voice model
// lives, where the audio goes, and how it should sound.
type SynthesisJob struct {
	ModelPath  string
	OutputPath string
	Prosody    Prosody
}

// GeneratedFile records the outcome of one segment synthesis attempt.
type GeneratedFile struct {
	SegmentID string
	Path      string
	Index     int
	OK        bool
}

// Synthesizer renders one text segment to an audio file.
type Synthesizer interface {
	Process(ctx context.Context, text string, job SynthesisJob) error
}

// ModelResolver ensures a voice model artifact exists locally and returns
// its path. Presence on disk is the sole cache-validity check; cached
// reports whether that check short-circuited the download.
type ModelResolver interface {
	Resolve(ctx context.Context, model string) (path string, cached bool, err error)
}

// AudioStore is a key-value blob store for generated audio artifacts.
type AudioStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}
