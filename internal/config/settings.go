package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings holds the tool-level configuration resolved from the environment.
// Command-line flags override these values; they exist so that a project can
// pin its directories and engine location in a .env file instead of
// repeating flags on every invocation.
type Settings struct {
	// Filesystem layout.
	OutputDir string `envconfig:"VOICEOVER_OUTPUT_DIR" default:"output"`
	ModelsDir string `envconfig:"VOICEOVER_MODELS_DIR" default:"models"`
	LogDir    string `envconfig:"VOICEOVER_LOG_DIR" default:""`

	// Synthesis engine.
	PiperBinary string `envconfig:"VOICEOVER_PIPER_BIN" default:"piper"`

	// Voice model download endpoint. The resolver appends the per-voice
	// repository path and file name.
	VoiceBaseURL string `envconfig:"VOICEOVER_VOICE_BASE_URL" default:"https://huggingface.co/rhasspy/piper-voices/resolve/main"`

	// Optional artifact delivery over NATS.
	NATSURL      string `envconfig:"VOICEOVER_NATS_URL" default:"nats://127.0.0.1:4222"`
	AudioBucket  string `envconfig:"VOICEOVER_AUDIO_BUCKET" default:"VOICEOVER_AUDIO"`
	AudioSubject string `envconfig:"VOICEOVER_AUDIO_SUBJECT" default:"voiceover.audio.created"`

	// Timeouts, in seconds.
	DownloadTimeoutSeconds int `envconfig:"VOICEOVER_DOWNLOAD_TIMEOUT_SECONDS" default:"300"`
}

// LoadSettings reads the tool settings from the environment, first loading a
// .env file if one exists in the working directory.
func LoadSettings() (*Settings, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	var settings Settings

	err := envconfig.Process("", &settings)
	if err != nil {
		return nil, fmt.Errorf("failed to process environment settings: %w", err)
	}

	return &settings, nil
}
