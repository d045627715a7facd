package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Project is the optional project-wide configuration block, loaded through
// the central configurator when the --project flag is set. Any non-zero
// field overrides the corresponding environment setting.
type Project struct {
	Paths ProjectPaths `toml:"paths"`
	Piper ProjectPiper `toml:"piper"`
	NATS  ProjectNATS  `toml:"nats"`
}

// ProjectPaths overrides the filesystem layout.
type ProjectPaths struct {
	OutputDir string `toml:"output_dir"`
	ModelsDir string `toml:"models_dir"`
	LogDir    string `toml:"log_dir"`
}

// ProjectPiper overrides the synthesis engine location and voice source.
type ProjectPiper struct {
	Binary       string `toml:"binary"`
	VoiceBaseURL string `toml:"voice_base_url"`
}

// ProjectNATS overrides the artifact delivery endpoints.
type ProjectNATS struct {
	URL          string `toml:"url"`
	AudioBucket  string `toml:"audio_bucket"`
	AudioSubject string `toml:"audio_subject"`
}

// LoadProject loads the project configuration through the configurator.
func LoadProject(log *logger.Logger) (*Project, error) {
	var cfg Project

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load project configuration: %w", err)
	}

	return &cfg, nil
}

// ApplyTo overlays the project configuration onto the given settings.
// Empty project fields leave the settings untouched.
func (p *Project) ApplyTo(settings *Settings) {
	applyString(&settings.OutputDir, p.Paths.OutputDir)
	applyString(&settings.ModelsDir, p.Paths.ModelsDir)
	applyString(&settings.LogDir, p.Paths.LogDir)
	applyString(&settings.PiperBinary, p.Piper.Binary)
	applyString(&settings.VoiceBaseURL, p.Piper.VoiceBaseURL)
	applyString(&settings.NATSURL, p.NATS.URL)
	applyString(&settings.AudioBucket, p.NATS.AudioBucket)
	applyString(&settings.AudioSubject, p.NATS.AudioSubject)
}

func applyString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
