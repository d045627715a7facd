// Package config_test tests script and settings loading for the voiceover CLI.
package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/voiceover/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "script.json")
	err := os.WriteFile(path, []byte(contents), 0o600)
	require.NoError(t, err)

	return path
}

func TestLoadScript(t *testing.T) {
	t.Parallel()

	path := writeScript(t, `{
		"voice": {
			"model": "en_US-lessac-medium",
			"length_scale": 1.2,
			"sentence_silence": 0.25
		},
		"output": {"format": "wav"},
		"segments": [
			{"id": "intro", "text": "Hello"},
			{"text": "Second line"}
		]
	}`)

	script, err := config.LoadScript(path)
	require.NoError(t, err)

	assert.Equal(t, "en_US-lessac-medium", script.Voice.ModelName())
	assert.Equal(t, "wav", script.Output.FormatName())
	require.Len(t, script.Segments, 2)
	assert.Equal(t, "intro", script.Segments[0].ID)
	assert.Empty(t, script.Segments[1].ID)

	prosody := script.Voice.Prosody()
	assert.InEpsilon(t, 1.2, prosody.LengthScale, 0.001)
	assert.InEpsilon(t, config.DefaultNoiseScale, prosody.NoiseScale, 0.001)
	assert.InEpsilon(t, config.DefaultNoiseW, prosody.NoiseW, 0.001)
	assert.InEpsilon(t, 0.25, prosody.SentenceSilence, 0.001)
}

func TestLoadScriptDefaults(t *testing.T) {
	t.Parallel()

	path := writeScript(t, `{"segments": [{"text": "only text"}]}`)

	script, err := config.LoadScript(path)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultModel, script.Voice.ModelName())
	assert.Equal(t, config.DefaultOutputFormat, script.Output.FormatName())

	prosody := script.Voice.Prosody()
	assert.InEpsilon(t, config.DefaultLengthScale, prosody.LengthScale, 0.001)
	assert.InEpsilon(t, config.DefaultSentenceSilence, prosody.SentenceSilence, 0.001)
}

func TestLoadScriptExplicitZeroIsKept(t *testing.T) {
	t.Parallel()

	path := writeScript(t, `{"voice": {"sentence_silence": 0}, "segments": []}`)

	script, err := config.LoadScript(path)
	require.NoError(t, err)

	assert.Zero(t, script.Voice.Prosody().SentenceSilence)
}

func TestLoadScriptMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadScript(filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, config.ErrScriptNotFound)
}

func TestLoadScriptInvalidJSON(t *testing.T) {
	t.Parallel()

	path := writeScript(t, `{"segments": [`)

	_, err := config.LoadScript(path)
	require.ErrorIs(t, err, config.ErrScriptInvalid)
}

func TestProjectUnmarshalAndOverlay(t *testing.T) {
	t.Parallel()

	tomlData := `
[paths]
output_dir = "/srv/voiceover/out"
models_dir = "/srv/voiceover/models"

[piper]
binary = "/usr/local/bin/piper"

[nats]
url = "nats://127.0.0.1:4222"
audio_bucket = "VOICEOVER_AUDIO"
audio_subject = "voiceover.audio.created"
`

	var project config.Project

	err := toml.Unmarshal([]byte(tomlData), &project)
	require.NoError(t, err)

	settings := config.Settings{
		OutputDir:    "output",
		ModelsDir:    "models",
		LogDir:       "/var/log/voiceover",
		PiperBinary:  "piper",
		VoiceBaseURL: "https://example.test/voices",
	}
	project.ApplyTo(&settings)

	assert.Equal(t, "/srv/voiceover/out", settings.OutputDir)
	assert.Equal(t, "/srv/voiceover/models", settings.ModelsDir)
	assert.Equal(t, "/usr/local/bin/piper", settings.PiperBinary)
	assert.Equal(t, "nats://127.0.0.1:4222", settings.NATSURL)
	// Fields the project file omits keep their prior values.
	assert.Equal(t, "/var/log/voiceover", settings.LogDir)
	assert.Equal(t, "https://example.test/voices", settings.VoiceBaseURL)
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := config.LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "output", settings.OutputDir)
	assert.Equal(t, "models", settings.ModelsDir)
	assert.Equal(t, "piper", settings.PiperBinary)
	assert.Equal(t, "VOICEOVER_AUDIO", settings.AudioBucket)
}
