package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/book-expert/voiceover/internal/config"
	"github.com/book-expert/voiceover/internal/core"
	"github.com/spf13/cobra"
)

func newSayCommand(application *app, flags *rootFlags) *cobra.Command {
	var voice string

	sayCmd := &cobra.Command{
		Use:   "say <text>...",
		Short: "Synthesize text given on the command line",
		Long: `Synthesize text without writing a script file. Each argument
becomes one segment. Pass a single "-" to read segments from
standard input instead, one per line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := scriptFromArgs(voice, args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			return application.runScript(cmd.Context(), script, flags)
		},
	}

	sayCmd.Flags().StringVar(&voice, "voice", config.DefaultModel,
		"voice model to synthesize with")

	return sayCmd
}

// scriptFromArgs builds an in-memory script from command-line text, leaving
// prosody and output format at their defaults. A single "-" argument reads
// segments from stdin, one non-blank line each.
func scriptFromArgs(voice string, args []string, stdin io.Reader) (*config.Script, error) {
	texts := args

	if len(args) == 1 && args[0] == "-" {
		lines, err := readLines(stdin)
		if err != nil {
			return nil, err
		}

		texts = lines
	}

	segments := make([]core.Segment, 0, len(texts))
	for _, segmentText := range texts {
		segments = append(segments, core.Segment{ID: "", Text: segmentText})
	}

	return &config.Script{
		Voice: config.VoiceConfig{
			Model:           voice,
			LengthScale:     nil,
			NoiseScale:      nil,
			NoiseW:          nil,
			SentenceSilence: nil,
		},
		Output:   config.OutputConfig{Format: ""},
		Segments: segments,
	}, nil
}

func readLines(stdin io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		lines = append(lines, line)
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to read standard input: %w", err)
	}

	return lines, nil
}
