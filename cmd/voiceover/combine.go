package main

import (
	"fmt"

	"github.com/book-expert/voiceover/internal/audio"
	"github.com/spf13/cobra"
)

const minCombineArgs = 2

func newCombineCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "combine <output.wav> <input.wav>...",
		Short: "Concatenate existing WAV files into one",
		Args:  cobra.MinimumNArgs(minCombineArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			return application.combineFiles(args[0], args[1:])
		},
	}
}

// combineFiles concatenates the given inputs into outputPath, reusing the
// same codec as the pipeline's combine step.
func (a *app) combineFiles(outputPath string, inputs []string) error {
	a.reporter.Combining(len(inputs), outputPath)

	err := audio.Combine(inputs, outputPath)
	if err != nil {
		a.reporter.CombineFailed(err)

		return fmt.Errorf("failed to combine audio: %w", err)
	}

	a.reporter.CombineSucceeded(outputPath)
	a.log.Info("Combined %d files into %s", len(inputs), outputPath)

	return nil
}
