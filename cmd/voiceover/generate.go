package main

import (
	"context"
	"fmt"
	"time"

	"github.com/book-expert/voiceover/internal/config"
	"github.com/book-expert/voiceover/internal/objectstore"
	"github.com/book-expert/voiceover/internal/pipeline"
	"github.com/book-expert/voiceover/internal/piper"
	"github.com/book-expert/voiceover/internal/publish"
	"github.com/book-expert/voiceover/internal/text"
	"github.com/book-expert/voiceover/internal/voicemodel"
	"github.com/spf13/cobra"
)

func newGenerateCommand(application *app, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <script.json>",
		Short: "Synthesize every segment of a voiceover script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := config.LoadScript(args[0])
			if err != nil {
				return err
			}

			return application.runScript(cmd.Context(), script, flags)
		},
	}
}

// runScript assembles the pipeline from the resolved settings and executes
// the script. Segment failures surface as ErrSegmentsFailed so the process
// exits non-zero; combine and publish failures are reported during the run
// and do not change the exit code.
func (a *app) runScript(ctx context.Context, script *config.Script, flags *rootFlags) error {
	downloadTimeout := time.Duration(a.settings.DownloadTimeoutSeconds) * time.Second
	resolver := voicemodel.New(a.settings.VoiceBaseURL, a.settings.ModelsDir, downloadTimeout, a.log)
	synthesizer := piper.New(a.settings.PiperBinary, a.log)
	pipe := pipeline.New(resolver, synthesizer, text.NewNormalizer(), a.reporter, a.log)

	opts := pipeline.Options{
		OutputDir:     a.settings.OutputDir,
		Combine:       flags.combine,
		CombinedName:  flags.combinedName,
		Publisher:     nil,
		PublishTarget: "",
	}

	if flags.publish {
		natsConnection, jetstreamContext, err := publish.Connect(a.settings.NATSURL)
		if err != nil {
			return err
		}

		defer natsConnection.Close()

		store, err := objectstore.New(jetstreamContext, a.settings.AudioBucket)
		if err != nil {
			return err
		}

		opts.Publisher = publish.NewPublisher(natsConnection, store, a.settings.AudioSubject, a.log)
		opts.PublishTarget = a.settings.AudioBucket
	}

	result, err := pipe.Run(ctx, script, opts)
	if err != nil {
		return err
	}

	if !result.AllSucceeded() {
		failed := result.Total - result.Succeeded

		return fmt.Errorf("%w: %d of %d", ErrSegmentsFailed, failed, result.Total)
	}

	return nil
}
