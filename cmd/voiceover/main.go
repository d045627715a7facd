// Command voiceover turns a JSON voiceover script into per-segment WAV
// audio through the Piper synthesis engine, with optional concatenation
// and delivery to a NATS object store.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/book-expert/logger"
	"github.com/book-expert/voiceover/internal/config"
	"github.com/book-expert/voiceover/internal/pipeline"
	"github.com/book-expert/voiceover/internal/report"
	"github.com/spf13/cobra"
)

// ErrSegmentsFailed is returned by generate and say when at least one
// segment could not be synthesized. The process exit code follows it.
var ErrSegmentsFailed = errors.New("some segments failed")

// app carries the resolved configuration and logging shared by every
// subcommand. It is populated by bootstrap before any command runs.
type app struct {
	settings *config.Settings
	log      *logger.Logger
	reporter report.Reporter
}

// rootFlags are the persistent flags shared by every subcommand: settings
// overrides plus the optional combine and publish tail steps.
type rootFlags struct {
	outputDir   string
	modelsDir   string
	logDir      string
	piperBinary string
	useProject  bool
	quiet       bool

	combine      bool
	combinedName string
	publish      bool
}

func newRootCommand() *cobra.Command {
	application := &app{settings: nil, log: nil, reporter: nil}
	flags := &rootFlags{
		outputDir:    "",
		modelsDir:    "",
		logDir:       "",
		piperBinary:  "",
		useProject:   false,
		quiet:        false,
		combine:      false,
		combinedName: "",
		publish:      false,
	}

	rootCmd := &cobra.Command{
		Use:           "voiceover",
		Short:         "Generate voiceover audio from a JSON script with Piper",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return application.bootstrap(flags)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			application.close()
		},
	}

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&flags.outputDir, "output", "o", "",
		"directory for generated audio (overrides settings)")
	persistent.StringVarP(&flags.modelsDir, "models", "m", "",
		"directory for downloaded voice models (overrides settings)")
	persistent.StringVar(&flags.logDir, "log-dir", "",
		"directory for log files (overrides settings)")
	persistent.StringVar(&flags.piperBinary, "piper", "",
		"path to the piper binary (overrides settings)")
	persistent.BoolVar(&flags.useProject, "project", false,
		"load the project configuration overlay")
	persistent.BoolVarP(&flags.quiet, "quiet", "q", false,
		"suppress progress output")
	persistent.BoolVarP(&flags.combine, "combine", "c", false,
		"concatenate the generated segments into one file")
	persistent.StringVar(&flags.combinedName, "combined-name", "",
		"file name for the combined output (default "+pipeline.DefaultCombinedFilename+")")
	persistent.BoolVar(&flags.publish, "publish", false,
		"upload generated audio to the NATS object store")

	rootCmd.AddCommand(
		newGenerateCommand(application, flags),
		newSayCommand(application, flags),
		newCombineCommand(application),
	)

	return rootCmd
}

// bootstrap loads settings from the environment, overlays the project
// configuration when requested, applies flag overrides, and opens the
// run logger. It follows the two-stage logger pattern: a bootstrap
// logger in the temp directory covers the window before the configured
// log directory is known.
func (a *app) bootstrap(flags *rootFlags) error {
	bootstrapLog, err := logger.New(os.TempDir(), "voiceover-bootstrap.log")
	if err != nil {
		return fmt.Errorf("failed to create bootstrap logger: %w", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		bootstrapLog.Error("Failed to load settings: %v", err)

		return fmt.Errorf("failed to load settings: %w", err)
	}

	if flags.useProject {
		project, projectErr := config.LoadProject(bootstrapLog)
		if projectErr != nil {
			bootstrapLog.Error("Failed to load project configuration: %v", projectErr)

			return projectErr
		}

		project.ApplyTo(settings)
	}

	applyFlagOverrides(settings, flags)

	logDir := settings.LogDir
	if logDir == "" {
		logDir = os.TempDir()
	}

	runLog, err := logger.New(logDir, "voiceover.log")
	if err != nil {
		bootstrapLog.Error("Failed to create logger in %s: %v", logDir, err)

		return fmt.Errorf("failed to create logger: %w", err)
	}

	closeErr := bootstrapLog.Close()
	if closeErr != nil {
		runLog.Warn("Failed to close bootstrap logger: %v", closeErr)
	}

	a.settings = settings
	a.log = runLog
	a.reporter = report.NewConsole(os.Stdout)

	if flags.quiet {
		a.reporter = report.NewNop()
	}

	return nil
}

// applyFlagOverrides gives command-line flags the last word over both the
// environment and the project overlay.
func applyFlagOverrides(settings *config.Settings, flags *rootFlags) {
	if flags.outputDir != "" {
		settings.OutputDir = flags.outputDir
	}

	if flags.modelsDir != "" {
		settings.ModelsDir = flags.modelsDir
	}

	if flags.logDir != "" {
		settings.LogDir = flags.logDir
	}

	if flags.piperBinary != "" {
		settings.PiperBinary = flags.piperBinary
	}
}

func (a *app) close() {
	if a.log == nil {
		return
	}

	err := a.log.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error closing logger: %v\n", err)
	}
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "voiceover: %v\n", err)
		os.Exit(1)
	}
}
