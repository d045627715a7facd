// Package pipeline sequences a voiceover run: resolve the voice model,
// synthesize every segment, and optionally combine and publish the results.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/voiceover/internal/audio"
	"github.com/book-expert/voiceover/internal/config"
	"github.com/book-expert/voiceover/internal/core"
	"github.com/book-expert/voiceover/internal/fsutil"
	"github.com/book-expert/voiceover/internal/report"
	"github.com/book-expert/voiceover/internal/text"
	"github.com/google/uuid"
)

// DefaultCombinedFilename names the merged output when the caller does not
// choose one.
const DefaultCombinedFilename = "combined_voiceover.wav"

const positionalIDFormat = "segment_%03d"

// Publisher delivers the generated files of a run to external consumers.
type Publisher interface {
	PublishRun(
		ctx context.Context,
		runID string,
		files []core.GeneratedFile,
		totalSegments int,
	) error
}

// Options control the optional tail steps of a run.
type Options struct {
	OutputDir    string
	Combine      bool
	CombinedName string

	// Publisher, when non-nil, receives the generated files after
	// synthesis. PublishTarget is its display name for progress output.
	Publisher     Publisher
	PublishTarget string
}

// Result is the aggregate outcome of one run. Segment failures accumulate
// here rather than aborting; combine and publish failures are carried
// separately and never change the segment tally.
type Result struct {
	RunID        string
	Total        int
	Succeeded    int
	Generated    []core.GeneratedFile
	CombinedPath string
	CombineErr   error
	PublishErr   error
}

// AllSucceeded reports whether every segment synthesis attempt succeeded.
// This is what the process exit code reflects.
func (r *Result) AllSucceeded() bool {
	return r.Succeeded == r.Total
}

// Pipeline orchestrates voiceover runs. Execution is strictly sequential:
// one blocking synthesis subprocess at a time, no retries.
type Pipeline struct {
	resolver   core.ModelResolver
	synth      core.Synthesizer
	normalizer *text.Normalizer
	reporter   report.Reporter
	log        *logger.Logger
}

// New creates a pipeline from its collaborators.
func New(
	resolver core.ModelResolver,
	synth core.Synthesizer,
	normalizer *text.Normalizer,
	reporter report.Reporter,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		resolver:   resolver,
		synth:      synth,
		normalizer: normalizer,
		reporter:   reporter,
		log:        log,
	}
}

// Run executes the full pipeline for one script. A nil error means the run
// itself proceeded past the fatal stages (directories, model); per-segment
// failures are reported through the Result.
func (p *Pipeline) Run(ctx context.Context, script *config.Script, opts Options) (*Result, error) {
	started := time.Now()

	result := &Result{
		RunID:        uuid.NewString(),
		Total:        len(script.Segments),
		Succeeded:    0,
		Generated:    nil,
		CombinedPath: "",
		CombineErr:   nil,
		PublishErr:   nil,
	}

	err := fsutil.EnsureDir(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	modelPath, err := p.resolveModel(ctx, script)
	if err != nil {
		return nil, err
	}

	p.reporter.RunStarted(result.Total, opts.OutputDir)
	p.synthesizeSegments(ctx, script, opts.OutputDir, modelPath, result)
	p.reporter.Summary(result.Succeeded, result.Total, time.Since(started))

	p.combineIfRequested(opts, result)
	p.publishIfRequested(ctx, opts, result)

	return result, nil
}

func (p *Pipeline) resolveModel(ctx context.Context, script *config.Script) (string, error) {
	model := script.Voice.ModelName()

	modelPath, cached, err := p.resolver.Resolve(ctx, model)
	if err != nil {
		return "", fmt.Errorf("failed to resolve voice model '%s': %w", model, err)
	}

	p.reporter.ModelReady(model, cached)

	return modelPath, nil
}

// synthesizeSegments attempts every segment exactly once, in order. A
// failure marks the segment and moves on; nothing
// halts the loop short of context cancellation inside the engine call.
func (p *Pipeline) synthesizeSegments(
	ctx context.Context,
	script *config.Script,
	outputDir string,
	modelPath string,
	result *Result,
) {
	prosody := script.Voice.Prosody()
	format := script.Output.FormatName()

	for i, segment := range script.Segments {
		segmentID := segment.ID
		if segmentID == "" {
			segmentID = fmt.Sprintf(positionalIDFormat, i+1)
		}

		// Colliding ids overwrite each other here, last writer wins.
		fileName := fsutil.SanitizeFilename(segmentID) + "." + format
		outputPath := filepath.Join(outputDir, fileName)

		p.reporter.SegmentStarted(i+1, result.Total, segmentID, segment.Text)

		job := core.SynthesisJob{
			ModelPath:  modelPath,
			OutputPath: outputPath,
			Prosody:    prosody,
		}

		err := p.synth.Process(ctx, p.normalizer.Normalize(segment.Text), job)

		generated := core.GeneratedFile{
			SegmentID: segmentID,
			Path:      outputPath,
			Index:     i,
			OK:        err == nil,
		}
		result.Generated = append(result.Generated, generated)

		if err != nil {
			p.log.Error("Segment '%s' failed: %v", segmentID, err)
			p.reporter.SegmentFailed(i+1, result.Total, segmentID, err)

			continue
		}

		result.Succeeded++

		p.reporter.SegmentSucceeded(i+1, result.Total, outputPath)
	}
}

// combineIfRequested merges the successful files, in generation order, when
// asked to and there is at least one input. A combine error lands in the
// result without flipping the segment tally.
func (p *Pipeline) combineIfRequested(opts Options, result *Result) {
	if !opts.Combine {
		return
	}

	inputs := successfulPaths(result.Generated)
	if len(inputs) == 0 {
		return
	}

	combinedName := opts.CombinedName
	if combinedName == "" {
		combinedName = DefaultCombinedFilename
	}

	combinedPath := filepath.Join(opts.OutputDir, combinedName)
	p.reporter.Combining(len(inputs), combinedPath)

	err := audio.Combine(inputs, combinedPath)
	if err != nil {
		p.log.Error("Failed to combine run %s: %v", result.RunID, err)
		p.reporter.CombineFailed(err)

		result.CombineErr = err

		return
	}

	result.CombinedPath = combinedPath

	p.reporter.CombineSucceeded(combinedPath)
}

func (p *Pipeline) publishIfRequested(ctx context.Context, opts Options, result *Result) {
	if opts.Publisher == nil || result.Succeeded == 0 {
		return
	}

	p.reporter.Publishing(result.Succeeded, opts.PublishTarget)

	err := opts.Publisher.PublishRun(ctx, result.RunID, result.Generated, result.Total)
	if err != nil {
		p.log.Error("Failed to publish run %s: %v", result.RunID, err)
		p.reporter.PublishFailed(err)

		result.PublishErr = err

		return
	}

	p.reporter.PublishSucceeded(opts.PublishTarget)
}

func successfulPaths(files []core.GeneratedFile) []string {
	var paths []string

	for _, file := range files {
		if file.OK {
			paths = append(paths, file.Path)
		}
	}

	return paths
}
