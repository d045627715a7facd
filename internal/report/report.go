// Package report defines the user-facing progress reporting for voiceover
// runs. The pipeline talks to the Reporter interface only; rendering is an
// injected concern with a no-op default.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/book-expert/voiceover/internal/fsutil"
)

const (
	displayTextLimit = 40
	separatorWidth   = 50
)

// Reporter receives progress events during a run. Implementations must be
// safe to call with a zero value for any argument; the pipeline never
// checks for nil reporters, callers inject Nop instead.
type Reporter interface {
	ModelReady(model string, cached bool)
	RunStarted(total int, outputDir string)
	SegmentStarted(index, total int, id, text string)
	SegmentSucceeded(index, total int, path string)
	SegmentFailed(index, total int, id string, err error)
	Summary(succeeded, total int, elapsed time.Duration)
	Combining(count int, path string)
	CombineSucceeded(path string)
	CombineFailed(err error)
	Publishing(count int, bucket string)
	PublishSucceeded(bucket string)
	PublishFailed(err error)
}

// Console renders progress as plain text, one pipeline step per line.
type Console struct {
	out io.Writer
}

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// ModelReady reports whether the voice model came from cache or the network.
func (c *Console) ModelReady(model string, cached bool) {
	if cached {
		fmt.Fprintf(c.out, "Voice model cached: %s\n", model)

		return
	}

	fmt.Fprintf(c.out, "Voice model downloaded: %s\n", model)
}

// RunStarted prints the run header.
func (c *Console) RunStarted(total int, outputDir string) {
	fmt.Fprintf(c.out, "Output directory: %s\n", outputDir)
	fmt.Fprintf(c.out, "Total segments: %d\n", total)
	c.separator()
}

// SegmentStarted prints the segment id and a preview of its text.
func (c *Console) SegmentStarted(_, _ int, id, text string) {
	fmt.Fprintf(c.out, "Generating: %s\n", id)
	fmt.Fprintf(c.out, "  Text: %s\n", truncate(text, displayTextLimit))
}

// SegmentSucceeded prints the saved file path.
func (c *Console) SegmentSucceeded(_, _ int, path string) {
	fmt.Fprintf(c.out, "  Saved: %s\n", path)
}

// SegmentFailed marks a failed segment. The run continues, so this is a
// notice rather than an abort message.
func (c *Console) SegmentFailed(_, _ int, _ string, err error) {
	fmt.Fprintf(c.out, "  FAILED: %v\n", err)
}

// Summary prints the completed-vs-total line.
func (c *Console) Summary(succeeded, total int, elapsed time.Duration) {
	c.separator()
	fmt.Fprintf(
		c.out,
		"Completed: %d/%d segments in %s\n",
		succeeded,
		total,
		fsutil.FormatDuration(elapsed.Seconds()),
	)
}

// Combining announces the combine step.
func (c *Console) Combining(count int, path string) {
	c.separator()
	fmt.Fprintf(c.out, "Combining %d files into: %s\n", count, path)
}

// CombineSucceeded reports the combined file.
func (c *Console) CombineSucceeded(path string) {
	fmt.Fprintf(c.out, "Combined file saved: %s\n", path)
}

// CombineFailed reports a combine error; it does not affect the tally.
func (c *Console) CombineFailed(err error) {
	fmt.Fprintf(c.out, "Failed to create combined file: %v\n", err)
}

// Publishing announces the artifact delivery step.
func (c *Console) Publishing(count int, bucket string) {
	c.separator()
	fmt.Fprintf(c.out, "Publishing %d files to bucket: %s\n", count, bucket)
}

// PublishSucceeded reports completed delivery.
func (c *Console) PublishSucceeded(bucket string) {
	fmt.Fprintf(c.out, "Published to bucket: %s\n", bucket)
}

// PublishFailed reports a delivery error; it does not affect the tally.
func (c *Console) PublishFailed(err error) {
	fmt.Fprintf(c.out, "Failed to publish audio: %v\n", err)
}

func (c *Console) separator() {
	fmt.Fprintln(c.out, strings.Repeat("-", separatorWidth))
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}

	return text[:limit] + "..."
}

// Nop discards all progress events.
type Nop struct{}

// NewNop creates a reporter that drops everything.
func NewNop() *Nop { return &Nop{} }

func (*Nop) ModelReady(string, bool)                 {}
func (*Nop) RunStarted(int, string)                  {}
func (*Nop) SegmentStarted(int, int, string, string) {}
func (*Nop) SegmentSucceeded(int, int, string)       {}
func (*Nop) SegmentFailed(int, int, string, error)   {}
func (*Nop) Summary(int, int, time.Duration)         {}
func (*Nop) Combining(int, string)                   {}
func (*Nop) CombineSucceeded(string)                 {}
func (*Nop) CombineFailed(error)                     {}
func (*Nop) Publishing(int, string)                  {}
func (*Nop) PublishSucceeded(string)                 {}
func (*Nop) PublishFailed(error)                     {}
