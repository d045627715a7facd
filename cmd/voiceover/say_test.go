package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptFromArgsOneSegmentPerArgument(t *testing.T) {
	t.Parallel()

	script, err := scriptFromArgs("en_US-hfc_male-medium", []string{"Hello", "World"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "en_US-hfc_male-medium", script.Voice.Model)
	require.Len(t, script.Segments, 2)
	assert.Equal(t, "Hello", script.Segments[0].Text)
	assert.Equal(t, "World", script.Segments[1].Text)
}

func TestScriptFromArgsDashReadsSegmentsFromStdin(t *testing.T) {
	t.Parallel()

	stdin := strings.NewReader("First line.\n\n  Second line.  \n")

	script, err := scriptFromArgs("en_US-amy-low", []string{"-"}, stdin)
	require.NoError(t, err)

	// One segment per non-blank line, trimmed.
	require.Len(t, script.Segments, 2)
	assert.Equal(t, "First line.", script.Segments[0].Text)
	assert.Equal(t, "Second line.", script.Segments[1].Text)
}

func TestScriptFromArgsLiteralDashAmongOthersIsText(t *testing.T) {
	t.Parallel()

	script, err := scriptFromArgs("en_US-amy-low", []string{"-", "more"}, nil)
	require.NoError(t, err)

	require.Len(t, script.Segments, 2)
	assert.Equal(t, "-", script.Segments[0].Text)
}
