package main

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunalaneja/assetforge/internal/pipeline"
)

// Unchanged flags must leave the spec defaults alone, so the flag defaults
// and the spec defaults have to agree.
func TestCropCmdFlagDefaultsMatchSpec(t *testing.T) {
	cmd := newCropCmd()
	spec := pipeline.DefaultCropSpec("portrait.mp4")

	defValue := func(name string) string {
		f := cmd.Flags().Lookup(name)
		require.NotNil(t, f, "flag %q not registered", name)
		return f.DefValue
	}

	assert.Equal(t, strconv.Itoa(spec.TargetWidth), defValue("width"))
	assert.Equal(t, strconv.Itoa(spec.TargetHeight), defValue("height"))
	assert.Equal(t, strconv.Itoa(spec.CropSize), defValue("crop-size"))
	assert.Equal(t, strconv.Itoa(spec.SourceWidth), defValue("source-width"))
	assert.Equal(t, strconv.Itoa(spec.SourceHeight), defValue("source-height"))
	assert.Equal(t, "", defValue("output"), "output name defaults come from the spec")
}
