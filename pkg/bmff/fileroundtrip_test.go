package bmff_test

import (
	"path/filepath"
	"testing"

	"github.com/shishobooks/bmff-stream/internal/testhelpers"
	"github.com/shishobooks/bmff-stream/pkg/bmff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFileRoundTripAvcCBox writes a serialized avcC box to disk, checks the
// bytes read back equal the in-memory buffer, and confirms Parse on them
// yields the expected video track.
func TestFileRoundTripAvcCBox(t *testing.T) {
	avcC, err := bmff.NewBox("avcC", map[string]any{
		"avcProfileIndication": uint64(0x4D),
		"profileCompatibility": uint64(0x00),
		"avcLevelIndication":   uint64(0x29),
	})
	require.NoError(t, err)
	buf, err := avcC.Buffer()
	require.NoError(t, err)

	dir := testhelpers.TempDir(t, "bmff-fixture")
	segDir := testhelpers.CreateSubDir(t, dir, "segments")
	path := testhelpers.WriteFile(t, segDir, "avcC.bin", buf)

	assert.Equal(t, filepath.Join(segDir, "avcC.bin"), path)

	readBack := testhelpers.ReadFile(t, path)
	assert.Equal(t, buf, readBack)

	_, tracks, _, err := bmff.Parse(readBack)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, bmff.MediaTrack{Kind: bmff.TrackKindVideo, Codec: "avc1.4d0029"}, tracks[0])
}
