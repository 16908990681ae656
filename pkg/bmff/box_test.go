package bmff_test

import (
	"testing"

	"github.com/shishobooks/bmff-stream/pkg/bmff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxSetGetOffset(t *testing.T) {
	b, err := bmff.NewBox("tfhd", nil)
	require.NoError(t, err)

	off, err := b.Offset("trackID")
	require.NoError(t, err)
	assert.Equal(t, 12, off) // size(4) + type(4) + version(1) + flags(3)

	require.NoError(t, b.Set("trackID", uint64(7)))
	v, err := b.Get("trackID")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
}

func TestBoxGetUnknownFieldFails(t *testing.T) {
	b, err := bmff.NewBox("tfhd", nil)
	require.NoError(t, err)
	_, err = b.Get("nope")
	assert.ErrorIs(t, err, bmff.ErrUnknownField)
}

func TestBoxConfigOverridesDefault(t *testing.T) {
	b, err := bmff.NewBox("tkhd", map[string]any{"trackID": uint64(3)})
	require.NoError(t, err)
	v, err := b.Get("trackID")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)
}

func TestBoxAddAppendsAtCurrentByteLength(t *testing.T) {
	b, err := bmff.NewBox("mdat", nil)
	require.NoError(t, err)
	before := b.ByteLength()

	payload := []byte{1, 2, 3, 4}
	require.NoError(t, b.Add("payload", bmff.NewByteArray(payload)))

	off, err := b.Offset("payload")
	require.NoError(t, err)
	assert.Equal(t, before, off)
	assert.Equal(t, before+len(payload), b.ByteLength())

	buf, err := b.Buffer()
	require.NoError(t, err)
	assert.Equal(t, payload, buf[before:])
}

func TestBoxAddDuplicateNameFails(t *testing.T) {
	b, err := bmff.NewBox("mdat", nil)
	require.NoError(t, err)
	require.NoError(t, b.Add("payload", bmff.NewByteArray([]byte{1})))
	err = b.Add("payload", bmff.NewByteArray([]byte{2}))
	assert.ErrorIs(t, err, bmff.ErrDuplicateField)
}

func TestBoxLoadRoundTrip(t *testing.T) {
	original, err := bmff.NewBox("mvhd", map[string]any{"timescale": uint64(48000), "nextTrackID": uint64(2)})
	require.NoError(t, err)
	buf, err := original.Buffer()
	require.NoError(t, err)

	loaded, err := bmff.NewBox("mvhd", nil)
	require.NoError(t, err)
	require.NoError(t, loaded.Load(buf, 0))

	originalTimescale, _ := original.Get("timescale")
	loadedTimescale, _ := loaded.Get("timescale")
	assert.Equal(t, originalTimescale, loadedTimescale)

	originalNext, _ := original.Get("nextTrackID")
	loadedNext, _ := loaded.Get("nextTrackID")
	assert.Equal(t, originalNext, loadedNext)
}

func TestBoxAddSampleEntry(t *testing.T) {
	b, err := bmff.NewBox("trun", nil)
	require.NoError(t, err)
	before := b.ByteLength()

	require.NoError(t, b.AddSampleEntry(0, 1000, 512, 0, 0))
	assert.Equal(t, before+8, b.ByteLength())

	buf, err := b.Buffer()
	require.NoError(t, err)
	assert.Len(t, buf, b.ByteLength())
}
