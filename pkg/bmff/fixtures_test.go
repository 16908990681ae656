package bmff_test

import (
	"testing"

	"github.com/shishobooks/bmff-stream/pkg/bmff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFixtureFtyp matches the exact byte sequence for an unconfigured ftyp box.
func TestFixtureFtyp(t *testing.T) {
	b, err := bmff.NewBox("ftyp", nil)
	require.NoError(t, err)
	buf, err := b.Buffer()
	require.NoError(t, err)

	expected := []byte{
		0x00, 0x00, 0x00, 0x14, // size = 20
		'f', 't', 'y', 'p',
		'i', 's', 'o', 'm', // major_brand
		0x00, 0x00, 0x00, 0x00, // minor_version
		'm', 'p', '4', '1', // compatible_brands
	}
	assert.Equal(t, expected, buf)
}

// TestFixtureEmptyMoov matches an empty moov container's 8-byte encoding.
func TestFixtureEmptyMoov(t *testing.T) {
	c, err := bmff.NewContainer("moov", nil)
	require.NoError(t, err)
	buf, err := c.Buffer()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x08, 'm', 'o', 'o', 'v'}, buf)
}

// TestFixtureTfhdDefaultFlags matches tfhd's default flags/trackID/sampleFlags encoding.
func TestFixtureTfhdDefaultFlags(t *testing.T) {
	b, err := bmff.NewBox("tfhd", nil)
	require.NoError(t, err)
	assert.Equal(t, 20, b.ByteLength())

	buf, err := b.Buffer()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x20}, buf[8:12])  // version=0, flags=0x000020
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x01}, buf[12:16]) // trackID=1
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, buf[16:20]) // defaultSampleFlags=0
}

// TestFixtureTfdtVersion1 matches tfdt's version-1 encoding and u64 round trip.
func TestFixtureTfdtVersion1(t *testing.T) {
	b, err := bmff.NewBox("tfdt", nil)
	require.NoError(t, err)
	assert.Equal(t, 20, b.ByteLength())

	buf, err := b.Buffer()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), buf[8]) // version

	require.NoError(t, b.Set("baseMediaDecodeTime", uint64(0x1_0000_0000)))
	buf, err = b.Buffer()
	require.NoError(t, err)

	loaded, err := bmff.NewBox("tfdt", nil)
	require.NoError(t, err)
	require.NoError(t, loaded.Load(buf, 0))
	v, err := loaded.Get("baseMediaDecodeTime")
	require.NoError(t, err)
	assert.Equal(t, uint64(4294967296), v)
}

// TestFixtureAvcCParameterSets matches the SPS/PPS encoding from the fixed
// fixture in the format's concrete end-to-end scenarios.
func TestFixtureAvcCParameterSets(t *testing.T) {
	sps := []byte{
		0x67, 0x4D, 0x00, 0x29, 0xE2, 0x90, 0x0F, 0x00, 0x44, 0xFC,
		0xB8, 0x0B, 0x70, 0x10, 0x10, 0x1A, 0x41, 0xE2, 0x44, 0x54,
	}
	pps := []byte{0x68, 0xEE, 0x3C, 0x80}

	b, err := bmff.NewBox("avcC", map[string]any{
		"sequenceParameterSets": [][]byte{sps},
		"pictureParameterSets":  [][]byte{pps},
	})
	require.NoError(t, err)

	buf, err := b.Buffer()
	require.NoError(t, err)

	spsOff, err := b.Offset("sequenceParameterSets")
	require.NoError(t, err)
	assert.Equal(t, byte(0xE1), buf[spsOff])             // mask 0xE0 | count 1
	assert.Equal(t, []byte{0x00, 0x14}, buf[spsOff+1:spsOff+3]) // length 20
	assert.Equal(t, sps, buf[spsOff+3:spsOff+3+len(sps)])

	ppsOff, err := b.Offset("pictureParameterSets")
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), buf[ppsOff])             // mask 0x00 | count 1
	assert.Equal(t, []byte{0x00, 0x04}, buf[ppsOff+1:ppsOff+3]) // length 4
	assert.Equal(t, pps, buf[ppsOff+3:ppsOff+3+len(pps)])
}

// TestFixtureParseWithTrackDiscovery matches the end-to-end parse scenario:
// one avcC and one esds box yield exactly the video/audio tracks in
// discovery order.
func TestFixtureParseWithTrackDiscovery(t *testing.T) {
	avcC, err := bmff.NewBox("avcC", map[string]any{
		"avcProfileIndication": uint64(0x4D),
		"profileCompatibility": uint64(0x00),
		"avcLevelIndication":   uint64(0x29),
	})
	require.NoError(t, err)

	esds, err := bmff.NewBox("esds", map[string]any{
		"audioSpecificConfig": []byte{0x11, 0x90},
	})
	require.NoError(t, err)

	avcCBuf, err := avcC.Buffer()
	require.NoError(t, err)
	esdsBuf, err := esds.Buffer()
	require.NoError(t, err)

	moov, err := bmff.NewContainer("moov", nil)
	require.NoError(t, err)
	moovBuf, err := moov.Buffer()
	require.NoError(t, err)
	_ = moovBuf // moov itself carries no avcC/esds directly in this minimal fixture

	combined := append(append([]byte{}, avcCBuf...), esdsBuf...)
	_, tracks, _, err := bmff.Parse(combined)
	require.NoError(t, err)

	require.Len(t, tracks, 2)
	assert.Equal(t, bmff.MediaTrack{Kind: bmff.TrackKindVideo, Codec: "avc1.4d0029"}, tracks[0])
	assert.Equal(t, bmff.MediaTrack{Kind: bmff.TrackKindAudio, Codec: "mp4a.40.2"}, tracks[1])
}
