package bmff_test

import (
	"testing"

	"github.com/shishobooks/bmff-stream/pkg/bmff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteCodecScalarRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	el := bmff.NewUInt32(0xDEADBEEF)
	require.NoError(t, el.WriteAt(buf, 0))
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, buf)

	readBack := bmff.NewUInt32(0)
	require.NoError(t, readBack.ReadAt(buf, 0))
	assert.Equal(t, uint64(0xDEADBEEF), readBack.Value())
}

func TestByteCodecUInt64SplitsHighLow(t *testing.T) {
	buf := make([]byte, 8)
	el := bmff.NewUInt64(0x1_0000_0000)
	require.NoError(t, el.WriteAt(buf, 0))
	assert.Equal(t, []byte{0, 0, 0, 1, 0, 0, 0, 0}, buf)

	readBack := bmff.NewUInt64(0)
	require.NoError(t, readBack.ReadAt(buf, 0))
	assert.Equal(t, uint64(4294967296), readBack.Value())
}

func TestByteCodecValueOutOfRange(t *testing.T) {
	buf := make([]byte, 1)
	el := bmff.NewUInt8(256)
	assert.ErrorIs(t, el.WriteAt(buf, 0), bmff.ErrValueOutOfRange)
}

func TestByteCodecInsufficientBytes(t *testing.T) {
	buf := make([]byte, 2)
	el := bmff.NewUInt32(1)
	assert.ErrorIs(t, el.WriteAt(buf, 0), bmff.ErrInsufficientBytes)
}
