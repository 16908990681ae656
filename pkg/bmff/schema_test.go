package bmff_test

import (
	"testing"

	"github.com/shishobooks/bmff-stream/pkg/bmff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSchemaByteLengthMatchesBuffer checks the invariant that, for every
// supported box type with no overrides, NewBox(t).ByteLength() equals the
// length of the buffer the box actually serializes to.
func TestSchemaByteLengthMatchesBuffer(t *testing.T) {
	for _, typ := range bmff.SupportedBoxTypes() {
		typ := typ
		t.Run(typ, func(t *testing.T) {
			b, err := bmff.NewBox(typ, nil)
			require.NoError(t, err)

			buf, err := b.Buffer()
			require.NoError(t, err)
			assert.Equal(t, b.ByteLength(), len(buf), "buffer length should match ByteLength")
		})
	}
}

// TestSchemaHeaderEncodesSizeAndType checks that every non-container leaf box
// (plus empty containers) writes its size and type at the start of the buffer.
func TestSchemaHeaderEncodesSizeAndType(t *testing.T) {
	for _, typ := range bmff.SupportedBoxTypes() {
		typ := typ
		t.Run(typ, func(t *testing.T) {
			b, err := bmff.NewBox(typ, nil)
			require.NoError(t, err)

			buf, err := b.Buffer()
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(buf), 8)

			size := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
			assert.Equal(t, uint32(b.ByteLength()), size)
			assert.Equal(t, typ, string(buf[4:8]))
		})
	}
}

func TestUnknownBoxTypeFails(t *testing.T) {
	_, err := bmff.NewBox("zzzz", nil)
	assert.ErrorIs(t, err, bmff.ErrUnknownBoxType)
}

func TestSentinelFallbackConstructs(t *testing.T) {
	b, err := bmff.NewBox("....", nil)
	require.NoError(t, err)
	assert.Equal(t, "....", b.Type())
}
