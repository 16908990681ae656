package bmff

// Element is the contract shared by every field value kind: it knows its own
// wire length, can write itself into a buffer at a caller-supplied offset,
// and (where the kind supports it) can refresh its value by reading from the
// same kind of slice. Box never type-switches on concrete element kinds; all
// dispatch goes through this interface.
type Element interface {
	// ByteLength returns the number of bytes this element occupies on the wire.
	ByteLength() int

	// WriteAt copies the element's wire representation into buf[offset:offset+ByteLength()].
	WriteAt(buf []byte, offset int) error

	// ReadAt refreshes the element's value from buf[offset:offset+ByteLength()].
	// Encoder-only kinds return ErrNotSupported; kinds with nothing to refresh
	// (e.g. ParameterSetArray) succeed without changing state.
	ReadAt(buf []byte, offset int) error

	// Value returns the element's current value as its natural Go type.
	Value() any
}

// EmptyElement is fixed-length zero-filled padding.
type EmptyElement struct {
	length int
}

// NewEmpty constructs a zero-filled element of the given length.
func NewEmpty(length int) *EmptyElement { return &EmptyElement{length: length} }

func (e *EmptyElement) ByteLength() int { return e.length }

func (e *EmptyElement) WriteAt(buf []byte, offset int) error {
	if offset < 0 || offset+e.length > len(buf) {
		return insufficientBytesErr(e.length, len(buf)-offset)
	}
	for i := 0; i < e.length; i++ {
		buf[offset+i] = 0
	}
	return nil
}

func (e *EmptyElement) ReadAt(buf []byte, offset int) error { return nil }

func (e *EmptyElement) Value() any { return nil }

// CharArrayElement holds an ASCII string, one byte per character.
type CharArrayElement struct {
	value string
}

// NewCharArray constructs a CharArrayElement for s.
func NewCharArray(s string) *CharArrayElement { return &CharArrayElement{value: s} }

func (e *CharArrayElement) ByteLength() int { return len(e.value) }

func (e *CharArrayElement) WriteAt(buf []byte, offset int) error {
	n := len(e.value)
	if offset < 0 || offset+n > len(buf) {
		return insufficientBytesErr(n, len(buf)-offset)
	}
	copy(buf[offset:offset+n], e.value)
	return nil
}

func (e *CharArrayElement) ReadAt(buf []byte, offset int) error {
	n := len(e.value)
	if offset < 0 || offset+n > len(buf) {
		return insufficientBytesErr(n, len(buf)-offset)
	}
	e.value = decodeASCII(buf[offset : offset+n])
	return nil
}

func (e *CharArrayElement) Value() any { return e.value }

// ScalarElement holds a big-endian unsigned integer of width 1, 2, 3, or 4 bytes.
type ScalarElement struct {
	width int
	value uint64
}

// NewUInt8/16/24/32 construct fixed-width scalar elements.
func NewUInt8(v uint64) *ScalarElement  { return &ScalarElement{width: 1, value: v} }
func NewUInt16(v uint64) *ScalarElement { return &ScalarElement{width: 2, value: v} }
func NewUInt24(v uint64) *ScalarElement { return &ScalarElement{width: 3, value: v} }
func NewUInt32(v uint64) *ScalarElement { return &ScalarElement{width: 4, value: v} }

func (e *ScalarElement) ByteLength() int { return e.width }

func (e *ScalarElement) WriteAt(buf []byte, offset int) error {
	return writeUint(buf, offset, e.width, e.value)
}

func (e *ScalarElement) ReadAt(buf []byte, offset int) error {
	v, err := readUint(buf, offset, e.width)
	if err != nil {
		return err
	}
	e.value = v
	return nil
}

func (e *ScalarElement) Value() any { return e.value }

// UInt64Element holds a big-endian 64-bit value, synthesized on the wire as
// two u32BE halves (high, low).
type UInt64Element struct {
	value uint64
}

// NewUInt64 constructs a UInt64Element.
func NewUInt64(v uint64) *UInt64Element { return &UInt64Element{value: v} }

func (e *UInt64Element) ByteLength() int { return 8 }

func (e *UInt64Element) WriteAt(buf []byte, offset int) error {
	return writeUint64(buf, offset, e.value)
}

func (e *UInt64Element) ReadAt(buf []byte, offset int) error {
	v, err := readUint64(buf, offset)
	if err != nil {
		return err
	}
	e.value = v
	return nil
}

func (e *UInt64Element) Value() any { return e.value }

// UInt8ArrayElement holds a sequence of one-byte-per-element values.
type UInt8ArrayElement struct {
	values []uint8
}

// NewUInt8Array constructs a UInt8ArrayElement.
func NewUInt8Array(values []uint8) *UInt8ArrayElement {
	return &UInt8ArrayElement{values: values}
}

func (e *UInt8ArrayElement) ByteLength() int { return len(e.values) }

func (e *UInt8ArrayElement) WriteAt(buf []byte, offset int) error {
	n := len(e.values)
	if offset < 0 || offset+n > len(buf) {
		return insufficientBytesErr(n, len(buf)-offset)
	}
	copy(buf[offset:offset+n], e.values)
	return nil
}

func (e *UInt8ArrayElement) ReadAt(buf []byte, offset int) error {
	n := len(e.values)
	if offset < 0 || offset+n > len(buf) {
		return insufficientBytesErr(n, len(buf)-offset)
	}
	copy(e.values, buf[offset:offset+n])
	return nil
}

func (e *UInt8ArrayElement) Value() any { return e.values }

// UInt16BEArrayElement holds a sequence of big-endian u16 values.
type UInt16BEArrayElement struct {
	values []uint16
}

// NewUInt16BEArray constructs a UInt16BEArrayElement.
func NewUInt16BEArray(values []uint16) *UInt16BEArrayElement {
	return &UInt16BEArrayElement{values: values}
}

func (e *UInt16BEArrayElement) ByteLength() int { return len(e.values) * 2 }

func (e *UInt16BEArrayElement) WriteAt(buf []byte, offset int) error {
	for i, v := range e.values {
		if err := writeUint(buf, offset+i*2, 2, uint64(v)); err != nil {
			return err
		}
	}
	return nil
}

func (e *UInt16BEArrayElement) ReadAt(buf []byte, offset int) error {
	for i := range e.values {
		v, err := readUint(buf, offset+i*2, 2)
		if err != nil {
			return err
		}
		e.values[i] = uint16(v)
	}
	return nil
}

func (e *UInt16BEArrayElement) Value() any { return e.values }

// UInt32BEArrayElement holds a sequence of big-endian u32 values, used for
// the mvhd/tkhd 3x3 transformation matrix.
type UInt32BEArrayElement struct {
	values []uint32
}

// NewUInt32BEArray constructs a UInt32BEArrayElement.
func NewUInt32BEArray(values []uint32) *UInt32BEArrayElement {
	return &UInt32BEArrayElement{values: values}
}

func (e *UInt32BEArrayElement) ByteLength() int { return len(e.values) * 4 }

func (e *UInt32BEArrayElement) WriteAt(buf []byte, offset int) error {
	for i, v := range e.values {
		if err := writeUint(buf, offset+i*4, 4, uint64(v)); err != nil {
			return err
		}
	}
	return nil
}

func (e *UInt32BEArrayElement) ReadAt(buf []byte, offset int) error {
	for i := range e.values {
		v, err := readUint(buf, offset+i*4, 4)
		if err != nil {
			return err
		}
		e.values[i] = uint32(v)
	}
	return nil
}

func (e *UInt32BEArrayElement) Value() any { return e.values }

// ByteArrayElement holds an opaque blob, written verbatim. It is
// encoder-only: reading one back is not supported since there's no framing
// that tells a parser where the blob ends (mdat payload, for instance, runs
// to the end of its enclosing box).
type ByteArrayElement struct {
	data []byte
}

// NewByteArray constructs a ByteArrayElement.
func NewByteArray(data []byte) *ByteArrayElement { return &ByteArrayElement{data: data} }

func (e *ByteArrayElement) ByteLength() int { return len(e.data) }

func (e *ByteArrayElement) WriteAt(buf []byte, offset int) error {
	n := len(e.data)
	if offset < 0 || offset+n > len(buf) {
		return insufficientBytesErr(n, len(buf)-offset)
	}
	copy(buf[offset:offset+n], e.data)
	return nil
}

func (e *ByteArrayElement) ReadAt(buf []byte, offset int) error { return ErrNotSupported }

func (e *ByteArrayElement) Value() any { return e.data }

// ParameterSetArrayElement composes H.264 avcC parameter set lists: a
// 1-byte (mask | count) header followed by, for each set, a u16BE length
// and the set's bytes verbatim.
type ParameterSetArrayElement struct {
	mask uint8
	sets [][]byte
}

// NewParameterSetArray constructs a ParameterSetArrayElement with the given
// size mask (0xE0 for SPS, 0x00 for PPS in avcC) and parameter sets.
func NewParameterSetArray(mask uint8, sets [][]byte) *ParameterSetArrayElement {
	return &ParameterSetArrayElement{mask: mask, sets: sets}
}

func (e *ParameterSetArrayElement) ByteLength() int {
	n := 1
	for _, ps := range e.sets {
		n += 2 + len(ps)
	}
	return n
}

func (e *ParameterSetArrayElement) WriteAt(buf []byte, offset int) error {
	total := e.ByteLength()
	if offset < 0 || offset+total > len(buf) {
		return insufficientBytesErr(total, len(buf)-offset)
	}
	// #nosec G115 -- len(e.sets) is bounded by the handful of parameter sets
	// a real SPS/PPS list ever carries; it always fits the low 5 bits.
	buf[offset] = e.mask | uint8(len(e.sets))
	pos := offset + 1
	for _, ps := range e.sets {
		if err := writeUint(buf, pos, 2, uint64(len(ps))); err != nil {
			return err
		}
		pos += 2
		copy(buf[pos:pos+len(ps)], ps)
		pos += len(ps)
	}
	return nil
}

// ReadAt is a no-op: H.264 parameter sets are produced by the stream, never
// reconstructed from a parsed box in this core.
func (e *ParameterSetArrayElement) ReadAt(buf []byte, offset int) error { return nil }

func (e *ParameterSetArrayElement) Value() any { return e.sets }
