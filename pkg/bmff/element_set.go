package bmff

// settable is implemented by element kinds whose value can be mutated
// in-place after construction via Box.Set, without changing ByteLength.
type settable interface {
	setValue(v any) error
}

func (e *ScalarElement) setValue(v any) error {
	n := toUint64(v)
	if n >= uint64(1)<<(uint(e.width)*8) {
		return valueOutOfRangeErr(e.width, n)
	}
	e.value = n
	return nil
}

func (e *UInt64Element) setValue(v any) error {
	e.value = toUint64(v)
	return nil
}

func (e *CharArrayElement) setValue(v any) error {
	s, ok := v.(string)
	if !ok {
		return valueOutOfRangeErr(len(e.value), 0)
	}
	if len(s) != len(e.value) {
		return valueOutOfRangeErr(len(e.value), uint64(len(s)))
	}
	e.value = s
	return nil
}

func (e *UInt8ArrayElement) setValue(v any) error {
	vals, ok := v.([]uint8)
	if !ok || len(vals) != len(e.values) {
		return valueOutOfRangeErr(len(e.values), 0)
	}
	copy(e.values, vals)
	return nil
}

func (e *UInt16BEArrayElement) setValue(v any) error {
	vals, ok := v.([]uint16)
	if !ok || len(vals) != len(e.values) {
		return valueOutOfRangeErr(len(e.values)*2, 0)
	}
	copy(e.values, vals)
	return nil
}

func (e *UInt32BEArrayElement) setValue(v any) error {
	vals, ok := v.([]uint32)
	if !ok || len(vals) != len(e.values) {
		return valueOutOfRangeErr(len(e.values)*4, 0)
	}
	copy(e.values, vals)
	return nil
}

// setValue requires the replacement blob to be the same length as the
// current one: Box pre-computes every later field's offset from this
// element's ByteLength at construction time, so a length change would
// desynchronize them.
func (e *ByteArrayElement) setValue(v any) error {
	b, ok := v.([]byte)
	if !ok || len(b) != len(e.data) {
		return valueOutOfRangeErr(len(e.data), 0)
	}
	e.data = b
	return nil
}

// setValue requires the replacement parameter sets to serialize to the same
// ByteLength as the current value, for the same reason as ByteArrayElement.
func (e *ParameterSetArrayElement) setValue(v any) error {
	sets, ok := v.([][]byte)
	if !ok {
		return valueOutOfRangeErr(e.ByteLength(), 0)
	}
	replacement := &ParameterSetArrayElement{mask: e.mask, sets: sets}
	if replacement.ByteLength() != e.ByteLength() {
		return valueOutOfRangeErr(e.ByteLength(), uint64(replacement.ByteLength()))
	}
	e.sets = sets
	return nil
}
