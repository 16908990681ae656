package bmff

// Box is a named, ordered collection of fields (offset + Element), computed
// from the schema registry at construction time. It implements the
// size-prefixed, type-tagged ISO BMFF box header and, for non-container
// boxes, the fixed body fields the schema declares.
type Box struct {
	typ         string
	isContainer bool
	names       []string
	index       map[string]int
	offsets     []int
	elements    []Element
	byteLength  int
}

// NewBox looks up typ in the schema registry and constructs a Box with its
// declared header and body fields, with any caller-supplied config values
// overriding the schema defaults. config may be nil.
//
// The sentinel type "...." is accepted even though it has no registry entry:
// it is the opaque parse fallback and carries an empty Box-kind body.
func NewBox(typ string, config map[string]any) (*Box, error) {
	spec, ok := registry[typ]
	if !ok {
		if typ == "...." {
			spec = boxSpec{kind: kindBox}
		} else {
			return nil, unknownBoxTypeErr(typ)
		}
	}

	b := &Box{typ: typ, isContainer: spec.isContainer, index: make(map[string]int)}

	if spec.kind == kindBox || spec.kind == kindFullBox {
		if err := b.constructField("size", fkUInt32, uint64(0), config); err != nil {
			return nil, err
		}
		if err := b.constructField("type", fkCharArray, typ, config); err != nil {
			return nil, err
		}
		if spec.kind == kindFullBox {
			if err := b.constructField("version", fkUInt8, spec.headerDefaults["version"], config); err != nil {
				return nil, err
			}
			if err := b.constructField("flags", fkUInt24, spec.headerDefaults["flags"], config); err != nil {
				return nil, err
			}
		}
	}

	for _, fs := range spec.body {
		if err := b.constructField(fs.name, fs.kind, fs.def, config); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// constructField resolves name's value (config override, else def) and
// appends it as a new field.
func (b *Box) constructField(name string, kind fieldKind, def any, config map[string]any) error {
	value := def
	if config != nil {
		if v, ok := config[name]; ok {
			value = v
		}
	}
	// ParameterSetArray fields declare their size mask in the schema default;
	// a caller overriding just the parameter sets (the common case) supplies
	// a plain [][]byte, which is merged with the schema's mask here.
	if kind == fkParameterSetArray {
		if sets, ok := value.([][]byte); ok {
			value = parameterSetDefault{mask: def.(parameterSetDefault).mask, sets: sets}
		}
	}
	el, err := newElement(kind, value)
	if err != nil {
		return err
	}
	return b.appendElement(name, el)
}

func (b *Box) appendElement(name string, el Element) error {
	if _, exists := b.index[name]; exists {
		return duplicateFieldErr(name)
	}
	b.index[name] = len(b.names)
	b.names = append(b.names, name)
	b.offsets = append(b.offsets, b.byteLength)
	b.elements = append(b.elements, el)
	b.byteLength += el.ByteLength()
	return nil
}

// Type returns the box's four-character type.
func (b *Box) Type() string { return b.typ }

// ByteLength returns the box's total wire length, including its header.
func (b *Box) ByteLength() int { return b.byteLength }

// Add appends a new field after all existing fields, at the box's current
// ByteLength. Used for variable-length bodies the schema leaves to the
// producer (trun per-sample entries, mdat payload, stsz/stsc/stco tables).
func (b *Box) Add(name string, el Element) error {
	return b.appendElement(name, el)
}

// AddSampleEntry appends one trun sample's fields (duration, size, flags,
// composition time offset) in wire order. Duration and size are always
// appended; flags and composition offset only when the box's flags field has
// 0x000400 / 0x000800 set, so under the default trun flags 0x000305 an entry
// is duration + size.
func (b *Box) AddSampleEntry(index int, duration, size, flags, compositionOffset uint32) error {
	var boxFlags uint64
	if v, err := b.Get("flags"); err == nil {
		boxFlags = toUint64(v)
	}
	prefix := sampleFieldPrefix(index)
	if err := b.Add(prefix+"duration", NewUInt32(uint64(duration))); err != nil {
		return err
	}
	if err := b.Add(prefix+"size", NewUInt32(uint64(size))); err != nil {
		return err
	}
	if boxFlags&0x000400 != 0 {
		if err := b.Add(prefix+"flags", NewUInt32(uint64(flags))); err != nil {
			return err
		}
	}
	if boxFlags&0x000800 != 0 {
		return b.Add(prefix+"compositionOffset", NewUInt32(uint64(compositionOffset)))
	}
	return nil
}

func sampleFieldPrefix(index int) string {
	return "sample_" + itoa(index) + "_"
}

// itoa avoids importing strconv for a single call site used only for
// synthetic field name suffixes.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits [20]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// Set assigns a new value to an existing field without changing the box's
// ByteLength; the replacement must be the same wire width as the current
// value.
func (b *Box) Set(name string, value any) error {
	idx, ok := b.index[name]
	if !ok {
		return unknownFieldErr(name)
	}
	s, ok := b.elements[idx].(settable)
	if !ok {
		return unknownFieldErr(name)
	}
	return s.setValue(value)
}

// Get returns the current value of an existing field.
func (b *Box) Get(name string) (any, error) {
	idx, ok := b.index[name]
	if !ok {
		return nil, unknownFieldErr(name)
	}
	return b.elements[idx].Value(), nil
}

// Offset returns the byte offset of an existing field within the box.
func (b *Box) Offset(name string) (int, error) {
	idx, ok := b.index[name]
	if !ok {
		return 0, unknownFieldErr(name)
	}
	return b.offsets[idx], nil
}

// Buffer allocates a zero-initialized buffer of ByteLength and serializes
// the box into it.
func (b *Box) Buffer() ([]byte, error) {
	buf := make([]byte, b.byteLength)
	if err := b.CopyTo(buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// CopyTo serializes the box into buf at offset, patching its "size" field
// (if present) to the current ByteLength immediately before writing.
func (b *Box) CopyTo(buf []byte, offset int) error {
	if idx, ok := b.index["size"]; ok {
		// #nosec G115 -- ByteLength is bounded by the 4 GiB box size
		// ceiling this library accepts (largesize is out of scope).
		if err := b.elements[idx].(settable).setValue(uint64(b.byteLength)); err != nil {
			return err
		}
	}
	for i, el := range b.elements {
		if err := el.WriteAt(buf, offset+b.offsets[i]); err != nil {
			return err
		}
	}
	return nil
}

// Load refreshes every field's value by reading it back from buf at offset.
// ByteLength is not recomputed. Fields appended via Add are read as well; an
// appended ByteArray makes Load fail with ErrNotSupported.
func (b *Box) Load(buf []byte, offset int) error {
	for i, el := range b.elements {
		if err := el.ReadAt(buf, offset+b.offsets[i]); err != nil {
			return err
		}
	}
	return nil
}
