package bmff

// boxLike is implemented by both Box and Container, letting a Container
// hold either as a child.
type boxLike interface {
	Type() string
	ByteLength() int
	CopyTo(buf []byte, offset int) error
}

// Container is a Box whose body is entirely other boxes, kept in append
// order. Children are not registered as named fields, so Get, Set and Offset
// do not reach them; use Children.
type Container struct {
	*Box
	children []boxLike
}

// NewContainer constructs a Container and appends the given children in order.
func NewContainer(typ string, config map[string]any, children ...boxLike) (*Container, error) {
	b, err := NewBox(typ, config)
	if err != nil {
		return nil, err
	}
	c := &Container{Box: b}
	c.Append(children...)
	return c, nil
}

// ByteLength returns the container's header length plus the sum of every
// child's ByteLength.
func (c *Container) ByteLength() int {
	total := c.Box.byteLength
	for _, ch := range c.children {
		total += ch.ByteLength()
	}
	return total
}

// Append adds each child box after the existing children, growing the
// container's ByteLength by the sum of the children's lengths. Returns c for
// chaining.
func (c *Container) Append(children ...boxLike) *Container {
	c.children = append(c.children, children...)
	return c
}

// Children returns the container's child boxes in insertion order.
func (c *Container) Children() []boxLike {
	return c.children
}

// Buffer allocates a zero-initialized buffer of ByteLength and serializes
// the container (and its full child tree) into it.
func (c *Container) Buffer() ([]byte, error) {
	buf := make([]byte, c.ByteLength())
	if err := c.CopyTo(buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// CopyTo serializes the container's header (with "size" patched to the
// total tree length) followed by each child in order.
func (c *Container) CopyTo(buf []byte, offset int) error {
	total := c.ByteLength()
	if idx, ok := c.Box.index["size"]; ok {
		if err := c.Box.elements[idx].(settable).setValue(uint64(total)); err != nil {
			return err
		}
	}
	for i, el := range c.Box.elements {
		if err := el.WriteAt(buf, offset+c.Box.offsets[i]); err != nil {
			return err
		}
	}
	pos := offset + c.Box.byteLength
	for _, ch := range c.children {
		if err := ch.CopyTo(buf, pos); err != nil {
			return err
		}
		pos += ch.ByteLength()
	}
	return nil
}

// ParseWarning records a non-fatal oddity observed while parsing, such as a
// FullBox whose on-wire version didn't match the version the schema assumed.
// Parsing does not abort on these; they're surfaced for callers who want to
// notice without failing the whole parse.
type ParseWarning struct {
	Box    string
	Reason string
}

// Parse reads a sequence of sibling top-level boxes from buf (e.g. an
// initialization segment's ftyp+moov, or a media segment's moof+mdat) and
// returns a synthetic "file" root Container holding them, alongside every
// MediaTrack discovered while recursing (one per avcC/esds box found) and
// any ParseWarnings observed.
func Parse(buf []byte) (*Container, []MediaTrack, []ParseWarning, error) {
	children, tracks, warnings, err := parseSiblings(buf)
	if err != nil {
		return nil, nil, nil, err
	}
	root, err := NewContainer("file", nil)
	if err != nil {
		return nil, nil, nil, err
	}
	root.Append(children...)
	return root, tracks, warnings, nil
}

// parseSiblings parses consecutive boxes from buf until it is exhausted.
func parseSiblings(buf []byte) ([]boxLike, []MediaTrack, []ParseWarning, error) {
	var children []boxLike
	var tracks []MediaTrack
	var warnings []ParseWarning

	for len(buf) > 0 {
		if len(buf) < 8 {
			return nil, nil, nil, insufficientBytesErr(8, len(buf))
		}
		size64, err := readUint(buf, 0, 4)
		if err != nil {
			return nil, nil, nil, err
		}
		size := int(size64)
		typ := decodeASCII(buf[4:8])

		spec, known := registry[typ]
		minHeader := 8
		if known && spec.kind == kindFullBox {
			minHeader = 12
		}
		if size < minHeader {
			return nil, nil, nil, malformedSizeErr(size, minHeader)
		}
		if size > len(buf) {
			return nil, nil, nil, insufficientBytesErr(size, len(buf))
		}

		boxBuf := buf[:size]

		switch {
		case known && spec.isContainer:
			c, err := NewContainer(typ, nil)
			if err != nil {
				return nil, nil, nil, err
			}
			if err := c.Box.Load(boxBuf, 0); err != nil {
				return nil, nil, nil, err
			}
			headerEnd := c.Box.byteLength
			subChildren, subTracks, subWarnings, err := parseSiblings(boxBuf[headerEnd:])
			if err != nil {
				return nil, nil, nil, err
			}
			c.Append(subChildren...)
			tracks = append(tracks, subTracks...)
			warnings = append(warnings, subWarnings...)
			children = append(children, c)

		case known:
			bx, err := NewBox(typ, nil)
			if err != nil {
				return nil, nil, nil, err
			}
			if err := bx.Load(boxBuf, 0); err != nil {
				return nil, nil, nil, err
			}
			if spec.kind == kindFullBox {
				if v, verr := bx.Get("version"); verr == nil && v.(uint64) != spec.headerDefaults["version"] {
					warnings = append(warnings, ParseWarning{Box: typ, Reason: "version mismatch"})
				}
			}
			switch typ {
			case "avcC":
				if track, ok := avcCTrack(bx); ok {
					tracks = append(tracks, track)
				}
			case "esds":
				if track, ok := esdsTrack(bx); ok {
					tracks = append(tracks, track)
				}
			}
			children = append(children, bx)

		default:
			bx, err := NewBox("....", nil)
			if err != nil {
				return nil, nil, nil, err
			}
			if err := bx.Load(boxBuf, 0); err != nil {
				return nil, nil, nil, err
			}
			bx.typ = typ
			children = append(children, bx)
		}

		buf = buf[size:]
	}

	return children, tracks, warnings, nil
}
