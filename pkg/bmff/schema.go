package bmff

// boxKind selects which header fields a box carries.
type boxKind int

const (
	// kindNone carries no header fields; used only by the synthetic "file" root.
	kindNone boxKind = iota
	// kindBox carries a u32BE size and 4-byte type.
	kindBox
	// kindFullBox additionally carries a u8 version and u24BE flags.
	kindFullBox
)

// fieldKind tags which Element constructor a fieldSpec instantiates.
type fieldKind int

const (
	fkEmpty fieldKind = iota
	fkCharArray
	fkUInt8
	fkUInt16
	fkUInt24
	fkUInt32
	fkUInt64
	fkUInt8Array
	fkUInt16Array
	fkUInt32Array
	fkByteArray
	fkParameterSetArray
)

// parameterSetDefault is the default-value payload for an fkParameterSetArray field.
type parameterSetDefault struct {
	mask uint8
	sets [][]byte
}

// fieldSpec describes one field in a box's body (or header): its name, its
// element kind, and the default value used unless overridden by caller config.
type fieldSpec struct {
	name string
	kind fieldKind
	def  any
}

// boxSpec is the schema registry entry for one four-character box type.
type boxSpec struct {
	kind        boxKind
	isContainer bool
	body        []fieldSpec
	// headerDefaults overrides the zero-value defaults of header fields
	// (version, flags) synthesized for kindFullBox. Keys are "version" or
	// "flags".
	headerDefaults map[string]uint64
}

func newElement(kind fieldKind, value any) (Element, error) {
	switch kind {
	case fkEmpty:
		return NewEmpty(value.(int)), nil
	case fkCharArray:
		return NewCharArray(value.(string)), nil
	case fkUInt8:
		return NewUInt8(toUint64(value)), nil
	case fkUInt16:
		return NewUInt16(toUint64(value)), nil
	case fkUInt24:
		return NewUInt24(toUint64(value)), nil
	case fkUInt32:
		return NewUInt32(toUint64(value)), nil
	case fkUInt64:
		return NewUInt64(toUint64(value)), nil
	case fkUInt8Array:
		return NewUInt8Array(cloneUint8(value.([]uint8))), nil
	case fkUInt16Array:
		return NewUInt16BEArray(cloneUint16(value.([]uint16))), nil
	case fkUInt32Array:
		return NewUInt32BEArray(cloneUint32(value.([]uint32))), nil
	case fkByteArray:
		return NewByteArray(cloneBytes(value.([]byte))), nil
	case fkParameterSetArray:
		ps := value.(parameterSetDefault)
		return NewParameterSetArray(ps.mask, cloneSets(ps.sets)), nil
	default:
		return nil, unknownFieldErr("<invalid field kind>")
	}
}

func toUint64(v any) uint64 {
	switch x := v.(type) {
	case uint64:
		return x
	case uint32:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint8:
		return uint64(x)
	case int:
		return uint64(x)
	default:
		return 0
	}
}

func cloneUint8(v []uint8) []uint8 {
	out := make([]uint8, len(v))
	copy(out, v)
	return out
}

func cloneUint16(v []uint16) []uint16 {
	out := make([]uint16, len(v))
	copy(out, v)
	return out
}

func cloneUint32(v []uint32) []uint32 {
	out := make([]uint32, len(v))
	copy(out, v)
	return out
}

func cloneBytes(v []byte) []byte {
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

func cloneSets(v [][]byte) [][]byte {
	out := make([][]byte, len(v))
	for i, s := range v {
		out[i] = cloneBytes(s)
	}
	return out
}

// unityMatrix is the default 3x3 transformation matrix (9 u32 16.16 fixed
// point values) shared by mvhd and tkhd.
var unityMatrix = []uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000}

// esdsAudioSpecificConfig is a 2-byte AAC-LC, 44.1kHz, stereo AudioSpecificConfig,
// used as the default esds decoder-specific-info payload.
var esdsAudioSpecificConfig = []byte{0x12, 0x10}

// registry is the static, read-only box schema table. It is built once at
// package init and never mutated afterward.
var registry = map[string]boxSpec{
	// "file" is the synthetic parse root: no header, a pure container of
	// top-level boxes (ftyp, moov, mdat, moof). It is never itself written
	// to the wire.
	"file": {kind: kindNone, isContainer: true},
	"ftyp": {
		kind: kindBox,
		body: []fieldSpec{
			{"majorBrand", fkCharArray, "isom"},
			{"minorVersion", fkUInt32, uint64(0)},
			{"compatibleBrands", fkCharArray, "mp41"},
		},
	},
	"moov": {kind: kindBox, isContainer: true},
	"mvhd": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"creationTime", fkUInt32, uint64(0)},
			{"modificationTime", fkUInt32, uint64(0)},
			{"timescale", fkUInt32, uint64(1000)},
			{"duration", fkUInt32, uint64(0xFFFFFFFF)},
			{"rate", fkUInt32, uint64(0x00010000)},
			{"volume", fkUInt16, uint64(0x0100)},
			{"reserved", fkEmpty, 10},
			{"matrix", fkUInt32Array, unityMatrix},
			{"preDefined", fkEmpty, 24},
			{"nextTrackID", fkUInt32, uint64(0xFFFFFFFF)},
		},
	},
	"trak": {kind: kindBox, isContainer: true},
	"tkhd": {
		kind: kindFullBox,
		headerDefaults: map[string]uint64{
			"flags": 0x000003,
		},
		body: []fieldSpec{
			{"creationTime", fkUInt32, uint64(0)},
			{"modificationTime", fkUInt32, uint64(0)},
			{"trackID", fkUInt32, uint64(1)},
			{"reserved", fkEmpty, 4},
			{"duration", fkUInt32, uint64(0)},
			{"reserved2", fkEmpty, 8},
			{"layer", fkUInt16, uint64(0)},
			{"alternateGroup", fkUInt16, uint64(0)},
			{"volume", fkUInt16, uint64(0)},
			{"reserved3", fkEmpty, 2},
			{"matrix", fkUInt32Array, unityMatrix},
			{"width", fkUInt32, uint64(0)},
			{"height", fkUInt32, uint64(0)},
		},
	},
	"mdia": {kind: kindBox, isContainer: true},
	"mdhd": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"creationTime", fkUInt32, uint64(0)},
			{"modificationTime", fkUInt32, uint64(0)},
			{"timescale", fkUInt32, uint64(0)},
			{"duration", fkUInt32, uint64(0)},
			{"language", fkUInt16, uint64(0x55C4)}, // packed ISO-639-2 "und"
			{"preDefined", fkUInt16, uint64(0)},
		},
	},
	"hdlr": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"preDefined", fkUInt32, uint64(0)},
			{"handlerType", fkCharArray, "vide"},
			{"reserved", fkEmpty, 12},
			{"name", fkCharArray, "\x00"},
		},
	},
	"minf": {kind: kindBox, isContainer: true},
	"vmhd": {
		kind: kindFullBox,
		headerDefaults: map[string]uint64{
			"flags": 0x000001,
		},
		body: []fieldSpec{
			{"graphicsmode", fkUInt16, uint64(0)},
			{"opcolor", fkUInt16Array, []uint16{0, 0, 0}},
		},
	},
	"smhd": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"balance", fkUInt16, uint64(0)},
			{"reserved", fkEmpty, 2},
		},
	},
	"dinf": {kind: kindBox, isContainer: true},
	"dref": {
		kind:        kindFullBox,
		isContainer: true,
		body: []fieldSpec{
			{"entryCount", fkUInt32, uint64(1)},
		},
	},
	"url ": {
		kind: kindFullBox,
		headerDefaults: map[string]uint64{
			"flags": 0x000001,
		},
	},
	"stbl": {kind: kindBox, isContainer: true},
	"stsd": {
		kind:        kindFullBox,
		isContainer: true,
		body: []fieldSpec{
			{"entryCount", fkUInt32, uint64(1)},
		},
	},
	"avc1": {
		kind:        kindBox,
		isContainer: true,
		body: []fieldSpec{
			{"reserved", fkEmpty, 6},
			{"dataReferenceIndex", fkUInt16, uint64(1)},
			{"preDefined", fkUInt16, uint64(0)},
			{"reserved2", fkEmpty, 2},
			{"preDefined2", fkUInt32Array, []uint32{0, 0, 0}},
			{"width", fkUInt16, uint64(0)},
			{"height", fkUInt16, uint64(0)},
			{"horizresolution", fkUInt32, uint64(0x00480000)},
			{"vertresolution", fkUInt32, uint64(0x00480000)},
			{"reserved3", fkEmpty, 4},
			{"frameCount", fkUInt16, uint64(1)},
			{"compressorname", fkEmpty, 32},
			{"depth", fkUInt16, uint64(0x0018)},
			{"preDefined3", fkUInt16, uint64(0xFFFF)},
		},
	},
	"avcC": {
		kind: kindBox,
		body: []fieldSpec{
			{"configurationVersion", fkUInt8, uint64(1)},
			{"avcProfileIndication", fkUInt8, uint64(0)},
			{"profileCompatibility", fkUInt8, uint64(0)},
			{"avcLevelIndication", fkUInt8, uint64(0)},
			{"lengthSizeMinusOne", fkUInt8, uint64(0xFF)},
			{"sequenceParameterSets", fkParameterSetArray, parameterSetDefault{mask: 0xE0}},
			{"pictureParameterSets", fkParameterSetArray, parameterSetDefault{mask: 0x00}},
		},
	},
	"mp4a": {
		kind:        kindBox,
		isContainer: true,
		body: []fieldSpec{
			{"reserved", fkEmpty, 6},
			{"dataReferenceIndex", fkUInt16, uint64(1)},
			{"reserved2", fkEmpty, 8},
			{"channelcount", fkUInt16, uint64(2)},
			{"samplesize", fkUInt16, uint64(16)},
			{"preDefined", fkUInt16, uint64(0)},
			{"reserved3", fkEmpty, 2},
			{"samplerate", fkUInt32, uint64(0)},
		},
	},
	// esds encodes ES_Descriptor/DecoderConfigDescriptor/DecoderSpecificInfo/
	// SLConfigDescriptor as a flat sequence of scalar fields, each descriptor
	// using the 4-byte extended-length form (tag, 0x80, 0x80, 0x80, size).
	// The three "Length" fields below are only correct for the default
	// 2-byte audioSpecificConfig; overriding audioSpecificConfig also
	// requires overriding esDescriptorLength/decoderConfigDescriptorLength/
	// decSpecificInfoLength (no runtime recomputation is performed, per the
	// "no validation of mandatory/quantity constraints" non-goal).
	"esds": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"esDescriptorTag", fkUInt8, uint64(0x03)},
			{"esDescriptorLengthCont", fkUInt8Array, []uint8{0x80, 0x80, 0x80}},
			{"esDescriptorLength", fkUInt8, uint64(32 + len(esdsAudioSpecificConfig))},
			{"esID", fkUInt16, uint64(0)},
			{"esFlags", fkUInt8, uint64(0)},
			{"decoderConfigDescriptorTag", fkUInt8, uint64(0x04)},
			{"decoderConfigDescriptorLengthCont", fkUInt8Array, []uint8{0x80, 0x80, 0x80}},
			{"decoderConfigDescriptorLength", fkUInt8, uint64(18 + len(esdsAudioSpecificConfig))},
			{"objectTypeIndication", fkUInt8, uint64(0x40)},
			{"streamType", fkUInt8, uint64(0x15)},
			{"bufferSizeDB", fkUInt24, uint64(0)},
			{"maxBitrate", fkUInt32, uint64(0x0001F739)},
			{"avgBitrate", fkUInt32, uint64(0x0001F739)},
			{"decSpecificInfoTag", fkUInt8, uint64(0x05)},
			{"decSpecificInfoLengthCont", fkUInt8Array, []uint8{0x80, 0x80, 0x80}},
			{"decSpecificInfoLength", fkUInt8, uint64(len(esdsAudioSpecificConfig))},
			{"audioSpecificConfig", fkUInt8Array, esdsAudioSpecificConfig},
			{"slConfigDescriptorTag", fkUInt8, uint64(0x06)},
			{"slConfigDescriptorLengthCont", fkUInt8Array, []uint8{0x80, 0x80, 0x80}},
			{"slConfigDescriptorLength", fkUInt8, uint64(1)},
			{"slConfigFlags", fkUInt8, uint64(2)},
		},
	},
	"mvex": {kind: kindBox, isContainer: true},
	"mehd": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"fragmentDuration", fkUInt32, uint64(0)},
		},
	},
	"trex": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"trackID", fkUInt32, uint64(1)},
			{"defaultSampleDescriptionIndex", fkUInt32, uint64(1)},
			{"defaultSampleDuration", fkUInt32, uint64(0)},
			{"defaultSampleSize", fkUInt32, uint64(0)},
			{"defaultSampleFlags", fkUInt32, uint64(0)},
		},
	},
	"moof": {kind: kindBox, isContainer: true},
	"mfhd": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"sequenceNumber", fkUInt32, uint64(0)},
		},
	},
	"traf": {kind: kindBox, isContainer: true},
	"tfhd": {
		kind: kindFullBox,
		headerDefaults: map[string]uint64{
			"flags": 0x000020,
		},
		body: []fieldSpec{
			{"trackID", fkUInt32, uint64(1)},
			{"defaultSampleFlags", fkUInt32, uint64(0)},
		},
	},
	"tfdt": {
		kind: kindFullBox,
		headerDefaults: map[string]uint64{
			"version": 1,
		},
		body: []fieldSpec{
			{"baseMediaDecodeTime", fkUInt64, uint64(0)},
		},
	},
	"trun": {
		kind: kindFullBox,
		headerDefaults: map[string]uint64{
			"flags": 0x000305,
		},
		body: []fieldSpec{
			{"sampleCount", fkUInt32, uint64(1)},
			{"dataOffset", fkUInt32, uint64(0)},
			{"firstSampleFlags", fkUInt32, uint64(0)},
			{"sampleDuration", fkUInt32, uint64(0)},
			{"sampleSize", fkUInt32, uint64(0)},
		},
	},
	"mdat": {kind: kindBox},
	"edts": {kind: kindBox, isContainer: true},
	"elst": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"entryCount", fkUInt32, uint64(1)},
			{"segmentDuration", fkUInt32, uint64(0)},
			{"mediaTime", fkUInt32, uint64(0xFFFFFFFF)},
			{"mediaRateInteger", fkUInt16, uint64(1)},
			{"mediaRateFraction", fkUInt16, uint64(0)},
		},
	},
	// Minimal stbl sample tables: the fixed, always-empty preamble. Producers
	// append sample-level entries with Box.Add; see Box.AddSampleEntry for trun.
	"stts": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"entryCount", fkUInt32, uint64(0)},
		},
	},
	"stsc": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"entryCount", fkUInt32, uint64(0)},
		},
	},
	"stsz": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"sampleSize", fkUInt32, uint64(0)},
			{"sampleCount", fkUInt32, uint64(0)},
		},
	},
	"stco": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"entryCount", fkUInt32, uint64(0)},
		},
	},
	"stss": {
		kind: kindFullBox,
		body: []fieldSpec{
			{"entryCount", fkUInt32, uint64(0)},
		},
	},
}

// isFullBox reports whether the given box type uses FullBox header framing.
func isFullBox(t string) bool {
	spec, ok := registry[t]
	return ok && spec.kind == kindFullBox
}

// isContainerBox reports whether the given box type's body is entirely child boxes.
func isContainerBox(t string) bool {
	spec, ok := registry[t]
	return ok && spec.isContainer
}

// SupportedBoxTypes returns every box type with a schema registry entry,
// excluding the synthetic "file" root (which carries no header and is
// never constructed on its own outside of Parse).
func SupportedBoxTypes() []string {
	types := make([]string, 0, len(registry)-1)
	for t := range registry {
		if t == "file" {
			continue
		}
		types = append(types, t)
	}
	return types
}
