// Command mp4mux builds a synthetic fragmented MP4 initialization segment
// plus one media segment, then parses the initialization segment back out to
// report the tracks bmff discovered in it.
package main

import (
	"fmt"

	"github.com/google/uuid"
	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/bmff-stream/pkg/bmff"
	"github.com/shishobooks/bmff-stream/pkg/version"
)

func main() {
	log := logger.New()

	var opts struct {
		JSON    bool `long:"json" description:"print the discovered track list as JSON instead of text"`
		Version bool `long:"version" description:"print the version and exit"`
	}

	_, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if opts.Version {
		fmt.Println(version.Version)
		return
	}

	segmentID := uuid.New()
	log.Info("building initialization segment", logger.Data{"segment_id": segmentID})

	init, err := buildInitSegment()
	if err != nil {
		log.Err(err).Fatal("build init segment error")
	}
	log.Info("built initialization segment", logger.Data{"segment_id": segmentID, "bytes": init.ByteLength()})

	moof, mdat, err := buildMediaSegment()
	if err != nil {
		log.Err(err).Fatal("build media segment error")
	}
	log.Info("built media segment", logger.Data{
		"segment_id": segmentID,
		"moof_bytes": moof.ByteLength(),
		"mdat_bytes": mdat.ByteLength(),
	})

	buf, err := init.Buffer()
	if err != nil {
		log.Err(err).Fatal("serialize init segment error")
	}

	_, tracks, warnings, err := bmff.Parse(buf)
	if err != nil {
		log.Err(err).Fatal("parse init segment error")
	}
	for _, w := range warnings {
		log.Warn("parse warning", logger.Data{"box": w.Box, "reason": w.Reason})
	}

	if opts.JSON {
		out, err := json.Marshal(tracks)
		if err != nil {
			log.Err(errors.WithStack(err)).Fatal("marshal tracks error")
		}
		fmt.Println(string(out))
		return
	}

	for _, t := range tracks {
		fmt.Printf("%s track: %s\n", t.Kind, t.Codec)
	}
}

// buildInitSegment constructs a minimal ftyp+moov tree with a single trak
// whose stsd carries both an AVC (avc1) and an AAC (mp4a) sample entry.
func buildInitSegment() (*bmff.Container, error) {
	ftyp, err := bmff.NewBox("ftyp", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build ftyp")
	}

	avcC, err := bmff.NewBox("avcC", map[string]any{
		"avcProfileIndication": uint64(0x4D),
		"profileCompatibility": uint64(0x00),
		"avcLevelIndication":   uint64(0x29),
	})
	if err != nil {
		return nil, errors.Wrap(err, "build avcC")
	}
	avc1, err := bmff.NewContainer("avc1", nil, avcC)
	if err != nil {
		return nil, errors.Wrap(err, "build avc1")
	}

	esds, err := bmff.NewBox("esds", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build esds")
	}
	mp4a, err := bmff.NewContainer("mp4a", nil, esds)
	if err != nil {
		return nil, errors.Wrap(err, "build mp4a")
	}

	stsd, err := bmff.NewContainer("stsd", nil, avc1, mp4a)
	if err != nil {
		return nil, errors.Wrap(err, "build stsd")
	}
	stbl, err := bmff.NewContainer("stbl", nil, stsd)
	if err != nil {
		return nil, errors.Wrap(err, "build stbl")
	}
	dref, err := bmff.NewContainer("dref", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build dref")
	}
	dinf, err := bmff.NewContainer("dinf", nil, dref)
	if err != nil {
		return nil, errors.Wrap(err, "build dinf")
	}
	vmhd, err := bmff.NewBox("vmhd", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build vmhd")
	}
	minf, err := bmff.NewContainer("minf", nil, vmhd, dinf, stbl)
	if err != nil {
		return nil, errors.Wrap(err, "build minf")
	}
	mdhd, err := bmff.NewBox("mdhd", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build mdhd")
	}
	hdlr, err := bmff.NewBox("hdlr", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build hdlr")
	}
	mdia, err := bmff.NewContainer("mdia", nil, mdhd, hdlr, minf)
	if err != nil {
		return nil, errors.Wrap(err, "build mdia")
	}
	tkhd, err := bmff.NewBox("tkhd", map[string]any{"trackID": uint64(1)})
	if err != nil {
		return nil, errors.Wrap(err, "build tkhd")
	}
	trak, err := bmff.NewContainer("trak", nil, tkhd, mdia)
	if err != nil {
		return nil, errors.Wrap(err, "build trak")
	}

	trex, err := bmff.NewBox("trex", map[string]any{"trackID": uint64(1)})
	if err != nil {
		return nil, errors.Wrap(err, "build trex")
	}
	mvex, err := bmff.NewContainer("mvex", nil, trex)
	if err != nil {
		return nil, errors.Wrap(err, "build mvex")
	}
	mvhd, err := bmff.NewBox("mvhd", map[string]any{"nextTrackID": uint64(2)})
	if err != nil {
		return nil, errors.Wrap(err, "build mvhd")
	}
	moov, err := bmff.NewContainer("moov", nil, mvhd, trak, mvex)
	if err != nil {
		return nil, errors.Wrap(err, "build moov")
	}

	root, err := bmff.NewContainer("file", nil, ftyp, moov)
	if err != nil {
		return nil, errors.Wrap(err, "build root")
	}
	return root, nil
}

// buildMediaSegment constructs one moof/mdat pair carrying a single sample.
func buildMediaSegment() (*bmff.Container, *bmff.Box, error) {
	mfhd, err := bmff.NewBox("mfhd", nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build mfhd")
	}
	tfhd, err := bmff.NewBox("tfhd", map[string]any{"trackID": uint64(1)})
	if err != nil {
		return nil, nil, errors.Wrap(err, "build tfhd")
	}
	tfdt, err := bmff.NewBox("tfdt", nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build tfdt")
	}
	trun, err := bmff.NewBox("trun", nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build trun")
	}
	if err := trun.AddSampleEntry(0, 1000, 512, 0, 0); err != nil {
		return nil, nil, errors.Wrap(err, "add sample entry")
	}
	traf, err := bmff.NewContainer("traf", nil, tfhd, tfdt, trun)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build traf")
	}
	moof, err := bmff.NewContainer("moof", nil, mfhd, traf)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build moof")
	}

	mdat, err := bmff.NewBox("mdat", nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build mdat")
	}
	if err := mdat.Add("payload", bmff.NewByteArray(make([]byte, 512))); err != nil {
		return nil, nil, errors.Wrap(err, "add mdat payload")
	}

	return moof, mdat, nil
}
