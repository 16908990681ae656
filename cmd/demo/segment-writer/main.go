// Command segment-writer simulates a live fMP4 segmenter: it writes an
// initialization segment once, then loops writing successive moof/mdat media
// segments into a directory until interrupted.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/shishobooks/bmff-stream/pkg/bmff"
	"github.com/shishobooks/bmff-stream/pkg/version"
)

func main() {
	log := logger.New()
	log.Info("starting segment-writer", logger.Data{"version": version.Version})

	var opts struct {
		OutDir   string `short:"o" long:"out-dir" description:"directory to write segments into" required:"true"`
		Interval int    `long:"interval-ms" description:"delay between segments, in milliseconds" default:"1000"`
	}

	_, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		log.Err(errors.Wrapf(err, "create out dir: %s", opts.OutDir)).Fatal("out dir error")
	}

	if err := writeInitSegment(opts.OutDir); err != nil {
		log.Err(err).Fatal("write init segment error")
	}
	log.Info("wrote initialization segment", logger.Data{"dir": opts.OutDir})

	graceful := signals.Setup()

	ticker := time.NewTicker(time.Duration(opts.Interval) * time.Millisecond)
	defer ticker.Stop()

	var sequence uint64 = 1
	for {
		select {
		case <-graceful:
			log.Info("shutting down", logger.Data{"segments_written": sequence - 1})
			return
		case <-ticker.C:
			if err := writeMediaSegment(opts.OutDir, sequence); err != nil {
				log.Err(err).Error("write media segment error")
				continue
			}
			log.Info("wrote media segment", logger.Data{"sequence": sequence})
			sequence++
		}
	}
}

func writeInitSegment(dir string) error {
	ftyp, err := bmff.NewBox("ftyp", nil)
	if err != nil {
		return errors.Wrap(err, "build ftyp")
	}
	mvhd, err := bmff.NewBox("mvhd", map[string]any{"nextTrackID": uint64(2)})
	if err != nil {
		return errors.Wrap(err, "build mvhd")
	}
	trex, err := bmff.NewBox("trex", map[string]any{"trackID": uint64(1)})
	if err != nil {
		return errors.Wrap(err, "build trex")
	}
	mvex, err := bmff.NewContainer("mvex", nil, trex)
	if err != nil {
		return errors.Wrap(err, "build mvex")
	}
	moov, err := bmff.NewContainer("moov", nil, mvhd, mvex)
	if err != nil {
		return errors.Wrap(err, "build moov")
	}

	buf, err := bmff.NewContainer("file", nil, ftyp, moov)
	if err != nil {
		return errors.Wrap(err, "build root")
	}
	return writeFile(filepath.Join(dir, "init.mp4"), buf)
}

func writeMediaSegment(dir string, sequence uint64) error {
	mfhd, err := bmff.NewBox("mfhd", map[string]any{"sequenceNumber": sequence})
	if err != nil {
		return errors.Wrap(err, "build mfhd")
	}
	tfhd, err := bmff.NewBox("tfhd", map[string]any{"trackID": uint64(1)})
	if err != nil {
		return errors.Wrap(err, "build tfhd")
	}
	tfdt, err := bmff.NewBox("tfdt", map[string]any{"baseMediaDecodeTime": sequence * 1000})
	if err != nil {
		return errors.Wrap(err, "build tfdt")
	}
	trun, err := bmff.NewBox("trun", nil)
	if err != nil {
		return errors.Wrap(err, "build trun")
	}
	if err := trun.AddSampleEntry(0, 1000, 512, 0, 0); err != nil {
		return errors.Wrap(err, "add sample entry")
	}
	traf, err := bmff.NewContainer("traf", nil, tfhd, tfdt, trun)
	if err != nil {
		return errors.Wrap(err, "build traf")
	}
	moof, err := bmff.NewContainer("moof", nil, mfhd, traf)
	if err != nil {
		return errors.Wrap(err, "build moof")
	}

	mdat, err := bmff.NewBox("mdat", nil)
	if err != nil {
		return errors.Wrap(err, "build mdat")
	}
	if err := mdat.Add("payload", bmff.NewByteArray(make([]byte, 512))); err != nil {
		return errors.Wrap(err, "add mdat payload")
	}

	moofBuf, err := moof.Buffer()
	if err != nil {
		return errors.Wrap(err, "serialize moof")
	}
	mdatBuf, err := mdat.Buffer()
	if err != nil {
		return errors.Wrap(err, "serialize mdat")
	}

	name := filepath.Join(dir, fmt.Sprintf("segment-%05d.m4s", sequence))
	return os.WriteFile(name, append(moofBuf, mdatBuf...), 0600)
}

func writeFile(path string, tree interface{ Buffer() ([]byte, error) }) error {
	buf, err := tree.Buffer()
	if err != nil {
		return errors.Wrap(err, "serialize")
	}
	return os.WriteFile(path, buf, 0600)
}
