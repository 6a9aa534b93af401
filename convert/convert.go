// Package convert flattens a parsed MIDI file into the line oriented
// BPM/note text format: one line per quantized note or per channel
// controller change, ordered by start position and free of duplicates.
package convert

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"midi2text/debug"
	"midi2text/midi"
)

var (
	// ErrUnreadableSource means the input is not a readable MIDI file.
	ErrUnreadableSource = errors.New("unreadable MIDI source")
	// ErrMalformedResolution means ticks per beat is zero, negative, or
	// not expressed in ticks at all.
	ErrMalformedResolution = errors.New("malformed MIDI resolution")
)

// Result summarizes a file conversion.
type Result struct {
	Source string
	Dest   string
	Lines  int   // body lines written, after dedup
	BPM    int   // tempo written in the header
	Bytes  int64 // size of the output
	Stats  Stats
}

// Convert runs the whole pipeline on an in-memory file.
func Convert(f *midi.File) (*Document, error) {
	grid, err := NewGrid(f.TicksPerBeat)
	if err != nil {
		return nil, err
	}

	bpm := ExtractBPM(f)
	raw, stats := Flatten(f, grid)
	records, dups := Normalize(raw)
	stats.Duplicates = dups

	debug.Log("convert", "tpb=%d grid=%.3f bpm=%.3f raw=%d kept=%d", f.TicksPerBeat, grid.CellTicks(), bpm, len(raw), len(records))

	return &Document{
		BPM:     bpm,
		Records: records,
		Stats:   stats,
	}, nil
}

// Load parses a MIDI file from disk, mapping parser failures onto the
// conversion error kinds.
func Load(path string) (*midi.File, error) {
	f, err := midi.ReadFile(path)
	return classify(f, err, path)
}

// LoadReader is Load for an already open stream.
func LoadReader(r io.Reader, name string) (*midi.File, error) {
	f, err := midi.Read(r)
	return classify(f, err, name)
}

func classify(f *midi.File, err error, name string) (*midi.File, error) {
	if err == nil {
		return f, nil
	}
	if errors.Is(err, midi.ErrNotMetric) {
		return nil, errors.Wrapf(ErrMalformedResolution, "%s: %v", name, err)
	}
	return nil, errors.Wrapf(ErrUnreadableSource, "%s: %v", name, err)
}

// ConvertFile converts src and writes the text to dst. Nothing is written
// if src cannot be converted.
func ConvertFile(src, dst string) (Result, error) {
	f, err := Load(src)
	if err != nil {
		return Result{}, err
	}
	doc, err := Convert(f)
	if err != nil {
		return Result{}, errors.Wrap(err, src)
	}

	if dir := filepath.Dir(dst); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Result{}, err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return Result{}, err
	}
	n, err := doc.WriteTo(out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Result{}, errors.Wrapf(err, "write %s", dst)
	}

	return Result{
		Source: src,
		Dest:   dst,
		Lines:  len(doc.Records),
		BPM:    doc.HeaderBPM(),
		Bytes:  n,
		Stats:  doc.Stats,
	}, nil
}

// DefaultDest returns src with its extension replaced by .txt, placed in
// dir when dir is not empty.
func DefaultDest(src, dir string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".txt"
	if dir == "" {
		dir = filepath.Dir(src)
	}
	return filepath.Join(dir, base)
}
