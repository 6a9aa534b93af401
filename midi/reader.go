package midi

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrNotMetric is returned for files timed in SMPTE frames instead of
// ticks per quarter note.
var ErrNotMetric = errors.New("midi: time format is not metric ticks")

// ReadFile opens and parses a Standard MIDI File.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Read parses a Standard MIDI File from r.
func Read(r io.Reader) (*File, error) {
	s, err := ReadSMF(r)
	if err != nil {
		return nil, err
	}
	return FromSMF(s)
}

// headerLen is the size of the MThd chunk including its 8 byte prefix.
const headerLen = 14

// ReadSMF parses r with gomidi after checking the time division itself:
// gomidi assumes metric ticks while computing absolute times and panics
// on SMPTE files.
func ReadSMF(r io.Reader) (s *smf.SMF, err error) {
	head := make([]byte, headerLen)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, errors.Wrap(err, "parse smf: read header")
	}
	if bytes.HasPrefix(head, []byte("MThd")) {
		if div := binary.BigEndian.Uint16(head[12:14]); div&0x8000 != 0 {
			return nil, errors.Wrapf(ErrNotMetric, "division %#04x", div)
		}
	}

	defer func() {
		if p := recover(); p != nil {
			s, err = nil, errors.Errorf("parse smf: %v", p)
		}
	}()

	s, err = smf.ReadFrom(io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		return nil, errors.Wrap(err, "parse smf")
	}
	return s, nil
}

// ReadSMFFile is ReadSMF for a path.
func ReadSMFFile(path string) (*smf.SMF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadSMF(f)
}

// FromSMF decodes every track of an already parsed SMF.
func FromSMF(s *smf.SMF) (*File, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.Wrapf(ErrNotMetric, "time format %v", s.TimeFormat)
	}

	file := &File{
		Format:       int(s.Format()),
		TicksPerBeat: int(ticks), // Resolution() turns 0 into 960
		Tracks:       make([]Track, 0, len(s.Tracks)),
	}
	for _, tr := range s.Tracks {
		track := make(Track, 0, len(tr))
		for _, ev := range tr {
			track.Add(ev.Delta, Decode(ev.Message))
		}
		file.Tracks = append(file.Tracks, track)
	}
	return file, nil
}

// Decode maps a raw SMF message onto the closed Message set.
func Decode(msg smf.Message) Message {
	if len(msg) == 0 {
		return OtherMsg{Kind: "empty"}
	}

	if msg.IsMeta() {
		var bpm float64
		if msg.GetMetaTempo(&bpm) && len(msg) >= 6 {
			us := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
			return TempoMsg{MicrosPerQuarter: us}
		}
		return OtherMsg{Kind: msg.Type().String()}
	}

	m := gomidi.Message(msg)

	var ch, key, vel uint8
	if m.GetNoteStart(&ch, &key, &vel) {
		return NoteOnMsg{Channel: ch, Key: key, Velocity: vel}
	}
	if m.GetNoteEnd(&ch, &key) {
		if msg[0]&0xF0 == NoteOn {
			return NoteOnMsg{Channel: ch, Key: key}
		}
		if len(msg) > 2 {
			vel = msg[2]
		}
		return NoteOffMsg{Channel: ch, Key: key, Velocity: vel}
	}

	var ctrl, val uint8
	if m.GetControlChange(&ch, &ctrl, &val) {
		return ControlChangeMsg{Channel: ch, Controller: ctrl, Value: val}
	}

	var program uint8
	if m.GetProgramChange(&ch, &program) {
		return ProgramChangeMsg{Channel: ch, Program: program}
	}

	var rel int16
	var abs uint16
	if m.GetPitchBend(&ch, &rel, &abs) {
		return PitchBendMsg{Channel: ch, Value: rel}
	}

	return OtherMsg{Kind: msg.Type().String()}
}
