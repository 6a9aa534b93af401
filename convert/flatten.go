package convert

import (
	"midi2text/debug"
	"midi2text/midi"
)

// Stats counts what the flattener emitted and which anomalies it absorbed.
type Stats struct {
	Notes      int // real notes emitted
	Synthetic  int // state-change records emitted
	Duplicates int // records removed by Normalize
	Orphans    int // note-offs with no sounding note
	Retriggers int // note-ons ignored because the note was already sounding
	Unclosed   int // notes dropped at end of file
	Clamped    int // notes whose end was pulled up to their start
	Ignored    int // messages that touched no tracked state
}

// Flatten walks every track of f and returns the raw records in emission
// order. Tracks are processed one after another, each with its own time
// axis starting at 0, while channel state and sounding notes are shared.
func Flatten(f *midi.File, grid Grid) ([]NoteRecord, Stats) {
	s := NewConversionState()
	for i, tr := range f.Tracks {
		s.walk(i, tr, grid)
	}
	s.finish()
	return s.records, s.stats
}

func (s *ConversionState) walk(track int, tr midi.Track, grid Grid) {
	var abs int64
	for _, ev := range tr {
		abs += int64(ev.Delta)
		s.Apply(abs, ev.Message, grid)
	}
	debug.Log("flatten", "track %d: %d events, %d ticks, %d sounding", track, len(tr), abs, len(s.active))
}

// Apply consumes one message at absolute tick abs, then emits synthetic
// records for every channel whose state moved since it was last written.
func (s *ConversionState) Apply(abs int64, msg midi.Message, grid Grid) {
	if ch, ok := channelOf(msg); ok && int(ch) >= NumChannels {
		s.ignore(msg)
		s.emitChanges(abs, grid)
		return
	}

	switch m := msg.(type) {
	case midi.ProgramChangeMsg:
		s.channels[m.Channel].Program = int(m.Program)

	case midi.ControlChangeMsg:
		c := &s.channels[m.Channel]
		switch m.Controller {
		case midi.CCPan:
			c.Pan = int(m.Value)
		case midi.CCVolume:
			c.Volume = int(m.Value)
		case midi.CC74:
			c.CC74 = int(m.Value)
		case midi.CC75:
			c.CC75 = int(m.Value)
		case midi.CC76:
			c.CC76 = int(m.Value)
		default:
			s.ignore(msg)
		}

	case midi.PitchBendMsg:
		s.channels[m.Channel].PitchBend = int(m.Value)

	case midi.NoteOnMsg:
		if m.Velocity == 0 {
			s.noteOff(abs, m.Channel, m.Key, grid)
			break
		}
		s.noteOn(abs, m, grid)

	case midi.NoteOffMsg:
		s.noteOff(abs, m.Channel, m.Key, grid)

	default:
		s.ignore(msg)
	}

	s.emitChanges(abs, grid)
}

func (s *ConversionState) ignore(msg midi.Message) {
	s.stats.Ignored++
	debug.LogEvery(100, "flatten", "ignored %s", msg)
}

func channelOf(msg midi.Message) (uint8, bool) {
	switch m := msg.(type) {
	case midi.ProgramChangeMsg:
		return m.Channel, true
	case midi.ControlChangeMsg:
		return m.Channel, true
	case midi.PitchBendMsg:
		return m.Channel, true
	case midi.NoteOnMsg:
		return m.Channel, true
	case midi.NoteOffMsg:
		return m.Channel, true
	}
	return 0, false
}

func (s *ConversionState) noteOn(abs int64, m midi.NoteOnMsg, grid Grid) {
	if s.Active(m.Channel, m.Key) {
		s.stats.Retriggers++
		debug.Log("flatten", "retrigger ignored ch=%d key=%d tick=%d", m.Channel, m.Key, abs)
		return
	}
	s.open(m.Channel, m.Key, activeNote{
		velocity: int(m.Velocity),
		start:    grid.Start(abs),
		snapshot: s.channels[m.Channel],
	})
}

func (s *ConversionState) noteOff(abs int64, ch, key uint8, grid Grid) {
	n, ok := s.close(ch, key)
	if !ok {
		s.stats.Orphans++
		debug.Log("flatten", "orphan note-off ch=%d key=%d tick=%d", ch, key, abs)
		return
	}
	end := grid.End(abs)
	if end < n.start {
		// note-off came from a later track whose clock is behind
		s.stats.Clamped++
		debug.Log("flatten", "clamped end ch=%d key=%d start=%d end=%d", ch, key, n.start, end)
		end = n.start
	}
	s.emit(n.snapshot.record(int(ch), int(key), n.velocity, n.start, end))
}

func (s *ConversionState) emitChanges(abs int64, grid Grid) {
	for ch := range s.channels {
		if s.channels[ch] == s.emitted[ch] {
			continue
		}
		pos := grid.Start(abs)
		s.emit(s.channels[ch].record(ch, SyntheticPitch, s.velocityFor(ch), pos, pos))
		s.emitted[ch] = s.channels[ch]
	}
}

// finish drops notes that never received a note-off.
func (s *ConversionState) finish() {
	if len(s.active) == 0 {
		return
	}
	for k := range s.active {
		debug.Log("flatten", "unclosed note dropped ch=%d key=%d", k.ch, k.key)
	}
	s.stats.Unclosed += len(s.active)
	s.active = make(map[noteKey]activeNote)
	s.sounding = [NumChannels][]uint8{}
}
