package convert

// NumChannels is the number of MIDI channels tracked.
const NumChannels = 16

// DefaultVelocity is used for a synthetic record when the channel has
// never sounded a note.
const DefaultVelocity = 64

// ChannelState is the running instrument/expression state of a channel.
type ChannelState struct {
	Program   int
	Pan       int
	PitchBend int
	Volume    int
	CC74      int
	CC75      int
	CC76      int
}

// DefaultChannelState returns the power-on state of a channel.
func DefaultChannelState() ChannelState {
	return ChannelState{
		Pan:    64,
		Volume: 127,
	}
}

// record builds a NoteRecord from the channel state with the expression
// controllers sanitized.
func (c ChannelState) record(ch, pitch, vel, start, end int) NoteRecord {
	return NoteRecord{
		Channel:   ch,
		Program:   c.Program,
		Pitch:     pitch,
		Velocity:  vel,
		Start:     start,
		End:       end,
		Pan:       c.Pan,
		PitchBend: c.PitchBend,
		Volume:    c.Volume,
		CC74:      sanitize(c.CC74),
		CC75:      sanitize(c.CC75),
		CC76:      sanitize(c.CC76),
	}
}

type noteKey struct {
	ch, key uint8
}

// activeNote is a sounding note with the channel state captured at note-on.
type activeNote struct {
	velocity int
	start    int
	snapshot ChannelState
}

// ConversionState owns all mutable bookkeeping for one conversion.
type ConversionState struct {
	channels [NumChannels]ChannelState
	emitted  [NumChannels]ChannelState

	active map[noteKey]activeNote
	// keys of active notes per channel, in note-on order
	sounding [NumChannels][]uint8

	// velocity of the last real note emitted per channel, 0 if none
	lastVelocity [NumChannels]int

	records []NoteRecord
	stats   Stats
}

// NewConversionState returns a state with every channel at its defaults.
func NewConversionState() *ConversionState {
	s := &ConversionState{
		active: make(map[noteKey]activeNote),
	}
	for ch := range s.channels {
		s.channels[ch] = DefaultChannelState()
		s.emitted[ch] = DefaultChannelState()
	}
	return s
}

// Channel returns the current state of a channel.
func (s *ConversionState) Channel(ch int) ChannelState {
	return s.channels[ch]
}

// Active reports whether a note is currently sounding.
func (s *ConversionState) Active(ch, key uint8) bool {
	_, ok := s.active[noteKey{ch, key}]
	return ok
}

// NumActive returns the number of sounding notes.
func (s *ConversionState) NumActive() int {
	return len(s.active)
}

// Records returns everything emitted so far, in emission order.
func (s *ConversionState) Records() []NoteRecord {
	return s.records
}

func (s *ConversionState) open(ch, key uint8, n activeNote) {
	s.active[noteKey{ch, key}] = n
	s.sounding[ch] = append(s.sounding[ch], key)
}

func (s *ConversionState) close(ch, key uint8) (activeNote, bool) {
	k := noteKey{ch, key}
	n, ok := s.active[k]
	if !ok {
		return activeNote{}, false
	}
	delete(s.active, k)
	keys := s.sounding[ch]
	for i, kk := range keys {
		if kk == key {
			s.sounding[ch] = append(keys[:i], keys[i+1:]...)
			break
		}
	}
	return n, true
}

// velocityFor picks the velocity of a synthetic record: the first
// sounding note on the channel, else the last real note emitted on it,
// else DefaultVelocity.
func (s *ConversionState) velocityFor(ch int) int {
	if keys := s.sounding[ch]; len(keys) > 0 {
		return s.active[noteKey{uint8(ch), keys[0]}].velocity
	}
	if v := s.lastVelocity[ch]; v > 0 {
		return v
	}
	return DefaultVelocity
}

func (s *ConversionState) emit(r NoteRecord) {
	s.records = append(s.records, r)
	if r.IsSynthetic() {
		s.stats.Synthetic++
		return
	}
	s.lastVelocity[r.Channel] = r.Velocity
	s.stats.Notes++
}
