package midi

import "fmt"

// MIDI channel message status nibbles
const (
	NoteOff       uint8 = 0x80
	NoteOn        uint8 = 0x90
	CC            uint8 = 0xB0
	ProgramChange uint8 = 0xC0
	PitchBend     uint8 = 0xE0
)

// Controller numbers tracked by the converter
const (
	CCVolume uint8 = 7
	CCPan    uint8 = 10
	CC74     uint8 = 74
	CC75     uint8 = 75
	CC76     uint8 = 76
)

// Message is one decoded track message. The set of implementations is
// closed: ProgramChangeMsg, ControlChangeMsg, PitchBendMsg, NoteOnMsg,
// NoteOffMsg, TempoMsg and OtherMsg.
type Message interface {
	fmt.Stringer
	message()
}

// ProgramChangeMsg selects an instrument on a channel.
type ProgramChangeMsg struct {
	Channel uint8
	Program uint8
}

// ControlChangeMsg sets a controller value on a channel.
type ControlChangeMsg struct {
	Channel    uint8
	Controller uint8
	Value      uint8
}

// PitchBendMsg carries the signed bend, -8192..8191, 0 = centre.
type PitchBendMsg struct {
	Channel uint8
	Value   int16
}

// NoteOnMsg starts a note. A velocity of 0 ends it instead.
type NoteOnMsg struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
}

// NoteOffMsg ends a note.
type NoteOffMsg struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
}

// TempoMsg is the set-tempo meta event.
type TempoMsg struct {
	MicrosPerQuarter uint32
}

// OtherMsg is anything the converter does not interpret (sysex, other
// meta events, aftertouch, ...). Kind is a human readable label.
type OtherMsg struct {
	Kind string
}

func (ProgramChangeMsg) message() {}
func (ControlChangeMsg) message() {}
func (PitchBendMsg) message()     {}
func (NoteOnMsg) message()        {}
func (NoteOffMsg) message()       {}
func (TempoMsg) message()         {}
func (OtherMsg) message()         {}

// BPM converts the tempo to beats per minute.
func (t TempoMsg) BPM() float64 {
	if t.MicrosPerQuarter == 0 {
		return 0
	}
	return 60000000 / float64(t.MicrosPerQuarter)
}

func (m ProgramChangeMsg) String() string {
	return fmt.Sprintf("ProgramChange ch=%d program=%d", m.Channel, m.Program)
}

func (m ControlChangeMsg) String() string {
	return fmt.Sprintf("ControlChange ch=%d cc=%d value=%d", m.Channel, m.Controller, m.Value)
}

func (m PitchBendMsg) String() string {
	return fmt.Sprintf("PitchBend ch=%d value=%d", m.Channel, m.Value)
}

func (m NoteOnMsg) String() string {
	return fmt.Sprintf("NoteOn ch=%d key=%d vel=%d", m.Channel, m.Key, m.Velocity)
}

func (m NoteOffMsg) String() string {
	return fmt.Sprintf("NoteOff ch=%d key=%d vel=%d", m.Channel, m.Key, m.Velocity)
}

func (m TempoMsg) String() string {
	return fmt.Sprintf("Tempo %dus/qn (%.2fbpm)", m.MicrosPerQuarter, m.BPM())
}

func (m OtherMsg) String() string {
	if m.Kind == "" {
		return "Other"
	}
	return "Other " + m.Kind
}

// Event is a message with its delta time in ticks since the previous
// event of the same track.
type Event struct {
	Delta   uint32
	Message Message
}

// Track is an ordered list of events.
type Track []Event

// Add appends a message after delta ticks.
func (t *Track) Add(delta uint32, msg Message) {
	*t = append(*t, Event{Delta: delta, Message: msg})
}

// File is a parsed MIDI file: the tempo resolution plus its tracks, in
// file order.
type File struct {
	Format       int
	TicksPerBeat int
	Tracks       []Track
}

// NumEvents returns the total event count across all tracks.
func (f *File) NumEvents() int {
	n := 0
	for _, t := range f.Tracks {
		n += len(t)
	}
	return n
}
