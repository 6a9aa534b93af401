package convert

import "strconv"

// SyntheticPitch marks a record that carries a controller state change
// rather than a sounding note.
const SyntheticPitch = -1

// Unset is how an expression controller still at 0 is written out.
const Unset = -1

// NoteRecord is one output line: a quantized note, or a synthetic
// state-change record when Pitch == SyntheticPitch.
type NoteRecord struct {
	Channel   int
	Program   int
	Pitch     int
	Velocity  int
	Start     int
	End       int
	Pan       int
	PitchBend int
	Volume    int
	CC74      int
	CC75      int
	CC76      int
}

// IsSynthetic reports whether the record is a state change with no note.
func (r NoteRecord) IsSynthetic() bool {
	return r.Pitch == SyntheticPitch
}

// Fields returns the twelve values in output order.
func (r NoteRecord) Fields() [12]int {
	return [12]int{
		r.Channel, r.Program, r.Pitch, r.Velocity, r.Start, r.End,
		r.Pan, r.PitchBend, r.Volume, r.CC74, r.CC75, r.CC76,
	}
}

// String encodes the record as a comma separated line without newline.
func (r NoteRecord) String() string {
	return string(r.AppendText(nil))
}

// AppendText appends the encoded line to b.
func (r NoteRecord) AppendText(b []byte) []byte {
	for i, v := range r.Fields() {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return b
}

// sanitize maps an expression controller value of 0 to Unset.
func sanitize(v int) int {
	if v == 0 {
		return Unset
	}
	return v
}
