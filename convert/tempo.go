package convert

import "midi2text/midi"

// DefaultBPM is used when a file carries no tempo event.
const DefaultBPM = 120.0

// ExtractBPM returns the tempo of the first set-tempo event found,
// scanning tracks in file order. Later tempo changes are ignored.
func ExtractBPM(f *midi.File) float64 {
	for _, tr := range f.Tracks {
		for _, ev := range tr {
			if t, ok := ev.Message.(midi.TempoMsg); ok && t.MicrosPerQuarter > 0 {
				return t.BPM()
			}
		}
	}
	return DefaultBPM
}
