package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"midi2text/midi"
)

func TestExtractBPM(t *testing.T) {
	assert.Equal(t, DefaultBPM, ExtractBPM(newFile(480)))

	var tr midi.Track
	tr.Add(0, midi.NoteOnMsg{Channel: 0, Key: 60, Velocity: 1})
	assert.Equal(t, DefaultBPM, ExtractBPM(newFile(480, tr)))

	var t0, t1 midi.Track
	t0.Add(0, midi.TempoMsg{}) // zero tempo is skipped
	t0.Add(10, midi.TempoMsg{MicrosPerQuarter: 400000})
	t0.Add(10, midi.TempoMsg{MicrosPerQuarter: 1000000})
	t1.Add(0, midi.TempoMsg{MicrosPerQuarter: 500000})
	assert.Equal(t, 150.0, ExtractBPM(newFile(480, t0, t1)))
}
