package convert

import (
	"bufio"
	"io"
	"math"
	"strconv"
)

// HeaderPrefix starts the first line of every output.
const HeaderPrefix = "BPM:"

// Document is a finished conversion: the tempo header and the ordered,
// deduplicated body.
type Document struct {
	BPM     float64
	Records []NoteRecord
	Stats   Stats
}

// HeaderBPM is the tempo as written in the header, rounded down.
func (d *Document) HeaderBPM() int {
	return int(math.Floor(d.BPM))
}

// Header returns the header line without newline.
func (d *Document) Header() string {
	return HeaderPrefix + strconv.Itoa(d.HeaderBPM())
}

// Lines returns the header followed by one line per record.
func (d *Document) Lines() []string {
	return Encode(d.BPM, d.Records)
}

// Encode renders bpm and records as text lines, header first.
func Encode(bpm float64, records []NoteRecord) []string {
	d := Document{BPM: bpm}
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, d.Header())
	for _, r := range records {
		lines = append(lines, r.String())
	}
	return lines
}

// WriteTo writes the newline terminated text form to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	k, err := bw.WriteString(d.Header() + "\n")
	n += int64(k)
	if err != nil {
		return n, err
	}

	buf := make([]byte, 0, 64)
	for _, r := range d.Records {
		buf = r.AppendText(buf[:0])
		buf = append(buf, '\n')
		k, err := bw.Write(buf)
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
