package main

import (
	"fmt"
	"os"
	"strconv"

	"midi2text/convert"
	"midi2text/midi"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		return
	}

	path := os.Args[2]
	var err error
	switch os.Args[1] {
	case "info":
		err = info(path)
	case "raw":
		err = raw(path, trackArg())
	case "decode":
		err = decode(path, trackArg())
	case "records":
		err = records(path)
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI File Inspection")
	fmt.Println("")
	fmt.Println("Usage: smfdump <command> <file.mid> [track]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  info     - Format, resolution, tracks, first tempo")
	fmt.Println("  raw      - Raw SMF events with absolute ticks")
	fmt.Println("  decode   - Events as the converter sees them")
	fmt.Println("  records  - Flattened records before sort/dedup")
}

// trackArg returns the optional track filter, -1 for all tracks
func trackArg() int {
	if len(os.Args) < 4 {
		return -1
	}
	n, err := strconv.Atoi(os.Args[3])
	if err != nil {
		return -1
	}
	return n
}

func info(path string) error {
	f, err := convert.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("File:           %s\n", path)
	fmt.Printf("Format:         %d\n", f.Format)
	fmt.Printf("Ticks per beat: %d\n", f.TicksPerBeat)
	fmt.Printf("Tracks:         %d\n", len(f.Tracks))
	fmt.Printf("Events:         %d\n", f.NumEvents())
	fmt.Printf("BPM:            %.3f\n", convert.ExtractBPM(f))
	for i, tr := range f.Tracks {
		fmt.Printf("  track %2d: %d events\n", i, len(tr))
	}
	return nil
}

func raw(path string, only int) error {
	s, err := midi.ReadSMFFile(path)
	if err != nil {
		return err
	}

	for i, tr := range s.Tracks {
		if only >= 0 && i != only {
			continue
		}
		fmt.Printf("=== Track %d ===\n", i)
		var abs int64
		for _, ev := range tr {
			abs += int64(ev.Delta)
			fmt.Printf("%8d  % X  %s\n", abs, []byte(ev.Message), ev.Message.String())
		}
	}
	return nil
}

func decode(path string, only int) error {
	f, err := convert.Load(path)
	if err != nil {
		return err
	}

	for i, tr := range f.Tracks {
		if only >= 0 && i != only {
			continue
		}
		fmt.Printf("=== Track %d ===\n", i)
		var abs int64
		for _, ev := range tr {
			abs += int64(ev.Delta)
			fmt.Printf("%8d  %s\n", abs, ev.Message)
		}
	}
	return nil
}

func records(path string) error {
	f, err := convert.Load(path)
	if err != nil {
		return err
	}
	grid, err := convert.NewGrid(f.TicksPerBeat)
	if err != nil {
		return err
	}

	recs, stats := convert.Flatten(f, grid)
	for _, r := range recs {
		fmt.Println(r)
	}
	fmt.Printf("\n%d notes, %d changes, %d orphans, %d retriggers, %d unclosed\n",
		stats.Notes, stats.Synthetic, stats.Orphans, stats.Retriggers, stats.Unclosed)
	return nil
}
