package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"midi2text/batch"
	"midi2text/convert"
	"midi2text/theme"
)

// ResultLine is the one-line report printed after a conversion.
func ResultLine(res convert.Result) string {
	return fmt.Sprintf("Converted '%s' -> '%s' (%d unique events, BPM=%d)", res.Source, res.Dest, res.Lines, res.BPM)
}

// Summary renders a converted file with its anomaly counters.
func Summary(th *theme.Theme, res convert.Result) string {
	var out strings.Builder
	out.WriteString(th.OKStyle().Render(string(th.Symbols.OK) + " " + ResultLine(res)))
	out.WriteString("\n")
	out.WriteString(th.DimStyle().Render(statsLine(th, res)))
	return out.String()
}

func statsLine(th *theme.Theme, res convert.Result) string {
	s := res.Stats
	parts := []string{
		fmt.Sprintf("%c %s notes", th.Symbols.Note, humanize.Comma(int64(s.Notes))),
		fmt.Sprintf("%s changes", humanize.Comma(int64(s.Synthetic))),
		fmt.Sprintf("%s duplicates", humanize.Comma(int64(s.Duplicates))),
		humanize.Bytes(uint64(res.Bytes)),
	}
	if s.Orphans > 0 {
		parts = append(parts, fmt.Sprintf("%d orphan note-offs", s.Orphans))
	}
	if s.Retriggers > 0 {
		parts = append(parts, fmt.Sprintf("%d retriggers", s.Retriggers))
	}
	if s.Unclosed > 0 {
		parts = append(parts, fmt.Sprintf("%d unclosed notes", s.Unclosed))
	}
	return "  " + strings.Join(parts, "  ")
}

// BatchSummary renders one line per outcome plus a total.
func BatchSummary(th *theme.Theme, outcomes []batch.Outcome) string {
	var out strings.Builder
	var lines int
	var bytes int64
	for _, o := range outcomes {
		if o.Err != nil {
			out.WriteString(th.ErrorStyle().Render(fmt.Sprintf("%c %s: %v", th.Symbols.Fail, o.Job.Source, o.Err)))
			out.WriteString("\n")
			continue
		}
		lines += o.Result.Lines
		bytes += o.Result.Bytes
		out.WriteString(th.OKStyle().Render(fmt.Sprintf("%c %s %c %s", th.Symbols.OK, o.Job.Source, th.Symbols.Arrow, o.Job.Dest)))
		out.WriteString(th.DimStyle().Render(fmt.Sprintf("  %s events  BPM=%d", humanize.Comma(int64(o.Result.Lines)), o.Result.BPM)))
		out.WriteString("\n")
	}

	failed := len(batch.Failed(outcomes))
	total := fmt.Sprintf("%d/%d files, %s events, %s",
		len(outcomes)-failed, len(outcomes), humanize.Comma(int64(lines)), humanize.Bytes(uint64(bytes)))
	out.WriteString(th.HeaderStyle().Render(total))
	return out.String()
}
