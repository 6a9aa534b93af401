package convert

import "sort"

// Normalize orders records by start cell, keeping emission order for
// ties, then drops exact duplicates keeping the first occurrence. It
// returns the surviving records and how many were removed.
func Normalize(records []NoteRecord) ([]NoteRecord, int) {
	sorted := make([]NoteRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	seen := make(map[NoteRecord]struct{}, len(sorted))
	out := sorted[:0]
	for _, r := range sorted {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out, len(sorted) - len(out)
}
