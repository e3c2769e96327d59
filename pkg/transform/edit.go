package transform

import (
	"fmt"
	"sort"
)

// edit replaces the source bytes in [start, end) with text.
type edit struct {
	start uint32
	end   uint32
	text  string
}

// editSet accumulates the edits produced by one phase.
type editSet struct {
	edits []edit
}

// replace queues a replacement of the given byte range.
func (s *editSet) replace(start, end uint32, text string) {
	s.edits = append(s.edits, edit{start: start, end: end, text: text})
}

// insert queues an insertion at the given byte offset.
func (s *editSet) insert(at uint32, text string) {
	s.edits = append(s.edits, edit{start: at, end: at, text: text})
}

func (s *editSet) empty() bool {
	return len(s.edits) == 0
}

// apply splices all queued edits into source and returns the new source.
// Edits must not overlap; an overlapping set indicates a phase bug and is
// reported as an error rather than producing corrupted output.
func (s *editSet) apply(source []byte) ([]byte, error) {
	if len(s.edits) == 0 {
		return source, nil
	}

	edits := make([]edit, len(s.edits))
	copy(edits, s.edits)
	sort.Slice(edits, func(i, j int) bool {
		if edits[i].start != edits[j].start {
			return edits[i].start < edits[j].start
		}
		return edits[i].end < edits[j].end
	})

	var prev *edit
	for i := range edits {
		e := &edits[i]
		if e.end < e.start || e.end > uint32(len(source)) {
			return nil, fmt.Errorf("edit range [%d, %d) out of bounds (source %d bytes)", e.start, e.end, len(source))
		}
		if prev != nil && e.start < prev.end {
			return nil, fmt.Errorf("overlapping edits at byte %d", e.start)
		}
		prev = e
	}

	var out []byte
	var cursor uint32
	for _, e := range edits {
		out = append(out, source[cursor:e.start]...)
		out = append(out, e.text...)
		cursor = e.end
	}
	out = append(out, source[cursor:]...)

	return out, nil
}
