package compose

import (
	"cmp"
	"html"
	"slices"
	"strings"

	"github.com/rcliao/qalam/internal/model"
)

type event struct {
	at    int
	kind  model.Kind
	delta int // +1 open, -1 close
}

// Segments merges spans into maximal non-overlapping ranges, each tagged
// with every kind active over it, ordered by layer then kind. Ranges with
// no active kind are omitted. Spans that do not fit a text of textLen
// runes are ignored.
func Segments(textLen int, spans []model.Span) []model.Segment {
	events := make([]event, 0, 2*len(spans))
	for _, s := range spans {
		if !s.Valid(textLen) || s.Kind < 0 || int(s.Kind) >= len(model.Kinds) {
			continue
		}
		events = append(events, event{s.Start, s.Kind, +1}, event{s.End, s.Kind, -1})
	}
	slices.SortFunc(events, func(a, b event) int {
		return cmp.Compare(a.at, b.at)
	})

	active := make([]int, len(model.Kinds))
	var segs []model.Segment
	prev := 0
	for i := 0; i < len(events); {
		at := events[i].at
		if at > prev {
			if kinds := activeKinds(active); len(kinds) > 0 {
				segs = appendSegment(segs, model.Segment{Start: prev, End: at, Kinds: kinds})
			}
		}
		for ; i < len(events) && events[i].at == at; i++ {
			active[events[i].kind] += events[i].delta
		}
		prev = at
	}
	return segs
}

func activeKinds(active []int) []model.Kind {
	var kinds []model.Kind
	for _, k := range model.Kinds {
		if active[k] > 0 {
			kinds = append(kinds, k)
		}
	}
	slices.SortStableFunc(kinds, func(a, b model.Kind) int {
		return cmp.Compare(a.Layer(), b.Layer())
	})
	return kinds
}

// appendSegment extends the last segment when seg continues it with the
// same kinds.
func appendSegment(segs []model.Segment, seg model.Segment) []model.Segment {
	if n := len(segs); n > 0 {
		last := &segs[n-1]
		if last.End == seg.Start && slices.Equal(last.Kinds, seg.Kinds) {
			last.End = seg.End
			return segs
		}
	}
	return append(segs, seg)
}

// ClassPrefix prefixes each kind name in rendered class attributes.
const ClassPrefix = "hl-"

// RenderHTML writes text as escaped HTML with every segment wrapped in a
// span whose classes name its kinds, e.g.
// <span class="hl-long-sentence hl-adverb">. Newlines become <br>.
// Segments must be sorted and non-overlapping, as Segments returns them.
func RenderHTML(text string, segments []model.Segment) string {
	runes := []rune(text)
	var b strings.Builder
	pos := 0
	for _, seg := range segments {
		start, end := max(seg.Start, pos), min(seg.End, len(runes))
		if start >= end {
			continue
		}
		b.WriteString(escape(string(runes[pos:start])))

		classes := make([]string, len(seg.Kinds))
		for i, k := range seg.Kinds {
			classes[i] = ClassPrefix + k.String()
		}
		b.WriteString(`<span class="`)
		b.WriteString(strings.Join(classes, " "))
		b.WriteString(`">`)
		b.WriteString(escape(string(runes[start:end])))
		b.WriteString(`</span>`)
		pos = end
	}
	b.WriteString(escape(string(runes[pos:])))
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
