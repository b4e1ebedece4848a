package signals

import (
	"cmp"
	"slices"

	"github.com/joseph-ayodele/pdfcontext/constants"
)

// DefaultLimit caps the ranked signal list per document and per request.
const DefaultLimit = 40

type mergeKey struct {
	file string
	page int
	text string
}

// Merge collapses signals that share (file, page, normalized text), then
// ranks them by score desc, page asc, text asc and keeps the top limit.
// A non-positive limit keeps everything. The input is not modified.
func Merge(in []Signal, limit int) []Signal {
	index := make(map[mergeKey]int, len(in))
	out := make([]Signal, 0, len(in))

	for _, s := range in {
		k := mergeKey{file: s.File, page: s.Page, text: NormalizeKey(s.Text)}
		i, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, s)
			continue
		}
		m := &out[i]
		m.Types = m.Types.Union(s.Types)
		m.Score = max(m.Score, s.Score)
		if m.Source != s.Source {
			m.Source = constants.SourceMixed
		}
	}

	slices.SortStableFunc(out, func(a, b Signal) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Page, b.Page); c != 0 {
			return c
		}
		return cmp.Compare(a.Text, b.Text)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
