package signals

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"github.com/joseph-ayodele/pdfcontext/constants"
)

// TypeSet is a set of signal types. The zero value is empty.
type TypeSet uint8

func typeBit(t constants.SignalType) (TypeSet, bool) {
	for i, known := range constants.AllSignalTypes {
		if known == t {
			return 1 << i, true
		}
	}
	return 0, false
}

// NewTypeSet builds a set from the given types; unknown types are ignored.
func NewTypeSet(types ...constants.SignalType) TypeSet {
	var s TypeSet
	for _, t := range types {
		s = s.Add(t)
	}
	return s
}

func (s TypeSet) Add(t constants.SignalType) TypeSet {
	if b, ok := typeBit(t); ok {
		return s | b
	}
	return s
}

func (s TypeSet) Has(t constants.SignalType) bool {
	b, ok := typeBit(t)
	return ok && s&b != 0
}

func (s TypeSet) Union(o TypeSet) TypeSet { return s | o }
func (s TypeSet) Len() int                { return bits.OnesCount8(uint8(s)) }
func (s TypeSet) Empty() bool             { return s == 0 }

// Types returns the members in canonical order.
func (s TypeSet) Types() []constants.SignalType {
	out := make([]constants.SignalType, 0, s.Len())
	for i, t := range constants.AllSignalTypes {
		if s&(1<<i) != 0 {
			out = append(out, t)
		}
	}
	return out
}

// Names returns the member names sorted alphabetically.
func (s TypeSet) Names() []string {
	out := make([]string, 0, s.Len())
	for _, t := range s.Types() {
		out = append(out, string(t))
	}
	sort.Strings(out)
	return out
}

func (s TypeSet) String() string { return strings.Join(s.Names(), ",") }

func (s TypeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *TypeSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	var set TypeSet
	for _, n := range names {
		b, ok := typeBit(constants.SignalType(n))
		if !ok {
			return fmt.Errorf("unknown signal type %q", n)
		}
		set |= b
	}
	*s = set
	return nil
}

// Signal is a span of page text the author visually marked as important.
type Signal struct {
	File   string
	Page   int
	Text   string
	Types  TypeSet
	Score  float64
	Source constants.SignalSource
}

// Significance is derived from Score on every call and never stored.
func (s Signal) Significance() constants.Significance {
	return Bucket(s.Score)
}

type signalJSON struct {
	File         string                 `json:"file"`
	Page         int                    `json:"page"`
	Text         string                 `json:"text"`
	Types        TypeSet                `json:"signal_types"`
	Score        float64                `json:"score"`
	Significance constants.Significance `json:"significance"`
	Source       constants.SignalSource `json:"source"`
}

func (s Signal) MarshalJSON() ([]byte, error) {
	return json.Marshal(signalJSON{
		File:         s.File,
		Page:         s.Page,
		Text:         s.Text,
		Types:        s.Types,
		Score:        s.Score,
		Significance: s.Significance(),
		Source:       s.Source,
	})
}

// UnmarshalJSON ignores the encoded significance; it is recomputed from score.
func (s *Signal) UnmarshalJSON(data []byte) error {
	var raw signalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Signal{
		File:   raw.File,
		Page:   raw.Page,
		Text:   raw.Text,
		Types:  raw.Types,
		Score:  raw.Score,
		Source: raw.Source,
	}
	return nil
}
