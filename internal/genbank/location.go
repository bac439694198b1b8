package genbank

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
)

// ErrOutOfBounds marks a sub-range that does not fit inside the record sequence.
var ErrOutOfBounds = errors.New("location outside sequence bounds")

// Strand of a sub-range.
type Strand int

const (
	Unknown Strand = 0
	Forward Strand = 1
	Reverse Strand = -1
)

func (s Strand) String() string {
	switch s {
	case Forward:
		return "+"
	case Reverse:
		return "-"
	default:
		return "?"
	}
}

// Range is a 0-based half-open interval [Start, End).
type Range struct {
	Start  int
	End    int
	Strand Strand
}

func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d](%s)", r.Start, r.End, r.Strand)
}

// Location is an ordered list of sub-ranges. Parts are kept in the order they
// are read in, which is the biological 5'->3' order for reverse-strand joins.
type Location struct {
	Parts    []Range
	Operator string
}

// NewLocation builds a single-part location.
func NewLocation(start, end int, strand Strand) Location {
	return Location{Parts: []Range{{Start: start, End: end, Strand: strand}}}
}

// Start is the minimal start of all parts.
func (l Location) Start() int {
	if len(l.Parts) == 0 {
		return 0
	}
	start := l.Parts[0].Start
	for _, p := range l.Parts[1:] {
		if p.Start < start {
			start = p.Start
		}
	}
	return start
}

// End is the maximal end of all parts.
func (l Location) End() int {
	if len(l.Parts) == 0 {
		return 0
	}
	end := l.Parts[0].End
	for _, p := range l.Parts[1:] {
		if p.End > end {
			end = p.End
		}
	}
	return end
}

// Len is the extraction length, the sum of part lengths.
func (l Location) Len() int {
	n := 0
	for _, p := range l.Parts {
		n += p.Len()
	}
	return n
}

// Strand is the shared strand of all parts, Unknown when they disagree.
func (l Location) Strand() Strand {
	if len(l.Parts) == 0 {
		return Unknown
	}
	s := l.Parts[0].Strand
	for _, p := range l.Parts[1:] {
		if p.Strand != s {
			return Unknown
		}
	}
	return s
}

// IsJoin reports whether the location was annotated as join(...).
func (l Location) IsJoin() bool {
	return l.Operator == "join" && len(l.Parts) > 1
}

// SortedParts returns a copy of the parts ordered by start.
func (l Location) SortedParts() []Range {
	parts := append([]Range(nil), l.Parts...)
	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].Start < parts[j].Start
	})
	return parts
}

// Overlaps reports whether any part of l shares a position with any part of other.
func (l Location) Overlaps(other Location) bool {
	for _, a := range l.Parts {
		for _, b := range other.Parts {
			if max(a.Start, b.Start) < min(a.End, b.End) {
				return true
			}
		}
	}
	return false
}

// Precedes reports whether l ends at or before other starts.
func (l Location) Precedes(other Location) bool {
	return l.End() <= other.Start()
}

// GapTo is the interval between the end of l and the start of other. The bool
// is false when l does not precede other.
func (l Location) GapTo(other Location) (Location, bool) {
	if !l.Precedes(other) {
		return Location{}, false
	}
	return NewLocation(l.End(), other.Start(), Unknown), true
}

// Expand pads the outermost parts by amount, clipped to [0, bound]. Interior
// parts and the part order are unchanged.
func (l Location) Expand(amount, bound int) Location {
	if amount <= 0 || len(l.Parts) == 0 {
		return l
	}
	first, last := 0, 0
	for i, p := range l.Parts {
		if p.Start < l.Parts[first].Start {
			first = i
		}
		if p.End > l.Parts[last].End {
			last = i
		}
	}
	parts := append([]Range(nil), l.Parts...)
	parts[first].Start = max(0, parts[first].Start-amount)
	parts[last].End = min(bound, parts[last].End+amount)
	return Location{Parts: parts, Operator: l.Operator}
}

// ExtractionError describes a location that could not be cut from a sequence.
type ExtractionError struct {
	Part   Range
	SeqLen int
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s from sequence of length %d: %v", e.Part, e.SeqLen, ErrOutOfBounds)
}

func (e *ExtractionError) Unwrap() error { return ErrOutOfBounds }

// Extract concatenates the part slices in part order, reverse-complementing
// reverse-strand parts.
func (l Location) Extract(sequence string) (string, error) {
	var b strings.Builder
	b.Grow(l.Len())
	for _, p := range l.Parts {
		if p.Start < 0 || p.End > len(sequence) || p.Start > p.End {
			return "", &ExtractionError{Part: p, SeqLen: len(sequence)}
		}
		sub := sequence[p.Start:p.End]
		if p.Strand == Reverse {
			sub = ReverseComplement(sub)
		}
		b.WriteString(sub)
	}
	return b.String(), nil
}

// ReverseComplement of a nucleotide string; IUPAC codes are complemented.
func ReverseComplement(s string) string {
	if s == "" {
		return s
	}
	rc := linear.NewSeq("", alphabet.BytesToLetters([]byte(s)), alphabet.DNAredundant)
	rc.RevComp()
	return string(alphabet.LettersToBytes(rc.Seq))
}
