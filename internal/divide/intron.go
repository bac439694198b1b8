package divide

import (
	"strconv"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/genbank"
)

// joinIndex keeps the discontinuous features of one record keyed by name.
// A later feature with the same name replaces the earlier one but keeps its
// position in the iteration order.
type joinIndex struct {
	order []string
	byKey map[string]genbank.Feature
}

func newJoinIndex() *joinIndex {
	return &joinIndex{byKey: make(map[string]genbank.Feature)}
}

func (j *joinIndex) put(name string, f genbank.Feature) {
	if _, ok := j.byKey[name]; !ok {
		j.order = append(j.order, name)
	}
	j.byKey[name] = f
}

func (j *joinIndex) named() []Named {
	out := make([]Named, 0, len(j.order))
	for _, name := range j.order {
		out = append(out, Named{Name: name, Feature: j.byKey[name]})
	}
	return out
}

// Introns derives the gaps between consecutive parts of each discontinuous
// feature. Introns of a reverse-strand feature are numbered from its 5' end,
// so the highest number is the leftmost gap. Derivation for a feature stops at
// the first pair of parts that touch or overlap.
func Introns(features []Named) []genbank.Feature {
	var introns []genbank.Feature
	for _, nf := range features {
		parts := nf.Feature.Location.SortedParts()
		reverse := nf.Feature.Location.Strand() == genbank.Reverse
		for i := 0; i < len(parts)-1; i++ {
			before, current := parts[i], parts[i+1]
			if before.End >= current.Start {
				break
			}
			index := i + 1
			if reverse {
				index = len(parts) - i - 1
			}
			introns = append(introns, genbank.Feature{
				Type:     genbank.TypeIntron,
				ID:       nf.Name + "." + strconv.Itoa(index),
				Location: genbank.NewLocation(before.End, current.Start, before.Strand),
				Qualifiers: map[string][]string{
					"gene":  {nf.Name},
					"count": {strconv.Itoa(index)},
				},
			})
		}
	}
	return introns
}
