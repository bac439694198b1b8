package divide

import (
	"slices"
	"strings"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/genbank"
)

// UnknownName labels records without any named gene. Such records are
// written but never reported as analyzable output.
const UnknownName = "Unknown"

// Decomposition is everything derived from one record before any output is
// written.
type Decomposition struct {
	// Name is the record-level label used for the by-record file.
	Name    string
	Info    SeqInfo
	Genes   []Named
	Others  []Named
	Spacers []Named
	Introns []Named
}

// Decompose names the features of rec and derives its spacers and introns.
// rec is not modified.
func Decompose(rec *genbank.Record, opts Options) Decomposition {
	d := Decomposition{Info: NewSeqInfo(rec)}
	joins := newJoinIndex()
	for _, f := range rec.Features {
		name, ok := FeatureName(f, opts)
		if !ok {
			continue
		}
		nf := Named{Name: name, Feature: f}
		if f.Type == genbank.TypeGene {
			d.Genes = append(d.Genes, nf)
		} else {
			d.Others = append(d.Others, nf)
		}
		if f.Location.IsJoin() {
			joins.put(name, f)
		}
	}

	for _, s := range FilterSpacers(Spacers(d.Genes), opts) {
		d.Spacers = append(d.Spacers, Named{Name: s.ID, Feature: s})
	}
	for _, in := range Introns(joins.named()) {
		d.Introns = append(d.Introns, Named{Name: in.ID, Feature: in})
	}
	d.Name = recordName(d.Genes, opts)
	return d
}

func recordName(genes []Named, opts Options) string {
	if name, ok := opts.organelleOverride(); ok {
		return name
	}
	names := make([]string, len(genes))
	for i, g := range genes {
		names[i] = g.Name
	}
	switch {
	case slices.Contains(names, "ITS"):
		return "ITS"
	case len(names) >= 4:
		return names[0] + "-...-" + names[len(names)-1]
	case len(names) == 0:
		return UnknownName
	default:
		return strings.Join(names, "-")
	}
}

// Dedupe keeps the first feature of each name.
func Dedupe(features []Named) []Named {
	seen := make(map[string]struct{}, len(features))
	out := make([]Named, 0, len(features))
	for _, nf := range features {
		if _, ok := seen[nf.Name]; ok {
			continue
		}
		seen[nf.Name] = struct{}{}
		out = append(out, nf)
	}
	return out
}
