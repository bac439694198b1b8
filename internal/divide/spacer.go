package divide

import (
	"sort"
	"strconv"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/genbank"
)

// Named pairs a feature with its derived output name.
type Named struct {
	Name    string
	Feature genbank.Feature
}

const (
	qualUpstream     = "upstream"
	qualDownstream   = "downstream"
	qualRepeat       = "repeat"
	qualInvertRepeat = "invert_repeat"
)

// Spacers derives the intergenic regions between neighbouring genes. genes is
// not modified. The registry of emitted pair names lives only for this call.
func Spacers(genes []Named) []genbank.Feature {
	if len(genes) <= 1 {
		return nil
	}
	sorted := append([]Named(nil), genes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Feature.Location.Start() < sorted[j].Feature.Location.Start()
	})

	var spacers []genbank.Feature
	seen := make(map[string]struct{})
	for i := 0; i < len(sorted)-1; i++ {
		bName, before := sorted[i].Name, sorted[i].Feature.Location
		cName, current := sorted[i+1].Name, sorted[i+1].Feature.Location
		name := bName + "-" + cName
		repeat, invertRepeat := false, false
		gap, disjoint := before.GapTo(current)

		switch {
		// A.start--A.end--B.start--B.end
		case disjoint:
			if _, ok := seen[cName+"-"+bName]; ok {
				invertRepeat = true
			} else if _, ok := seen[name]; ok {
				repeat = true
			} else {
				seen[name] = struct{}{}
			}
			spacers = append(spacers, newSpacer(genbank.TypeSpacer, name, gap,
				bName, cName, repeat, invertRepeat))
		// A.start--B.start--A.end--B.end
		case before.End() <= current.End():
		// A.start--B.start--B.end--A.end
		default:
			spacers = append(spacers,
				newSpacer(genbank.TypeMosaicSpacer, name,
					genbank.NewLocation(before.Start(), current.Start(), genbank.Unknown),
					bName, cName, repeat, invertRepeat),
				newSpacer(genbank.TypeMosaicSpacer, cName+"-"+bName,
					genbank.NewLocation(current.End(), before.End(), genbank.Unknown),
					bName, cName, repeat, invertRepeat))
		}
	}

	out := spacers[:0]
	for _, s := range spacers {
		if s.Len() != 0 {
			out = append(out, s)
		}
	}
	return out
}

func newSpacer(typ, id string, loc genbank.Location, upstream, downstream string, repeat, invertRepeat bool) genbank.Feature {
	return genbank.Feature{
		Type:     typ,
		ID:       id,
		Location: loc,
		Qualifiers: map[string][]string{
			qualUpstream:     {upstream},
			qualDownstream:   {downstream},
			qualRepeat:       {strconv.FormatBool(repeat)},
			qualInvertRepeat: {strconv.FormatBool(invertRepeat)},
		},
	}
}

func boolQualifier(f genbank.Feature, key string) bool {
	v, _ := f.Qualifier(key)
	b, _ := strconv.ParseBool(v)
	return b
}

// FilterSpacers applies the mosaic and inverted-repeat toggles.
func FilterSpacers(spacers []genbank.Feature, opts Options) []genbank.Feature {
	var out []genbank.Feature
	for _, s := range spacers {
		if !opts.AllowMosaicSpacer && s.Type == genbank.TypeMosaicSpacer {
			continue
		}
		if !opts.AllowInvertRepeat && boolQualifier(s, qualInvertRepeat) {
			continue
		}
		out = append(out, s)
	}
	return out
}
