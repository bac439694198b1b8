package divide

import (
	"strings"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/genbank"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/logging"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/rename"
)

const ellipsis = "..."

// Only these feature keys are written out; exon/intron annotations already in
// the record are ignored in favour of derived ones.
var acceptTypes = map[string]struct{}{
	genbank.TypeGene:        {},
	genbank.TypeCDS:         {},
	genbank.TypeTRNA:        {},
	genbank.TypeRRNA:        {},
	genbank.TypeMiscFeature: {},
	genbank.TypeMiscRNA:     {},
}

var nameQualifiers = []string{"gene", "product", "locus_tag", "note"}

// FeatureName derives the output name of f. ok is false when the feature has
// an unsupported type or no usable qualifier; such features are not written.
func FeatureName(f genbank.Feature, opts Options) (name string, ok bool) {
	if _, accepted := acceptTypes[f.Type]; !accepted {
		return "", false
	}
	for _, key := range nameQualifiers {
		if name, ok = f.Qualifier(key); ok {
			break
		}
	}
	if !ok {
		logging.Debugf("Cannot recognize annotation: %s %v", f.Type, f.Location.Parts)
		return "", false
	}

	switch f.Type {
	case genbank.TypeMiscFeature:
		if strings.Contains(name, "internal transcribed spacer") {
			name = "ITS"
		}
		if strings.Contains(name, "intergenic_spacer") || strings.Contains(name, "IGS") {
			name = strings.ReplaceAll(name, "intergenic_spacer_region", "IGS")
		}
	case genbank.TypeMiscRNA:
		name = strings.ReplaceAll(name, "internal transcribed spacer", "ITS")
	}

	name = SafeName(name)
	if name == "" {
		logging.Debugf("Empty name after cleaning: %s %v", f.Type, f.Location.Parts)
		return "", false
	}
	if opts.Rename {
		name, _ = rename.Gene(name)
	}
	return truncateName(name, opts.MaxNameLen), true
}

// SafeName collapses every run of characters outside [A-Za-z0-9._-] into a
// single underscore and trims underscores from both ends.
func SafeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pending := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '.' || c == '_' || c == '-' {
			if pending {
				b.WriteByte('_')
				pending = false
			}
			b.WriteByte(c)
			continue
		}
		pending = b.Len() > 0
	}
	return strings.Trim(b.String(), "_")
}

func truncateName(name string, maxLen int) string {
	if maxLen <= len(ellipsis) || len(name) <= maxLen {
		return name
	}
	logging.Debugf("Too long name: %s. Truncated.", name)
	return name[:maxLen-len(ellipsis)] + ellipsis
}
