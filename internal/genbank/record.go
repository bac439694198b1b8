// Package genbank reads GenBank flat files into records with typed feature
// locations.
package genbank

// Feature keys the decomposer routes on.
const (
	TypeGene         = "gene"
	TypeCDS          = "CDS"
	TypeTRNA         = "tRNA"
	TypeRRNA         = "rRNA"
	TypeMiscFeature  = "misc_feature"
	TypeMiscRNA      = "misc_RNA"
	TypeSpacer       = "spacer"
	TypeMosaicSpacer = "mosaic_spacer"
	TypeIntron       = "intron"
	TypeSource       = "source"
)

// Feature is one annotated region of a record.
type Feature struct {
	Type       string
	ID         string
	Location   Location
	Qualifiers map[string][]string
}

// Qualifier returns the first value of key.
func (f Feature) Qualifier(key string) (string, bool) {
	v, ok := f.Qualifiers[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Len is the extraction length of the feature.
func (f Feature) Len() int {
	return f.Location.Len()
}

// Record is one parsed GenBank entry.
type Record struct {
	Locus     string
	Accession string
	Organism  string
	Taxonomy  []string
	Seq       string
	Features  []Feature
}
