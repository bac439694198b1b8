package divide

import (
	"strings"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/genbank"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/taxon"
)

// SeqInfo is the per-record part shared by every output header.
type SeqInfo struct {
	// Taxon is kingdom|phylum|class|order|family|genus|species.
	Taxon     string
	Accession string
	Specimen  string
}

// Fields returns the header fields in output order.
func (s SeqInfo) Fields() []string {
	return []string{s.Taxon, s.Accession, s.Specimen}
}

// NewSeqInfo derives the header fields of rec. Missing taxonomy, organism or
// source qualifiers produce empty fields.
func NewSeqInfo(rec *genbank.Record) SeqInfo {
	genus, species := splitOrganism(rec.Organism)
	fields := append(taxon.Summarize(rec.Taxonomy).Fields(), genus, species)

	var specimen, isolate string
	if source, ok := sourceFeature(rec); ok {
		specimen, _ = source.Qualifier("specimen_voucher")
		isolate, _ = source.Qualifier("isolate")
	}
	specimen = strings.ReplaceAll(specimen, " ", "_")
	isolate = strings.ReplaceAll(isolate, " ", "_")

	return SeqInfo{
		Taxon:     strings.Join(fields, "|"),
		Accession: rec.Accession,
		Specimen:  strings.TrimRight(specimen+"_"+isolate, "_"),
	}
}

func splitOrganism(organism string) (genus, species string) {
	if organism == "" {
		return "", ""
	}
	genus, species, _ = strings.Cut(strings.ReplaceAll(organism, " ", "_"), "_")
	return genus, species
}

func sourceFeature(rec *genbank.Record) (genbank.Feature, bool) {
	for _, f := range rec.Features {
		if f.Type == genbank.TypeSource {
			return f, true
		}
	}
	return genbank.Feature{}, false
}
