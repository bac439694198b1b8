// Package entrez builds NCBI Entrez search terms and downloads the matching
// GenBank records through the E-utilities history server.
package entrez

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	groups     = []string{"all", "animals", "plants", "fungi", "protists", "bacteria", "archaea", "viruses"}
	molecules  = []string{"all", "DNA", "RNA"}
	organelles = []string{"both", "no", "mt", "mitochondrion", "cp", "chloroplast", "pl", "plastid"}
)

// Query holds the search options of the download command. Empty strings and
// zero lengths leave a filter out.
type Query struct {
	Group     string
	Gene      string
	Molecular string
	Taxon     string
	Organelle string
	Exclude   string
	DateStart string
	DateEnd   string
	MinLen    int
	MaxLen    int
	RefSeq    bool
	// Text is a raw Entrez term. When set every other field is ignored.
	Text string
}

// Validate checks the enumerated options.
func (q Query) Validate() error {
	var errs []error
	check := func(name, value string, choices []string) {
		if value != "" && !slices.Contains(choices, value) {
			errs = append(errs, fmt.Errorf("invalid %s %q (choose from %s)", name, value, strings.Join(choices, ", ")))
		}
	}
	check("group", q.Group, groups)
	check("molecular", q.Molecular, molecules)
	check("organelle", q.Organelle, organelles)
	if q.MinLen < 0 || q.MaxLen < 0 {
		errs = append(errs, fmt.Errorf("sequence length range must not be negative"))
	}
	return errors.Join(errs...)
}

// LengthReset reports whether the length range is left out, as it is for
// RefSeq queries without a gene.
func (q Query) LengthReset() bool {
	return q.RefSeq && q.Gene == ""
}

// String returns the Entrez term, or "" when no option is set.
func (q Query) String() string {
	if q.Text != "" {
		return q.Text
	}
	var cond []string
	if q.Group != "" && q.Group != "all" {
		cond = append(cond, q.Group+"[filter]")
	}
	if q.Gene != "" {
		if strings.Contains(q.Gene, " ") {
			cond = append(cond, `"`+q.Gene+`"[gene]`)
		} else {
			cond = append(cond, q.Gene+"[gene]")
		}
	}
	switch q.Molecular {
	case "DNA":
		cond = append(cond, "biomol_genomic[PROP]")
	case "RNA":
		cond = append(cond, "biomol_mrna[PROP]")
	}
	if q.Taxon != "" {
		cond = append(cond, q.Taxon+"[organism]")
	}
	switch q.Organelle {
	case "both":
		cond = append(cond, "(mitochondrion[filter] OR plastid[filter] OR chloroplast[filter])")
	case "mt", "mitochondrion":
		cond = append(cond, "mitochondrion[filter]")
	case "cp", "chloroplast", "pl", "plastid":
		cond = append(cond, "(plastid[filter] OR chloroplast[filter])")
	}
	if q.RefSeq {
		cond = append(cond, "refseq[filter]")
	}
	if len(cond) > 0 && q.MaxLen > 0 && !q.LengthReset() {
		cond = append(cond, fmt.Sprintf(`("%d"[SLEN] : "%d"[SLEN])`, q.MinLen, q.MaxLen))
	}
	if q.Exclude != "" {
		cond = append(cond, "NOT ("+q.Exclude+")")
	}
	if q.DateStart != "" && q.DateEnd != "" {
		cond = append(cond, fmt.Sprintf(`"%s"[PDAT] : "%s"[PDAT]`, q.DateStart, q.DateEnd))
	}
	return strings.ReplaceAll(strings.Join(cond, " AND "), "AND NOT", "NOT")
}

var unsafePath = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName names the download of the given query words.
func FileName(words ...string) string {
	var kept []string
	for _, w := range words {
		if w != "" {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return "sequence.gb"
	}
	return strings.Trim(unsafePath.ReplaceAllString(strings.Join(kept, "-"), "_"), "_") + ".gb"
}
