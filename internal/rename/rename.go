// Package rename normalises the many spellings of organelle gene names found
// in GenBank annotations.
package rename

import (
	"regexp"
	"strings"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/genbank"
)

// Category classifies a renamed gene.
type Category string

const (
	TRNA       Category = "tRNA"
	RRNA       Category = "rRNA"
	Spacer     Category = "spacer"
	Normal     Category = "normal"
	Suspicious Category = "suspicious_name"
	Bad        Category = "bad_name"
)

var (
	anticodonRe = regexp.MustCompile(`([atcgu]{3})`)
	rrnNumberRe = regexp.MustCompile(`(\d+\.?\d?)`)
	rrnSuffixRe = regexp.MustCompile(`(\d+\.?\d?)(s|rrn|rdna)`)
	geneRe      = regexp.MustCompile(`[^a-z]*([a-z]+)[^a-z0-9]*([a-z]|[0-9]+)`)
)

// Standard genetic code, DNA codons.
var codonTable = map[string]string{
	"TTT": "F", "TTC": "F", "TTA": "L", "TTG": "L",
	"TCT": "S", "TCC": "S", "TCA": "S", "TCG": "S",
	"TAT": "Y", "TAC": "Y", "TAA": "*", "TAG": "*",
	"TGT": "C", "TGC": "C", "TGA": "*", "TGG": "W",

	"CTT": "L", "CTC": "L", "CTA": "L", "CTG": "L",
	"CCT": "P", "CCC": "P", "CCA": "P", "CCG": "P",
	"CAT": "H", "CAC": "H", "CAA": "Q", "CAG": "Q",
	"CGT": "R", "CGC": "R", "CGA": "R", "CGG": "R",

	"ATT": "I", "ATC": "I", "ATA": "I", "ATG": "M",
	"ACT": "T", "ACC": "T", "ACA": "T", "ACG": "T",
	"AAT": "N", "AAC": "N", "AAA": "K", "AAG": "K",
	"AGT": "S", "AGC": "S", "AGA": "R", "AGG": "R",

	"GTT": "V", "GTC": "V", "GTA": "V", "GTG": "V",
	"GCT": "A", "GCC": "A", "GCA": "A", "GCG": "A",
	"GAT": "D", "GAC": "D", "GAA": "E", "GAG": "E",
	"GGT": "G", "GGC": "G", "GGA": "G", "GGG": "G",
}

// Gene returns the canonical spelling of name and its category. Names that
// cannot be parsed come back unchanged with category Bad.
func Gene(name string) (string, Category) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "its"), strings.HasPrefix(lower, "igs"):
		return name, Spacer
	case strings.HasPrefix(lower, "trn"):
		return tRNA(name, lower)
	case strings.HasPrefix(lower, "rrn"):
		m := rrnNumberRe.FindStringSubmatch(lower)
		if m == nil {
			return name, Bad
		}
		return "rrn" + m[1], RRNA
	}
	if m := rrnSuffixRe.FindStringSubmatch(lower); m != nil {
		return "rrn" + m[1], RRNA
	}
	m := geneRe.FindStringSubmatch(lower)
	if m == nil {
		return name, Bad
	}
	gene, suffix := m[1], m[2]
	renamed := gene + strings.ToUpper(suffix)
	if len(gene) < 3 || len(gene) > 4 {
		return renamed, Suspicious
	}
	return renamed, Normal
}

func tRNA(name, lower string) (string, Category) {
	m := anticodonRe.FindStringSubmatch(lower[3:])
	if m == nil {
		return name, Bad
	}
	anticodon := m[1]
	var aa string
	switch {
	case anticodon == "cau" && strings.HasPrefix(lower, "trni"):
		// tRNA-Ile(CAU) is edited to read AUA
		aa = "I"
	case strings.HasPrefix(lower, "trnfm"):
		aa = "fM"
	default:
		aa = translateAnticodon(anticodon)
	}
	return "trn" + aa + "-" + strings.ToUpper(anticodon), TRNA
}

func translateAnticodon(anticodon string) string {
	dna := strings.ToUpper(strings.ReplaceAll(anticodon, "u", "t"))
	codon := genbank.ReverseComplement(dna)
	if aa, ok := codonTable[codon]; ok {
		return aa
	}
	return "X"
}
