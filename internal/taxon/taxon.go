// Package taxon maps an NCBI lineage onto fixed ranks using static name
// tables and Linnaean suffix rules.
package taxon

import (
	"embed"
	"strings"
)

//go:embed data/*.csv
var tables embed.FS

var (
	superkingdoms = mustLoad("superkingdoms.csv")
	kingdoms      = mustLoad("kingdoms.csv")
	phyla         = mustLoad("phyla.csv")
	classes       = mustLoad("classes.csv")
	animalOrders  = mustLoad("animal_orders.csv")
)

const plantPhylum = "Streptophyta"

func mustLoad(name string) map[string]struct{} {
	data, err := tables.ReadFile("data/" + name)
	if err != nil {
		panic("taxon: " + err.Error())
	}
	set := make(map[string]struct{})
	for _, item := range strings.Split(string(data), ",") {
		if item = strings.TrimSpace(item); item != "" {
			set[item] = struct{}{}
		}
	}
	return set
}

func in(set map[string]struct{}, name string) bool {
	_, ok := set[name]
	return ok
}

// Summary holds the five ranks derived from a lineage; any may be empty.
type Summary struct {
	Kingdom string
	Phylum  string
	Class   string
	Order   string
	Family  string
}

// Fields returns the ranks from kingdom to family.
func (s Summary) Fields() []string {
	return []string{s.Kingdom, s.Phylum, s.Class, s.Order, s.Family}
}

// Summarize walks the lineage root to leaf. Later matches win. Superkingdoms
// and kingdoms share the kingdom slot to keep headers short.
func Summarize(lineage []string) Summary {
	var s Summary
	for _, item := range lineage {
		switch {
		case in(superkingdoms, item), in(kingdoms, item):
			s.Kingdom = item
		case in(phyla, item):
			s.Phylum = item
		case in(classes, item):
			s.Class = item
		}
		if strings.HasSuffix(item, "ales") || in(animalOrders, item) {
			s.Order = item
		} else if strings.HasSuffix(item, "aceae") || strings.HasSuffix(item, "idae") {
			s.Family = item
		}
	}
	// land plants have no class in the NCBI lineage; use the rank after the
	// last "-phyta" clade instead
	if s.Phylum == plantPhylum && s.Class == "" {
		last := -1
		for i, item := range lineage {
			if strings.HasSuffix(item, "phyta") {
				last = i
			}
		}
		if last >= 0 && last+1 < len(lineage) {
			s.Class = lineage[last+1]
		}
	}
	return s
}

// IsKingdom reports whether name is a known superkingdom or kingdom.
func IsKingdom(name string) bool {
	return in(superkingdoms, name) || in(kingdoms, name)
}

// IsPhylum reports whether name is a known phylum.
func IsPhylum(name string) bool {
	return in(phyla, name)
}

// IsClass reports whether name is a known class.
func IsClass(name string) bool {
	return in(classes, name)
}
