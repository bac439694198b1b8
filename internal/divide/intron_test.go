package divide

import (
	"reflect"
	"testing"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/genbank"
)

func joined(name string, strand genbank.Strand, parts ...[2]int) Named {
	loc := genbank.Location{Operator: "join"}
	for _, p := range parts {
		loc.Parts = append(loc.Parts, genbank.Range{Start: p[0], End: p[1], Strand: strand})
	}
	return Named{Name: name, Feature: genbank.Feature{Type: genbank.TypeCDS, Location: loc}}
}

type intronSummary struct {
	ID         string
	Start, End int
	Strand     genbank.Strand
}

func TestIntrons(t *testing.T) {
	tests := []struct {
		name string
		in   Named
		want []intronSummary
	}{
		{
			name: "forward",
			in:   joined("rps16", genbank.Forward, [2]int{0, 10}, [2]int{20, 30}, [2]int{40, 50}),
			want: []intronSummary{
				{"rps16.1", 10, 20, genbank.Forward},
				{"rps16.2", 30, 40, genbank.Forward},
			},
		},
		{
			name: "reverse numbered from the 5' end",
			in:   joined("rps16", genbank.Reverse, [2]int{40, 50}, [2]int{20, 30}, [2]int{0, 10}),
			want: []intronSummary{
				{"rps16.2", 10, 20, genbank.Reverse},
				{"rps16.1", 30, 40, genbank.Reverse},
			},
		},
		{
			name: "unknown strand counts up",
			in:   joined("x", genbank.Unknown, [2]int{0, 10}, [2]int{20, 30}),
			want: []intronSummary{{"x.1", 10, 20, genbank.Unknown}},
		},
		{
			name: "overlapping parts stop derivation",
			in:   joined("ycf3", genbank.Forward, [2]int{0, 10}, [2]int{20, 30}, [2]int{25, 40}, [2]int{50, 60}),
			want: []intronSummary{{"ycf3.1", 10, 20, genbank.Forward}},
		},
		{
			name: "touching parts",
			in:   joined("ycf3", genbank.Forward, [2]int{0, 10}, [2]int{10, 30}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []intronSummary
			for _, in := range Introns([]Named{tt.in}) {
				got = append(got, intronSummary{in.ID, in.Location.Start(), in.Location.End(), in.Location.Strand()})
				if in.Type != genbank.TypeIntron {
					t.Errorf("%s type = %q", in.ID, in.Type)
				}
				if g, _ := in.Qualifier("gene"); g != tt.in.Name {
					t.Errorf("%s gene qualifier = %q", in.ID, g)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Introns() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestJoinIndexLastWriteWins(t *testing.T) {
	idx := newJoinIndex()
	idx.put("a", joined("a", genbank.Forward, [2]int{0, 1}, [2]int{5, 6}).Feature)
	idx.put("b", joined("b", genbank.Forward, [2]int{0, 1}, [2]int{5, 6}).Feature)
	idx.put("a", joined("a", genbank.Forward, [2]int{0, 1}, [2]int{9, 10}).Feature)

	got := idx.named()
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Fatalf("named() = %+v", got)
	}
	if end := got[0].Feature.Location.End(); end != 10 {
		t.Errorf("a end = %d, want the later feature's 10", end)
	}
}
