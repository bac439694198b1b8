package genbank

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   []Range
		wantOp string
	}{
		{
			"simple",
			"100..500",
			[]Range{{99, 500, Forward}},
			"",
		},
		{
			"partial ends",
			"<1..>30",
			[]Range{{0, 30, Forward}},
			"",
		},
		{
			"single base",
			"7",
			[]Range{{6, 7, Forward}},
			"",
		},
		{
			"complement",
			"complement(10..20)",
			[]Range{{9, 20, Reverse}},
			"",
		},
		{
			"join",
			"join(1..10,21..30)",
			[]Range{{0, 10, Forward}, {20, 30, Forward}},
			"join",
		},
		{
			"complement of join is read in biological order",
			"complement(join(1..10,21..30))",
			[]Range{{20, 30, Reverse}, {0, 10, Reverse}},
			"join",
		},
		{
			"join of complements keeps written order",
			"join(complement(21..30),complement(1..10))",
			[]Range{{20, 30, Reverse}, {0, 10, Reverse}},
			"join",
		},
		{
			"whitespace from wrapped lines",
			"join(1..10, 21..30)",
			[]Range{{0, 10, Forward}, {20, 30, Forward}},
			"join",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.in)
			if err != nil {
				t.Fatalf("ParseLocation() error = %v", err)
			}
			if !reflect.DeepEqual(got.Parts, tt.want) {
				t.Errorf("ParseLocation() parts = %v, want %v", got.Parts, tt.want)
			}
			if got.Operator != tt.wantOp {
				t.Errorf("ParseLocation() operator = %q, want %q", got.Operator, tt.wantOp)
			}
		})
	}
}

func TestParseLocationErrors(t *testing.T) {
	for _, in := range []string{"", "20..10", "AB000001.1:1..10", "gap(100)", "x..y"} {
		if _, err := ParseLocation(in); err == nil {
			t.Errorf("ParseLocation(%q) returned no error", in)
		}
	}
}

func TestLocationGeometry(t *testing.T) {
	a := NewLocation(0, 10, Forward)
	b := NewLocation(20, 30, Forward)
	c := NewLocation(5, 25, Forward)

	if !a.Precedes(b) || b.Precedes(a) {
		t.Errorf("Precedes() wrong for %v and %v", a, b)
	}
	if a.Overlaps(b) {
		t.Errorf("Overlaps(%v, %v) = true", a, b)
	}
	if !a.Overlaps(c) || !c.Overlaps(b) {
		t.Errorf("Overlaps() = false for overlapping locations")
	}
	gap, ok := a.GapTo(b)
	if !ok || gap.Start() != 10 || gap.End() != 20 {
		t.Errorf("GapTo() = %v, %v; want [10,20)", gap, ok)
	}
	if _, ok := c.GapTo(b); ok {
		t.Errorf("GapTo() ok for overlapping locations")
	}

	join := Location{Parts: []Range{{40, 50, Forward}, {0, 10, Forward}, {20, 30, Forward}}, Operator: "join"}
	if join.Start() != 0 || join.End() != 50 || join.Len() != 30 {
		t.Errorf("join bounds = %d..%d len %d", join.Start(), join.End(), join.Len())
	}
	sorted := join.SortedParts()
	if sorted[0].Start != 0 || sorted[1].Start != 20 || sorted[2].Start != 40 {
		t.Errorf("SortedParts() = %v", sorted)
	}
	if join.Parts[0].Start != 40 {
		t.Errorf("SortedParts() modified the location")
	}
	if !join.IsJoin() || a.IsJoin() {
		t.Errorf("IsJoin() wrong")
	}
}

func TestLocationStrand(t *testing.T) {
	mixed := Location{Parts: []Range{{0, 10, Forward}, {20, 30, Reverse}}}
	if got := mixed.Strand(); got != Unknown {
		t.Errorf("Strand() = %v, want Unknown", got)
	}
	rev := Location{Parts: []Range{{0, 10, Reverse}, {20, 30, Reverse}}}
	if got := rev.Strand(); got != Reverse {
		t.Errorf("Strand() = %v, want Reverse", got)
	}
}

func TestExtract(t *testing.T) {
	seq := "AACCGGTTAC"
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{"forward", NewLocation(0, 4, Forward), "AACC"},
		{"reverse", NewLocation(0, 4, Reverse), "GGTT"},
		{"join in part order", Location{Parts: []Range{{8, 10, Forward}, {0, 2, Forward}}}, "ACAA"},
		{"reverse join", Location{Parts: []Range{{8, 10, Reverse}, {0, 2, Reverse}}}, "GTTT"},
		{"empty", NewLocation(3, 3, Forward), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.loc.Extract(seq)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractOutOfBounds(t *testing.T) {
	_, err := NewLocation(5, 20, Forward).Extract("ACGT")
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Extract() error = %v, want ErrOutOfBounds", err)
	}
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) || extractErr.SeqLen != 4 {
		t.Errorf("Extract() error = %#v", err)
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name   string
		loc    Location
		amount int
		bound  int
		want   []Range
	}{
		{
			"simple",
			NewLocation(10, 20, Forward),
			5, 100,
			[]Range{{5, 25, Forward}},
		},
		{
			"clipped",
			NewLocation(2, 98, Forward),
			5, 100,
			[]Range{{0, 100, Forward}},
		},
		{
			"join pads only the outermost parts",
			Location{Parts: []Range{{10, 20, Forward}, {30, 40, Forward}, {50, 60, Forward}}, Operator: "join"},
			5, 100,
			[]Range{{5, 20, Forward}, {30, 40, Forward}, {50, 65, Forward}},
		},
		{
			"reverse join keeps part order",
			Location{Parts: []Range{{50, 60, Reverse}, {10, 20, Reverse}}, Operator: "join"},
			5, 100,
			[]Range{{50, 65, Reverse}, {5, 20, Reverse}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.loc.Expand(tt.amount, tt.bound)
			if !reflect.DeepEqual(got.Parts, tt.want) {
				t.Errorf("Expand() = %v, want %v", got.Parts, tt.want)
			}
			if got.Operator != tt.loc.Operator {
				t.Errorf("Expand() operator = %q, want %q", got.Operator, tt.loc.Operator)
			}
		})
	}

	orig := NewLocation(10, 20, Forward)
	_ = orig.Expand(5, 100)
	if orig.Parts[0].Start != 10 {
		t.Errorf("Expand() mutated its receiver")
	}
}
