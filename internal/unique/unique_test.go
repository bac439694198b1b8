package unique

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const divided = `>rbcL|Viridiplantae|Streptophyta|Magnoliopsida|Poales|Poaceae|Oryza|sativa|AB1||gene
ACGT
>rbcL|Viridiplantae|Streptophyta|Magnoliopsida|Poales|Poaceae|Oryza|sativa|AB2||gene
ACGTACGTAC
>rbcL|Viridiplantae|Streptophyta|Magnoliopsida|Poales|Poaceae|Oryza|rufipogon|AB3||gene

>rbcL|Viridiplantae|Streptophyta|Magnoliopsida|Poales|Poaceae|Oryza|rufipogon|AB4||gene
ACG
TTA
>rbcL|Viridiplantae|Streptophyta|Magnoliopsida|Poales|Poaceae|Zea|mays|AB5||gene
AAAAAA
>rbcL|Viridiplantae|Streptophyta|Magnoliopsida|Poales|Poaceae|Oryza|sativa|AB6||gene
ACGTACGTAC
`

func accessions(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = f.Close()
	}()
	var out []string
	err = parseFasta(f, func(rec fastaRecord) error {
		out = append(out, strings.Split(rec.header, "|")[8])
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestFiles(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     []string
		kept     int
	}{
		{First, []string{"AB1", "AB4", "AB5"}, 3},
		{Longest, []string{"AB2", "AB4", "AB5"}, 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			dir := t.TempDir()
			in := filepath.Join(dir, "gene-rbcL.fasta")
			if err := os.WriteFile(in, []byte(divided), 0o644); err != nil {
				t.Fatal(err)
			}
			stats, outs, err := Files([]string{in}, filepath.Join(dir, "unique"), tt.strategy)
			if err != nil {
				t.Fatalf("Files() error = %v", err)
			}
			if want := filepath.Join(dir, "unique", "gene-rbcL.fasta"); len(outs) != 1 || outs[0] != want {
				t.Fatalf("outputs = %v", outs)
			}
			wantStats := Stats{Files: 1, Total: 6, Kept: tt.kept, Empty: 1}
			if stats != wantStats {
				t.Errorf("stats = %+v, want %+v", stats, wantStats)
			}
			if got := accessions(t, outs[0]); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("kept %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilesNoCopies(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.fasta")
	if err := os.WriteFile(in, []byte(divided), 0o644); err != nil {
		t.Fatal(err)
	}
	_, outs, err := Files([]string{in}, filepath.Join(dir, "out"), No)
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	got, err := os.ReadFile(outs[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != divided {
		t.Errorf("copy differs from input")
	}
}

func TestFilesRefusesInPlace(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.fasta")
	if err := os.WriteFile(in, []byte(divided), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Files([]string{in}, dir, First); err == nil {
		t.Fatal("Files() overwrote its input")
	}
}

func TestSpeciesKey(t *testing.T) {
	tests := map[string]string{
		"rbcL|K|P|C|O|F|Oryza|sativa|AB1||gene": "Oryza sativa",
		"rbcL|K|P|C|O|F|Oryza":                  "Oryza",
		"rbcL|K":                                "",
		"plain_id some description":             "plain_id",
	}
	for in, want := range tests {
		if got := speciesKey(in); got != want {
			t.Errorf("speciesKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"first", "longest", "no"} {
		if _, err := ParseStrategy(s); err != nil {
			t.Errorf("ParseStrategy(%q) error = %v", s, err)
		}
	}
	if _, err := ParseStrategy("shortest"); err == nil {
		t.Error("ParseStrategy(shortest) succeeded")
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp", "unique.json")
	if err := WriteReport(path, Stats{Files: 2, Total: 5, Kept: 3}); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), `"kept": 3`) {
		t.Errorf("report = %s", got)
	}
}
