package cmd

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/divide"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/unique"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestApplyConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gb2fasta.yaml")
	writeFile(t, path, "expand: 200\nmax_seq_len: 5000\nrename: true\nunique: longest\ngb:\n  - a.gb\n  - b.gb.gz\n")

	cfg := defaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	bindCommonFlags(fs, &cfg)
	bindDivideFlags(fs, &cfg)
	bindUniqueFlag(fs, &cfg)
	if err := fs.Parse([]string{"-expand", "50"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := applyConfig(fs, path); err != nil {
		t.Fatalf("applyConfig: %v", err)
	}

	if cfg.Options.Expand != 50 {
		t.Errorf("expand = %d, want command line value 50", cfg.Options.Expand)
	}
	if cfg.Options.MaxSeqLen != 5000 {
		t.Errorf("max_seq_len = %d, want 5000", cfg.Options.MaxSeqLen)
	}
	if !cfg.Options.Rename {
		t.Error("rename not set from config")
	}
	if cfg.Unique != string(unique.Longest) {
		t.Errorf("unique = %q, want %q", cfg.Unique, unique.Longest)
	}
	if want := []string{"a.gb", "b.gb.gz"}; !reflect.DeepEqual([]string(cfg.Inputs), want) {
		t.Errorf("gb = %v, want %v", cfg.Inputs, want)
	}
}

func TestApplyConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "colour: red\n"},
		{"nested config", "config: other.yaml\n"},
		{"bad value", "expand: many\n"},
		{"not yaml", "expand: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			writeFile(t, path, tt.content)
			cfg := defaultConfig()
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			bindCommonFlags(fs, &cfg)
			bindDivideFlags(fs, &cfg)
			if err := fs.Parse(nil); err != nil {
				t.Fatalf("parse: %v", err)
			}
			if err := applyConfig(fs, path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestListFasta(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"rbcL.fasta", "Unknown.fasta", "matK.fasta", "notes.txt"} {
		writeFile(t, filepath.Join(dir, name), ">x\nACGT\n")
	}
	got, err := listFasta(dir)
	if err != nil {
		t.Fatalf("listFasta: %v", err)
	}
	want := []string{filepath.Join(dir, "matK.fasta"), filepath.Join(dir, "rbcL.fasta")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("listFasta = %v, want %v", got, want)
	}
}

func TestUniqueSources(t *testing.T) {
	layout := divide.NewLayout(t.TempDir())
	if err := layout.Init(true); err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, filepath.Join(layout.ByGene, "gene-rbcL.fasta"), ">a\nACGT\n")
	writeFile(t, filepath.Join(layout.Expanded, "gene-matK.fasta"), ">a\nACGT\n")
	writeFile(t, filepath.Join(layout.ByName, "rbcL-matK.fasta"), ">a\nACGT\n")

	tests := []struct {
		name     string
		noDivide bool
		expand   int
		strategy unique.Strategy
		want     string
	}{
		{"skip unique", false, 100, unique.No, filepath.Join(layout.ByGene, "gene-rbcL.fasta")},
		{"no divide", true, 0, unique.First, filepath.Join(layout.ByName, "rbcL-matK.fasta")},
		{"no expand", false, 0, unique.First, filepath.Join(layout.ByGene, "gene-rbcL.fasta")},
		{"expanded", false, 100, unique.Longest, filepath.Join(layout.Expanded, "gene-matK.fasta")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.NoDivide = tt.noDivide
			cfg.Options.Expand = tt.expand
			got, err := uniqueSources(&cfg, layout, tt.strategy)
			if err != nil {
				t.Fatalf("uniqueSources: %v", err)
			}
			if !reflect.DeepEqual(got, []string{tt.want}) {
				t.Errorf("uniqueSources = %v, want [%s]", got, tt.want)
			}
		})
	}
}
