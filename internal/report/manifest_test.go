package report

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/apache/arrow/go/v18/parquet/file"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/divide"
)

func sampleManifest() *Manifest {
	m := &Manifest{}
	m.Record(divide.Entry{Group: divide.GroupByGene, FeatureType: "gene", Name: "rbcL", Accession: "A1", Organism: "Oryza sativa", Length: 400})
	m.Record(divide.Entry{Group: divide.GroupByGene, FeatureType: "spacer", Name: "rbcL-matK", Accession: "A1", Organism: "Oryza sativa", Length: 20})
	m.Record(divide.Entry{Group: divide.GroupExpanded, FeatureType: "gene", Name: "rbcL", Accession: "A1", Organism: "Oryza sativa", Length: 600})
	m.Record(divide.Entry{Group: divide.GroupByName, FeatureType: "record", Name: "rbcL-matK", Accession: "A1", Organism: "Oryza sativa", Length: 1000})
	return m
}

func TestManifestSummaries(t *testing.T) {
	m := sampleManifest()
	if m.Len() != 4 {
		t.Errorf("Len() = %d", m.Len())
	}
	want := map[string]int{divide.GroupByGene: 2, divide.GroupExpanded: 1, divide.GroupByName: 1}
	if got := m.Groups(); !reflect.DeepEqual(got, want) {
		t.Errorf("Groups() = %v, want %v", got, want)
	}
	if got := m.Names(divide.GroupByGene); !reflect.DeepEqual(got, []string{"rbcL", "rbcL-matK"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestWriteParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp", "manifest.parquet")
	if err := sampleManifest().WriteParquet(path); err != nil {
		t.Fatalf("WriteParquet() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	magic := []byte("PAR1")
	if !bytes.HasPrefix(data, magic) || !bytes.HasSuffix(data, magic) {
		t.Fatalf("not a parquet file (%d bytes)", len(data))
	}

	rdr, err := file.OpenParquetFile(path, false)
	if err != nil {
		t.Fatalf("OpenParquetFile() error = %v", err)
	}
	defer func() {
		_ = rdr.Close()
	}()
	if rdr.NumRows() != 4 {
		t.Errorf("rows = %d, want 4", rdr.NumRows())
	}
	if n := rdr.MetaData().Schema.NumColumns(); n != 7 {
		t.Errorf("columns = %d, want 7", n)
	}
}

func TestWriteParquetEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.parquet")
	if err := (&Manifest{}).WriteParquet(path); err != nil {
		t.Fatalf("WriteParquet() error = %v", err)
	}
}
