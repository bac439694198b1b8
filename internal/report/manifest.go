// Package report collects every sequence written by a run and stores the list
// as a parquet table.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/divide"
)

var schema = arrow.NewSchema([]arrow.Field{
	{Name: "group", Type: arrow.BinaryTypes.String},
	{Name: "feature_type", Type: arrow.BinaryTypes.String},
	{Name: "name", Type: arrow.BinaryTypes.String},
	{Name: "accession", Type: arrow.BinaryTypes.String},
	{Name: "organism", Type: arrow.BinaryTypes.String},
	{Name: "length", Type: arrow.PrimitiveTypes.Int64},
	{Name: "expanded", Type: arrow.FixedWidthTypes.Boolean},
}, nil)

// Manifest is a divide.Recorder that keeps entries in memory.
type Manifest struct {
	entries []divide.Entry
}

func (m *Manifest) Record(e divide.Entry) {
	m.entries = append(m.entries, e)
}

func (m *Manifest) Len() int { return len(m.entries) }

// Groups counts entries per output group.
func (m *Manifest) Groups() map[string]int {
	out := make(map[string]int)
	for _, e := range m.entries {
		out[e.Group]++
	}
	return out
}

// Names returns the distinct feature names of group, sorted.
func (m *Manifest) Names(group string) []string {
	seen := make(map[string]struct{})
	for _, e := range m.entries {
		if e.Group == group {
			seen[e.Name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (m *Manifest) record(mem memory.Allocator) arrow.Record {
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	group := b.Field(0).(*array.StringBuilder)
	typ := b.Field(1).(*array.StringBuilder)
	name := b.Field(2).(*array.StringBuilder)
	acc := b.Field(3).(*array.StringBuilder)
	org := b.Field(4).(*array.StringBuilder)
	length := b.Field(5).(*array.Int64Builder)
	expanded := b.Field(6).(*array.BooleanBuilder)
	for _, e := range m.entries {
		group.Append(e.Group)
		typ.Append(e.FeatureType)
		name.Append(e.Name)
		acc.Append(e.Accession)
		org.Append(e.Organism)
		length.Append(int64(e.Length))
		expanded.Append(e.Group == divide.GroupExpanded)
	}
	return b.NewRecord()
}

// WriteParquet stores the manifest at path with snappy compression.
func (m *Manifest) WriteParquet(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	w, err := pqarrow.NewFileWriter(schema, f, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("open parquet writer: %w", err)
	}
	rec := m.record(memory.DefaultAllocator)
	defer rec.Release()
	if err := w.Write(rec); err != nil {
		_ = w.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close manifest: %w", err)
	}
	return nil
}
