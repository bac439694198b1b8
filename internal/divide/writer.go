package divide

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/genbank"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/logging"
)

const (
	writerBufferSize = 1 << 20
	fastaWidth       = 60
)

// Output groups reported to a Recorder.
const (
	GroupByGene   = "by-gene"
	GroupExpanded = "expanded"
	GroupByName   = "by-name"
)

// Entry describes one written sequence.
type Entry struct {
	Group       string
	FeatureType string
	Name        string
	Accession   string
	Organism    string
	Length      int
}

// Recorder receives an Entry for every sequence the Decomposer writes.
type Recorder interface {
	Record(Entry)
}

// FileSet is a set of written file paths.
type FileSet map[string]struct{}

func (s FileSet) add(path string) { s[path] = struct{}{} }

// Sorted returns the paths in lexical order.
func (s FileSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Result summarises one divided input.
type Result struct {
	Records int
	Skipped int
	// Raw holds every record of the input in file order.
	Raw      string
	ByGene   FileSet
	Expanded FileSet
	// ByName excludes the Unknown record file.
	ByName FileSet
}

func newResult() Result {
	return Result{ByGene: FileSet{}, Expanded: FileSet{}, ByName: FileSet{}}
}

// Decomposer writes the decomposition of GenBank inputs into a Layout.
type Decomposer struct {
	Layout  Layout
	Options Options
	// NoDivide writes only the by-record and raw outputs.
	NoDivide bool
	Recorder Recorder
	// OnRecord is called after each record is written.
	OnRecord func()
}

// DivideFile decomposes every record of the GenBank file at path.
func (d *Decomposer) DivideFile(path string) (Result, error) {
	logging.Infof("Divide %s by annotation.", path)
	res := newResult()

	in, err := genbank.OpenInput(path)
	if err != nil {
		return res, fmt.Errorf("open input: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	res.Raw = filepath.Join(d.Layout.Raw, inputStem(path)+".fasta")
	out, err := os.Create(res.Raw)
	if err != nil {
		return res, fmt.Errorf("create raw output: %w", err)
	}
	buf := bufio.NewWriterSize(out, writerBufferSize)
	// Records written before a failure stay in the raw file.
	defer func() {
		_ = buf.Flush()
		_ = out.Close()
	}()
	raw := fasta.NewWriter(buf, fastaWidth)

	stats, err := genbank.Read(in, func(rec *genbank.Record) error {
		if err := d.divideRecord(rec, raw, &res); err != nil {
			return err
		}
		if d.OnRecord != nil {
			d.OnRecord()
		}
		return nil
	})
	res.Records, res.Skipped = stats.Read, stats.Skipped
	if err != nil {
		return res, err
	}
	if err := buf.Flush(); err != nil {
		return res, fmt.Errorf("flush raw output: %w", err)
	}
	logging.Infof("Divide finished.")
	return res, nil
}

func (d *Decomposer) divideRecord(rec *genbank.Record, raw *fasta.Writer, res *Result) error {
	dec := Decompose(rec, d.Options)
	if !d.NoDivide {
		for _, group := range [][]Named{dec.Genes, dec.Others, dec.Spacers, dec.Introns} {
			if err := d.writeFeatures(group, dec.Info, rec, res); err != nil {
				return err
			}
		}
	}

	id := strings.Join(append([]string{dec.Name}, dec.Info.Fields()...), "|")
	whole := linear.NewSeq(id, alphabet.BytesToLetters([]byte(rec.Seq)), alphabet.DNAredundant)

	byName := filepath.Join(d.Layout.ByName, dec.Name+".fasta")
	out, err := openAppend(byName)
	if err != nil {
		return err
	}
	_, err = fasta.NewWriter(out, fastaWidth).Write(whole)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", byName, err)
	}
	if dec.Name != UnknownName {
		res.ByName.add(byName)
	}
	d.record(GroupByName, "record", dec.Name, rec, len(rec.Seq))

	if _, err := raw.Write(whole); err != nil {
		return fmt.Errorf("write raw output: %w", err)
	}
	return nil
}

func (d *Decomposer) writeFeatures(features []Named, info SeqInfo, rec *genbank.Record, res *Result) error {
	if !d.Options.AllowRepeat {
		features = Dedupe(features)
	}
	for _, nf := range features {
		f := nf.Feature
		if f.Len() > d.Options.MaxSeqLen {
			logging.Debugf("Annotation of %s (Accession %s) is too long. Skip.", nf.Name, info.Accession)
			continue
		}
		header := ">" + strings.Join([]string{nf.Name, info.Taxon, info.Accession, info.Specimen, f.Type}, "|")
		fileName := f.Type + "-" + nf.Name + ".fasta"

		seq, ok := extract(nf.Name, f.Location, rec.Seq, info.Accession)
		path := filepath.Join(d.Layout.ByGene, fileName)
		if err := appendFasta(path, header, seq); err != nil {
			return err
		}
		res.ByGene.add(path)
		d.record(GroupByGene, f.Type, nf.Name, rec, len(seq))

		if d.Options.Expand == 0 || !ok {
			continue
		}
		loc := f.Location.Expand(d.Options.Expand, len(rec.Seq))
		seq, _ = extract(nf.Name, loc, rec.Seq, info.Accession)
		path = filepath.Join(d.Layout.Expanded, fileName)
		if err := appendFasta(path, header, seq); err != nil {
			return err
		}
		res.Expanded.add(path)
		d.record(GroupExpanded, f.Type, nf.Name, rec, len(seq))
	}
	return nil
}

func (d *Decomposer) record(group, typ, name string, rec *genbank.Record, length int) {
	if d.Recorder == nil {
		return
	}
	d.Recorder.Record(Entry{
		Group:       group,
		FeatureType: typ,
		Name:        name,
		Accession:   rec.Accession,
		Organism:    rec.Organism,
		Length:      length,
	})
}

// extract substitutes an empty sequence for locations outside the record; ok
// reports whether the location fit.
func extract(name string, loc genbank.Location, seq, accession string) (string, bool) {
	s, err := loc.Extract(seq)
	if err != nil {
		logging.Warnf("Cannot extract sequence of %s from %s.", name, accession)
		logging.Debugf("%v", err)
		return "", false
	}
	return s, true
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return f, nil
}

func appendFasta(path, header, seq string) error {
	f, err := openAppend(path)
	if err != nil {
		return err
	}
	_, err = f.WriteString(header + "\n" + seq + "\n")
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func inputStem(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base))
}
