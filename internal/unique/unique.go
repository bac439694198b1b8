// Package unique removes redundant sequences of the same species from FASTA
// files written by the decomposer.
package unique

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/logging"
)

const (
	writerBufferSize = 1 << 20
	fastaWidth       = 60
)

// Strategy selects which record of a species is kept.
type Strategy string

const (
	First   Strategy = "first"
	Longest Strategy = "longest"
	No      Strategy = "no"
)

func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case First, Longest, No:
		return st, nil
	}
	return "", fmt.Errorf("unknown unique strategy %q (choose from first, longest, no)", s)
}

// Stats counts records over all processed files.
type Stats struct {
	Files int `json:"files"`
	Total int `json:"total"`
	Kept  int `json:"kept"`
	Empty int `json:"empty"`
}

// Files writes a filtered copy of every input into outDir under the same base
// name and returns the output paths in input order. Empty sequences are never
// kept, except with No, which copies inputs unchanged.
func Files(paths []string, outDir string, strategy Strategy) (Stats, []string, error) {
	var stats Stats
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return stats, nil, fmt.Errorf("create output dir: %w", err)
	}
	outputs := make([]string, 0, len(paths))
	for _, path := range paths {
		out := filepath.Join(outDir, filepath.Base(path))
		if samePath(path, out) {
			return stats, outputs, fmt.Errorf("%s: input is inside the output directory", path)
		}
		var err error
		if strategy == No {
			err = copyFile(path, out)
		} else {
			err = filterFile(path, out, strategy, &stats)
		}
		if err != nil {
			return stats, outputs, err
		}
		stats.Files++
		outputs = append(outputs, out)
	}
	if strategy != No {
		logging.Infof("unique: files=%d total=%d kept=%d empty=%d", stats.Files, stats.Total, stats.Kept, stats.Empty)
	}
	return stats, outputs, nil
}

type candidate struct {
	index  int
	length int
}

func filterFile(path, outPath string, strategy Strategy, stats *Stats) error {
	best := make(map[string]candidate)
	index := 0
	err := readFasta(path, func(rec fastaRecord) error {
		stats.Total++
		defer func() { index++ }()
		if len(rec.seq) == 0 {
			stats.Empty++
			return nil
		}
		key := speciesKey(rec.header)
		cur, seen := best[key]
		if !seen || (strategy == Longest && len(rec.seq) > cur.length) {
			best[key] = candidate{index: index, length: len(rec.seq)}
		}
		return nil
	})
	if err != nil {
		return err
	}
	keep := make(map[int]struct{}, len(best))
	for _, c := range best {
		keep[c.index] = struct{}{}
	}
	stats.Kept += len(keep)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()
	buf := bufio.NewWriterSize(out, writerBufferSize)
	w := fasta.NewWriter(buf, fastaWidth)

	index = 0
	err = readFasta(path, func(rec fastaRecord) error {
		defer func() { index++ }()
		if _, ok := keep[index]; !ok {
			return nil
		}
		s := linear.NewSeq(rec.header, alphabet.BytesToLetters(rec.seq), alphabet.DNAredundant)
		if _, err := w.Write(s); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", outPath, err)
	}
	return out.Close()
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func readFasta(path string, onRecord func(fastaRecord) error) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()
	if err := parseFasta(in, onRecord); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}

// WriteReport writes stats as indented JSON.
func WriteReport(path string, stats Stats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
