package genbank

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/logging"
)

// ErrMalformedRecord is returned for blocks that cannot become a Record.
var ErrMalformedRecord = errors.New("malformed GenBank record")

const (
	featureIndent   = "     "
	qualifierIndent = "                     "
	headerWidth     = 12
)

// Stats counts what Read saw.
type Stats struct {
	Read    int
	Skipped int
}

// Read splits r on "//" terminators and calls onRecord for every block that
// parses. Malformed blocks are logged and skipped; an error from onRecord
// stops reading and is returned.
func Read(r io.Reader, onRecord func(*Record) error) (Stats, error) {
	var stats Stats
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 64*1024*1024)

	var block []string
	emit := func() error {
		lines := block
		block = nil
		if isBlank(lines) {
			return nil
		}
		rec, err := ParseRecord(lines)
		if err != nil {
			stats.Skipped++
			logging.Criticalf("\tFound problematic record %s: %v", preview(lines), err)
			return nil
		}
		stats.Read++
		return onRecord(rec)
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "//") {
			if err := emit(); err != nil {
				return stats, err
			}
			continue
		}
		block = append(block, strings.TrimRight(line, "\r"))
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scan genbank: %w", err)
	}
	if err := emit(); err != nil {
		return stats, err
	}
	if stats.Skipped != 0 {
		logging.Infof("\tRemove %d abnormal records.", stats.Skipped)
	}
	return stats, nil
}

// CountRecords counts "//" terminators; used to size progress bars.
func CountRecords(path string) (int, error) {
	in, err := OpenInput(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = in.Close()
	}()
	var count int
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "//") {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error {
	return r.close()
}

// OpenInput opens path, decompressing .gz files.
func OpenInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return readCloser{
			Reader: gz,
			close: func() error {
				_ = gz.Close()
				return f.Close()
			},
		}, nil
	}
	return f, nil
}

// ParseRecord parses the lines of one GenBank entry, without the "//" line.
func ParseRecord(lines []string) (*Record, error) {
	rec := &Record{}
	var (
		seenLocus bool
		section   string
		features  []string
		seq       strings.Builder
		lineage   []string
		inSource  bool
	)
	for _, line := range lines {
		if line == "" {
			continue
		}
		if line[0] != ' ' {
			key, value := splitHeader(line)
			section = key
			inSource = false
			switch key {
			case "LOCUS":
				fields := strings.Fields(value)
				if len(fields) > 0 {
					rec.Locus = fields[0]
				}
				seenLocus = true
			case "ACCESSION":
				if fields := strings.Fields(value); len(fields) > 0 {
					rec.Accession = fields[0]
				}
			}
			continue
		}
		switch section {
		case "SOURCE":
			key, value := splitHeader(line)
			if key == "ORGANISM" {
				rec.Organism = value
				inSource = true
				continue
			}
			if inSource && key == "" {
				lineage = append(lineage, value)
			}
		case "FEATURES":
			features = append(features, line)
		case "ORIGIN":
			for i := 0; i < len(line); i++ {
				c := line[i]
				switch {
				case c >= 'a' && c <= 'z':
					seq.WriteByte(c - 32)
				case c >= 'A' && c <= 'Z':
					seq.WriteByte(c)
				}
			}
		}
	}
	if !seenLocus {
		return nil, fmt.Errorf("%w: no LOCUS line", ErrMalformedRecord)
	}
	rec.Seq = seq.String()
	if rec.Seq == "" {
		return nil, fmt.Errorf("%w: %s has no sequence", ErrMalformedRecord, rec.Locus)
	}
	if rec.Accession == "" {
		rec.Accession = rec.Locus
	}
	rec.Taxonomy = splitLineage(strings.Join(lineage, " "))
	feats, err := parseFeatures(features)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, rec.Locus, err)
	}
	rec.Features = feats
	return rec, nil
}

func splitHeader(line string) (string, string) {
	if len(line) <= headerWidth {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(line[:headerWidth]), strings.TrimSpace(line[headerWidth:])
}

func splitLineage(s string) []string {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ";") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

type rawFeature struct {
	key        string
	location   strings.Builder
	qualifiers [][2]string
}

func parseFeatures(lines []string) ([]Feature, error) {
	var raws []*rawFeature
	var cur *rawFeature
	var qualKey string
	var qualValue strings.Builder
	inQualifier := false

	flushQualifier := func() {
		if cur != nil && inQualifier {
			cur.qualifiers = append(cur.qualifiers, [2]string{qualKey, qualValue.String()})
		}
		inQualifier = false
		qualValue.Reset()
	}

	for _, line := range lines {
		if strings.HasPrefix(line, featureIndent) && len(line) > len(featureIndent) && line[len(featureIndent)] != ' ' {
			flushQualifier()
			fields := strings.Fields(line)
			cur = &rawFeature{key: fields[0]}
			if len(fields) > 1 {
				cur.location.WriteString(strings.Join(fields[1:], ""))
			}
			raws = append(raws, cur)
			continue
		}
		if cur == nil {
			continue
		}
		text := strings.TrimSpace(line)
		if strings.HasPrefix(text, "/") && !(inQualifier && openQuote(qualValue.String())) {
			flushQualifier()
			key, value, hasValue := strings.Cut(text[1:], "=")
			qualKey = key
			inQualifier = true
			if hasValue {
				qualValue.WriteString(value)
			}
			continue
		}
		if inQualifier {
			if qualKey != "translation" {
				qualValue.WriteByte(' ')
			}
			qualValue.WriteString(text)
			continue
		}
		cur.location.WriteString(text)
	}
	flushQualifier()

	out := make([]Feature, 0, len(raws))
	for _, raw := range raws {
		loc, err := ParseLocation(raw.location.String())
		if err != nil {
			if raw.key == TypeSource {
				return nil, err
			}
			logging.Warnf("Skip %s feature with %v", raw.key, err)
			continue
		}
		f := Feature{
			Type:       raw.key,
			Location:   loc,
			Qualifiers: make(map[string][]string, len(raw.qualifiers)),
		}
		for _, q := range raw.qualifiers {
			f.Qualifiers[q[0]] = append(f.Qualifiers[q[0]], unquote(q[1]))
		}
		out = append(out, f)
	}
	return out, nil
}

// openQuote reports whether a qualifier value has an unterminated quote.
func openQuote(value string) bool {
	return strings.HasPrefix(value, `"`) && strings.Count(value, `"`)%2 == 1
}

func unquote(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		value = value[1 : len(value)-1]
	}
	return strings.ReplaceAll(value, `""`, `"`)
}

func isBlank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

func preview(lines []string) string {
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if len(l) > 25 {
			return l[:25]
		}
		return l
	}
	return ""
}
