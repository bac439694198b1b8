package unique

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

type fastaRecord struct {
	header string
	seq    []byte
}

// parseFasta streams records to onRecord. Sequence lines are joined without
// whitespace; the header keeps everything after '>'.
func parseFasta(r io.Reader, onRecord func(fastaRecord) error) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 64*1024*1024)

	var header string
	var seq bytes.Buffer
	inRecord := false
	emit := func() error {
		if !inRecord {
			return nil
		}
		rec := fastaRecord{
			header: header,
			seq:    append([]byte(nil), seq.Bytes()...),
		}
		seq.Reset()
		header, inRecord = "", false
		return onRecord(rec)
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			if err := emit(); err != nil {
				return err
			}
			header, inRecord = strings.TrimSpace(line[1:]), true
			continue
		}
		seq.WriteString(strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan fasta: %w", err)
	}
	return emit()
}

// speciesKey groups records of one species: genus and species from a
// decomposer header, or the whole id otherwise.
func speciesKey(header string) string {
	id := header
	if i := strings.IndexAny(id, " \t"); i >= 0 {
		id = id[:i]
	}
	if !strings.Contains(id, "|") {
		return id
	}
	fields := strings.Split(id, "|")
	lo, hi := min(6, len(fields)), min(8, len(fields))
	return strings.Join(fields[lo:hi], " ")
}
