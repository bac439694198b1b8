package genbank

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errLocation = errors.New("bad location")

// ParseLocation converts a GenBank location string (1-based, inclusive) into a
// Location (0-based, half-open).
func ParseLocation(s string) (Location, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return Location{}, fmt.Errorf("%w: empty", errLocation)
	}
	parts, op, err := parseLocationExpr(s)
	if err != nil {
		return Location{}, fmt.Errorf("%w %q: %v", errLocation, s, err)
	}
	return Location{Parts: parts, Operator: op}, nil
}

func parseLocationExpr(s string) ([]Range, string, error) {
	switch {
	case strings.HasPrefix(s, "complement(") && strings.HasSuffix(s, ")"):
		parts, op, err := parseLocationExpr(s[len("complement(") : len(s)-1])
		if err != nil {
			return nil, "", err
		}
		out := make([]Range, len(parts))
		for i, p := range parts {
			p.Strand = -p.Strand
			out[len(parts)-1-i] = p
		}
		return out, op, nil
	case strings.HasPrefix(s, "join(") && strings.HasSuffix(s, ")"):
		parts, err := parseLocationList(s[len("join(") : len(s)-1])
		return parts, "join", err
	case strings.HasPrefix(s, "order(") && strings.HasSuffix(s, ")"):
		parts, err := parseLocationList(s[len("order(") : len(s)-1])
		return parts, "order", err
	}
	r, err := parseRange(s)
	if err != nil {
		return nil, "", err
	}
	return []Range{r}, "", nil
}

func parseLocationList(s string) ([]Range, error) {
	var parts []Range
	for _, item := range splitOuterCommas(s) {
		sub, _, err := parseLocationExpr(item)
		if err != nil {
			return nil, err
		}
		parts = append(parts, sub...)
	}
	if len(parts) == 0 {
		return nil, errors.New("empty list")
	}
	return parts, nil
}

func parseRange(s string) (Range, error) {
	if strings.ContainsAny(s, ":()") {
		return Range{}, fmt.Errorf("unsupported location %q", s)
	}
	if a, b, ok := strings.Cut(s, ".."); ok {
		start, err := parsePosition(a)
		if err != nil {
			return Range{}, err
		}
		end, err := parsePosition(b)
		if err != nil {
			return Range{}, err
		}
		if end < start {
			return Range{}, fmt.Errorf("end %d before start %d", end, start)
		}
		return Range{Start: start - 1, End: end, Strand: Forward}, nil
	}
	if a, _, ok := strings.Cut(s, "^"); ok {
		pos, err := parsePosition(a)
		if err != nil {
			return Range{}, err
		}
		return Range{Start: pos, End: pos, Strand: Forward}, nil
	}
	pos, err := parsePosition(s)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: pos - 1, End: pos, Strand: Forward}, nil
}

func parsePosition(s string) (int, error) {
	s = strings.TrimLeft(s, "<>")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("position %q: %w", s, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("position %d out of range", n)
	}
	return n, nil
}

// splitOuterCommas splits on commas that are not inside parentheses.
func splitOuterCommas(s string) []string {
	var fields []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				fields = append(fields, s[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, s[start:])
}
