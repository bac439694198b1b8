package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/divide"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/logging"
)

func fatalf(format string, args ...any) {
	logging.Errorf(format, args...)
	os.Exit(1)
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// listFasta returns the FASTA files of dir except the Unknown record file.
func listFasta(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.fasta"))
	if err != nil {
		return nil, err
	}
	out := files[:0]
	for _, f := range files {
		if filepath.Base(f) != divide.UnknownName+".fasta" {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out, nil
}

// applyConfig reads a YAML mapping of flag names to values and sets every
// flag not given on the command line. Lists set a repeatable flag once per
// item.
func applyConfig(fs *flag.FlagSet, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		if key == "config" || fs.Lookup(key) == nil {
			errs = append(errs, fmt.Errorf("unknown config key %q", key))
			continue
		}
		if explicit[key] {
			logging.Debugf("Option -%s given on the command line overrides %s.", key, path)
			continue
		}
		items, ok := values[key].([]any)
		if !ok {
			items = []any{values[key]}
		}
		for _, item := range items {
			if err := fs.Set(key, fmt.Sprint(item)); err != nil {
				errs = append(errs, fmt.Errorf("config key %q: %w", key, err))
			}
		}
	}
	return errors.Join(errs...)
}
