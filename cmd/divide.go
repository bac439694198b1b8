package cmd

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/divide"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/genbank"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/logging"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/report"
)

func runDivide(args []string) {
	cfg := defaultConfig()
	fs := flag.NewFlagSet("divide", flag.ExitOnError)
	bindCommonFlags(fs, &cfg)
	bindDivideFlags(fs, &cfg)
	parseConfig(fs, &cfg, args)

	if len(cfg.Inputs) == 0 {
		fatalf("Empty input.")
	}
	layout := divide.NewLayout(cfg.Out)
	if err := layout.Init(cfg.Force); err != nil {
		fatalf("init output failed: %v", err)
	}
	cfg.logNotices()
	if _, err := divideInputs(&cfg, layout); err != nil {
		fatalf("divide failed: %v", err)
	}
}

// divideInputs decomposes every input of cfg into layout. It stops at the
// first input that cannot be processed.
func divideInputs(cfg *gbConfig, layout divide.Layout) ([]divide.Result, error) {
	total := -1
	if cfg.Progress {
		total = 0
		for _, in := range cfg.Inputs {
			n, err := genbank.CountRecords(in)
			if err != nil {
				return nil, fmt.Errorf("count records: %w", err)
			}
			total += n
		}
	}
	bar := newProgress(total, cfg.Progress, "divide")
	defer bar.finish()

	manifest := &report.Manifest{}
	d := &divide.Decomposer{
		Layout:   layout,
		Options:  cfg.Options,
		NoDivide: cfg.NoDivide,
		Recorder: manifest,
		OnRecord: bar.increment,
	}
	results := make([]divide.Result, 0, len(cfg.Inputs))
	for _, in := range cfg.Inputs {
		res, err := d.DivideFile(in)
		if err != nil {
			return results, fmt.Errorf("divide %s: %w", in, err)
		}
		results = append(results, res)
	}

	groups := manifest.Groups()
	logging.Infof("Wrote %d feature sequences (%d names), %d expanded, %d records.",
		groups[divide.GroupByGene], len(manifest.Names(divide.GroupByGene)),
		groups[divide.GroupExpanded], groups[divide.GroupByName])
	if cfg.Manifest {
		path := filepath.Join(layout.Root, "manifest.parquet")
		if err := manifest.WriteParquet(path); err != nil {
			return results, err
		}
		logging.Infof("Manifest written to %s", path)
	}
	return results, nil
}
