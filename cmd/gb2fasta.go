package cmd

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/divide"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/entrez"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/logging"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/unique"
)

func runGB2Fasta(args []string) {
	cfg := defaultConfig()
	fs := flag.NewFlagSet("gb2fasta", flag.ExitOnError)
	bindCommonFlags(fs, &cfg)
	bindDivideFlags(fs, &cfg)
	bindQueryFlags(fs, &cfg)
	bindUniqueFlag(fs, &cfg)
	parseConfig(fs, &cfg, args)

	logging.Infof("Running gb2fasta module...")
	term := queryTerm(&cfg)
	if len(cfg.Inputs) == 0 && term == "" {
		fatalf("Empty input.")
	}
	logging.Infof("Input genbank files:\t%v", []string(cfg.Inputs))
	logging.Infof("Query: %s", term)
	cfg.logNotices()

	layout := divide.NewLayout(cfg.Out)
	if err := layout.Init(cfg.Force); err != nil {
		fatalf("init output failed: %v", err)
	}

	if term != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		path, err := downloadRecords(ctx, &cfg, layout, term)
		stop()
		switch {
		case errors.Is(err, entrez.ErrNoRecords), errors.Is(err, entrez.ErrTooManyFailures):
			logging.Warnf("Continue without downloaded records.")
		case err != nil:
			fatalf("download failed: %v", err)
		default:
			cfg.Inputs = append(cfg.Inputs, path)
		}
	}
	if len(cfg.Inputs) == 0 {
		fatalf("Empty input.")
	}

	if _, err := divideInputs(&cfg, layout); err != nil {
		fatalf("divide failed: %v", err)
	}

	strategy, _ := unique.ParseStrategy(cfg.Unique)
	sources, err := uniqueSources(&cfg, layout, strategy)
	if err != nil {
		fatalf("list outputs failed: %v", err)
	}
	if strategy == unique.No {
		logging.Infof("Skip removing redundant sequences.")
	}
	stats, files, err := unique.Files(sources, layout.Unique, strategy)
	if err != nil {
		fatalf("unique failed: %v", err)
	}
	if strategy != unique.No {
		if err := unique.WriteReport(filepath.Join(layout.Temp, "unique.json"), stats); err != nil {
			fatalf("write report failed: %v", err)
		}
	}
	logging.Infof("GB2fasta module finished. %d files in %s", len(files), layout.Unique)
}

// uniqueSources picks the directory whose files feed redundancy removal.
func uniqueSources(cfg *gbConfig, layout divide.Layout, strategy unique.Strategy) ([]string, error) {
	switch {
	case strategy == unique.No:
		return listFasta(layout.ByGene)
	case cfg.NoDivide:
		return listFasta(layout.ByName)
	case cfg.Options.Expand == 0:
		return listFasta(layout.ByGene)
	default:
		return listFasta(layout.Expanded)
	}
}
