package cmd

import (
	"flag"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/logging"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/unique"
)

func runUnique(args []string) {
	cfg := defaultConfig()
	cfg.Out = "unique"
	var reportPath string
	fs := flag.NewFlagSet("unique", flag.ExitOnError)
	fs.Var(&cfg.Inputs, "fasta", "Input FASTA file (repeatable)")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "Output directory")
	fs.StringVar(&cfg.Config, "config", "", "YAML file of option values; command line flags take precedence")
	fs.BoolVar(&cfg.Debug, "debug", false, "Print debug messages")
	fs.StringVar(&reportPath, "report", "", "Optional JSON report output path")
	bindUniqueFlag(fs, &cfg)
	parseConfig(fs, &cfg, args)

	if len(cfg.Inputs) == 0 {
		fatalf("Empty input.")
	}
	strategy, _ := unique.ParseStrategy(cfg.Unique)
	stats, files, err := unique.Files(cfg.Inputs, cfg.Out, strategy)
	if err != nil {
		fatalf("unique failed: %v", err)
	}
	if reportPath != "" {
		if err := unique.WriteReport(reportPath, stats); err != nil {
			fatalf("write report failed: %v", err)
		}
	}
	logging.Infof("Wrote %d files to %s", len(files), cfg.Out)
}
