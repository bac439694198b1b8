package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/klauspost/pgzip"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/divide"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/entrez"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/logging"
)

const writerBufferSize = 1 << 20

func runDownload(args []string) {
	cfg := defaultConfig()
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	bindCommonFlags(fs, &cfg)
	bindQueryFlags(fs, &cfg)
	fs.BoolVar(&cfg.Progress, "progress", cfg.Progress, "Show progress bar")
	parseConfig(fs, &cfg, args)

	term := queryTerm(&cfg)
	if term == "" {
		fatalf("Empty query.")
	}
	layout := divide.NewLayout(cfg.Out)
	if err := layout.Init(cfg.Force); err != nil {
		fatalf("init output failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	path, err := downloadRecords(ctx, &cfg, layout, term)
	if err != nil {
		fatalf("download failed: %v", err)
	}
	logging.Infof("Records saved to %s", path)
}

// queryTerm returns the Entrez term of cfg, logging how the options were read.
func queryTerm(cfg *gbConfig) string {
	if cfg.Query.Text != "" {
		logging.Warnf("Query string is not empty, ignore other options.")
	} else if cfg.Query.LengthReset() {
		logging.Infof("Reset the limitation of sequence length for RefSeq.")
	}
	return cfg.Query.String()
}

// downloadRecords saves the records matching term under layout.GenBank and
// dumps the search result to layout.Temp. A failed download leaves no file.
func downloadRecords(ctx context.Context, cfg *gbConfig, layout divide.Layout, term string) (string, error) {
	client := entrez.NewClient(cfg.Email)
	client.SeqN = cfg.SeqN

	q := cfg.Query
	path := filepath.Join(layout.GenBank, entrez.FileName(q.Group, q.Taxon, q.Organelle, q.Gene, q.Text))
	if cfg.Gzip {
		path += ".gz"
	}

	res, err := writeDownload(ctx, client, term, path, cfg.Gzip, cfg.Progress)
	if err != nil {
		_ = os.Remove(path)
		logging.Infof("Abort download.")
		return "", err
	}

	jsonPath := filepath.Join(layout.Temp, "Query.json")
	if err := writeJSON(jsonPath, res); err != nil {
		return path, err
	}
	logging.Infof("The query info was dumped into %s", jsonPath)
	return path, nil
}

func writeDownload(ctx context.Context, client *entrez.Client, term, path string, gzipOut, progressOn bool) (entrez.SearchResult, error) {
	f, err := os.Create(path)
	if err != nil {
		return entrez.SearchResult{}, fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var gz *pgzip.Writer
	var sink io.Writer = f
	if gzipOut {
		gz, err = pgzip.NewWriterLevel(f, pgzip.DefaultCompression)
		if err != nil {
			return entrez.SearchResult{}, fmt.Errorf("create gzip writer: %w", err)
		}
		if err := gz.SetConcurrency(1<<20, runtime.GOMAXPROCS(0)); err != nil {
			_ = gz.Close()
			return entrez.SearchResult{}, fmt.Errorf("set gzip concurrency: %w", err)
		}
		sink = gz
	}
	buf := bufio.NewWriterSize(sink, writerBufferSize)

	bar := newProgress(-1, progressOn, "download")
	client.OnPage = bar.add
	logging.Warnf("\tMay be slow if connection is bad. Ctrl+C to quit.")
	res, err := client.Download(ctx, term, buf)
	bar.finish()
	if err != nil {
		if gz != nil {
			_ = gz.Close()
		}
		return res, err
	}

	if err := buf.Flush(); err != nil {
		return res, fmt.Errorf("flush %s: %w", path, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return res, fmt.Errorf("close gzip writer: %w", err)
		}
	}
	return res, f.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
