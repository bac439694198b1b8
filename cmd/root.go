package cmd

import (
	"fmt"
	"os"
)

func Execute(args []string) {
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "gb2fasta":
		runGB2Fasta(args[1:])
	case "download":
		runDownload(args[1:])
	case "divide":
		runDivide(args[1:])
	case "unique":
		runUnique(args[1:])
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "gb2fasta - split GenBank records into per-feature FASTA files")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  gb2fasta <command> [options]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  gb2fasta   Full pipeline: download (optional) -> divide -> unique")
	fmt.Fprintln(os.Stderr, "  download   Download GenBank records matching a query")
	fmt.Fprintln(os.Stderr, "  divide     Split GenBank files by annotation")
	fmt.Fprintln(os.Stderr, "  unique     Keep one sequence per species in FASTA files")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run 'gb2fasta <command> -h' for command-specific options.")
}
