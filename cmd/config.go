package cmd

import (
	"errors"
	"flag"

	"github.com/KTest-VN/BarcodeFinder-OGU/internal/divide"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/entrez"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/logging"
	"github.com/KTest-VN/BarcodeFinder-OGU/internal/unique"
)

type gbConfig struct {
	Inputs   stringList
	Out      string
	Options  divide.Options
	NoDivide bool
	Unique   string
	Query    entrez.Query
	Email    string
	SeqN     int
	Gzip     bool
	Config   string
	Progress bool
	Force    bool
	Debug    bool
	Manifest bool
}

func defaultConfig() gbConfig {
	return gbConfig{
		Out:     "Result",
		Options: divide.DefaultOptions(),
		Unique:  string(unique.First),
		Query: entrez.Query{
			Group:     "all",
			Molecular: "all",
			Organelle: "no",
			MinLen:    100,
			MaxLen:    10000,
		},
		Progress: true,
	}
}

func bindCommonFlags(fs *flag.FlagSet, cfg *gbConfig) {
	fs.StringVar(&cfg.Out, "out", cfg.Out, "Output directory")
	fs.StringVar(&cfg.Config, "config", "", "YAML file of option values; command line flags take precedence")
	fs.BoolVar(&cfg.Force, "force", false, "Overwrite existing outputs")
	fs.BoolVar(&cfg.Debug, "debug", false, "Print debug messages")
}

func bindDivideFlags(fs *flag.FlagSet, cfg *gbConfig) {
	o := &cfg.Options
	fs.Var(&cfg.Inputs, "gb", "Input GenBank file, plain or .gz (repeatable)")
	fs.BoolVar(&o.AllowMosaicSpacer, "allow_mosaic_spacer", o.AllowMosaicSpacer, "Allow mosaic spacer")
	fs.BoolVar(&o.AllowRepeat, "allow_repeat", o.AllowRepeat, "Allow repeat genes or spacer")
	fs.BoolVar(&o.AllowInvertRepeat, "allow_invert_repeat", o.AllowInvertRepeat, "Allow invert-repeat spacers")
	fs.IntVar(&o.Expand, "expand", o.Expand, "Expand length of upstream/downstream")
	fs.IntVar(&o.MaxNameLen, "max_name_len", o.MaxNameLen, "Maximum length of feature name")
	fs.IntVar(&o.MaxSeqLen, "max_seq_len", o.MaxSeqLen, "Maximum length of feature sequence")
	fs.BoolVar(&o.Rename, "rename", o.Rename, "Try to rename gene")
	fs.BoolVar(&cfg.NoDivide, "no_divide", false, "Only write whole records, no feature decomposition")
	fs.BoolVar(&cfg.Progress, "progress", cfg.Progress, "Show progress bar")
	fs.BoolVar(&cfg.Manifest, "manifest", false, "Write manifest.parquet listing every written sequence")
	bindOrganelleFlag(fs, cfg)
}

func bindQueryFlags(fs *flag.FlagSet, cfg *gbConfig) {
	q := &cfg.Query
	fs.StringVar(&cfg.Email, "email", "", "Email address for querying Genbank")
	fs.StringVar(&q.Exclude, "exclude", "", "Exclude option")
	fs.StringVar(&q.Gene, "gene", "", "Gene name")
	fs.StringVar(&q.Group, "group", q.Group, "Kind of species: all, animals, plants, fungi, protists, bacteria, archaea, viruses")
	fs.IntVar(&q.MinLen, "min_len", q.MinLen, "Minimum length")
	fs.IntVar(&q.MaxLen, "max_len", q.MaxLen, "Maximum length")
	fs.StringVar(&q.DateStart, "date_start", "", "Release date beginning, (eg. 1970/1/1)")
	fs.StringVar(&q.DateEnd, "date_end", "", "Release date end, (eg. 2020/12/31)")
	fs.StringVar(&q.Molecular, "molecular", q.Molecular, "Molecular type: all, DNA, RNA")
	fs.StringVar(&q.Text, "query", "", "Query text; other query options are ignored")
	fs.BoolVar(&q.RefSeq, "refseq", false, "Only search in RefSeq database")
	fs.IntVar(&cfg.SeqN, "seq_n", 0, "Maximum number of records to download, 0 for unlimited")
	fs.StringVar(&q.Taxon, "taxon", "", "Taxonomy name")
	fs.BoolVar(&cfg.Gzip, "gzip", false, "Compress the downloaded GenBank file")
	bindOrganelleFlag(fs, cfg)
}

// bindOrganelleFlag is shared by the query and divide flags; the first call
// wins.
func bindOrganelleFlag(fs *flag.FlagSet, cfg *gbConfig) {
	if fs.Lookup("organelle") != nil {
		return
	}
	usage := "Organelle type: both, no, mt, mitochondrion, cp, chloroplast, pl, plastid"
	fs.StringVar(&cfg.Query.Organelle, "organelle", cfg.Query.Organelle, usage)
	fs.StringVar(&cfg.Query.Organelle, "og", cfg.Query.Organelle, usage+" (shorthand)")
}

func bindUniqueFlag(fs *flag.FlagSet, cfg *gbConfig) {
	fs.StringVar(&cfg.Unique, "unique", cfg.Unique, "Method to remove redundant sequences: longest, first, no")
}

func parseConfig(fs *flag.FlagSet, cfg *gbConfig, args []string) {
	if err := fs.Parse(args); err != nil {
		fatalf("parse args failed: %v", err)
	}
	if cfg.Config != "" {
		if err := applyConfig(fs, cfg.Config); err != nil {
			fatalf("load config failed: %v", err)
		}
	}
	if cfg.Debug {
		logging.SetLevel(logging.Debug)
	}
	cfg.Inputs = append(cfg.Inputs, fs.Args()...)
	cfg.Options.Organelle = cfg.Query.Organelle
	if err := cfg.validate(); err != nil {
		fatalf("invalid options: %v", err)
	}
}

func (c *gbConfig) validate() error {
	var errs []error
	if c.Out == "" {
		errs = append(errs, errors.New("out is required"))
	}
	if err := c.Options.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Query.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := unique.ParseStrategy(c.Unique); err != nil {
		errs = append(errs, err)
	}
	if c.SeqN < 0 {
		errs = append(errs, errors.New("seq_n must be >= 0"))
	}
	return errors.Join(errs...)
}

// logNotices reports options that change what gets written.
func (c *gbConfig) logNotices() {
	if c.Options.AllowRepeat {
		logging.Infof("Repeat genes or spacers will be kept as user's wish.")
	}
	if c.Options.AllowInvertRepeat {
		logging.Infof("Invert-repeat spacers will be kept.")
	}
	if c.Options.AllowMosaicSpacer {
		logging.Infof("The \"spacers\" of overlapped genes will be kept.")
	}
	if c.Options.Expand != 0 {
		logging.Infof("Extend sequences to their upstream/downstream with %d bp", c.Options.Expand)
	}
	if c.Query.Group != "" && c.Query.Group != "all" {
		logging.Warnf("The filters \"group\" was reported to return abnormal records by Genbank. " +
			"Please consider to use \"-taxon\" instead.")
	}
	if c.Options.Rename {
		logging.Warnf("BarcodeFinder will try to rename genes by regular expression.")
	}
}
