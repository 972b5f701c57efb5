package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xHacka/login-log-generator/internal/config"
	"github.com/xHacka/login-log-generator/internal/export"
	"github.com/xHacka/login-log-generator/internal/generator"
	"github.com/xHacka/login-log-generator/internal/logging"
	"github.com/xHacka/login-log-generator/internal/models"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
)

type options struct {
	ConfigPath string
	Users      string
	From       string
	To         string
	Quantity   int
	Bias       float64
	Seed       uint64
	Out        string
	Format     string
	Compress   string
	Verbose    bool

	set map[string]bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return exitInvalid
	}
	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log := logging.New(level, "console", stderr)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		log.Error().Err(err).Msg("config")
		return exitFailure
	}
	if err := applyDefaults(&opts, cfg); err != nil {
		log.Error().Err(err).Msg("invalid options")
		return exitInvalid
	}

	gen := generator.New(cfg.Generator.MaxQuantity, generator.NewRand(opts.Seed))
	iv, ivErr := models.ParseDateInterval([]string{opts.From, opts.To})
	req := models.GenerationRequest{
		Usernames:   generator.NormalizeUsernames(opts.Users),
		Interval:    iv,
		Quantity:    opts.Quantity,
		SuccessBias: opts.Bias,
	}
	// usernames, quantity and bias are reported before a bad date range
	if err := firstError(gen.Validate(req), ivErr); err != nil {
		log.Error().Err(err).Msg("generation rejected")
		return exitInvalid
	}
	table, err := gen.Generate(req)
	if err != nil {
		log.Error().Err(err).Msg("generation rejected")
		return exitInvalid
	}

	if err := writeTable(opts, table, stdout); err != nil {
		log.Error().Err(err).Msg("write output")
		return exitFailure
	}
	log.Debug().
		Int("records", len(table)).
		Str("interval", iv.String()).
		Str("out", opts.Out).
		Msg("generated log table")
	return exitOK
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("loggen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.ConfigPath, "config", "config.yaml", "Path to the YAML config file (optional)")
	fs.StringVar(&opts.Users, "users", "", "Usernames separated by comma or newline")
	fs.StringVar(&opts.From, "from", "", "First date of the range (YYYY-MM-DD)")
	fs.StringVar(&opts.To, "to", "", "Last date of the range, inclusive (defaults to -from)")
	fs.IntVar(&opts.Quantity, "n", 0, "Number of records (defaults to generator.default_quantity)")
	fs.Float64Var(&opts.Bias, "bias", 0, "Probability of a successful attempt (defaults to generator.default_bias)")
	fs.Uint64Var(&opts.Seed, "seed", 0, "Deterministic seed (defaults to generator.seed, then current time)")
	fs.StringVar(&opts.Out, "out", "-", "Output file, - for stdout")
	fs.StringVar(&opts.Format, "format", "csv", "Output format: csv or json")
	fs.StringVar(&opts.Compress, "compress", "", "Compression: none, gzip or zstd (defaults to export.compression)")
	fs.BoolVar(&opts.Verbose, "v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	opts.Format = strings.ToLower(strings.TrimSpace(opts.Format))
	return opts, nil
}

func applyDefaults(opts *options, cfg *config.Config) error {
	if opts.To == "" {
		opts.To = opts.From
	}
	if !opts.set["n"] {
		opts.Quantity = cfg.Generator.DefaultQuantity
	}
	if !opts.set["bias"] {
		opts.Bias = cfg.Generator.DefaultBias
	}
	if !opts.set["seed"] {
		opts.Seed = cfg.Generator.Seed
	}
	if opts.Compress == "" {
		opts.Compress = cfg.Export.Compression
	}
	switch opts.Format {
	case "csv", "json":
	default:
		return fmt.Errorf("invalid format %q (must be 'csv' or 'json')", opts.Format)
	}
	if _, err := export.ParseCompression(opts.Compress); err != nil {
		return err
	}
	return nil
}

func writeTable(opts options, table models.LogTable, stdout io.Writer) (err error) {
	var dst io.Writer = stdout
	if opts.Out != "-" && opts.Out != "" {
		f, cerr := os.Create(opts.Out)
		if cerr != nil {
			return cerr
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()
		dst = f
	}

	c, err := export.ParseCompression(opts.Compress)
	if err != nil {
		return err
	}
	w, err := c.Wrap(dst)
	if err != nil {
		return err
	}
	if opts.Format == "json" {
		err = export.WriteJSON(w, table)
	} else {
		err = export.WriteCSV(w, table)
	}
	return errors.Join(err, w.Close())
}
