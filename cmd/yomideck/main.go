package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/japaniel/yomideck/pkg/analyzer"
	"github.com/japaniel/yomideck/pkg/anki"
	"github.com/japaniel/yomideck/pkg/book"
	"github.com/japaniel/yomideck/pkg/config"
	"github.com/japaniel/yomideck/pkg/dictionary"
	"github.com/japaniel/yomideck/pkg/logger"
	"github.com/japaniel/yomideck/pkg/pipeline"
)

type options struct {
	epub         string
	dict         string
	config       string
	out          string
	report       string
	extractor    string
	particles    bool
	workers      int
	ordinalWidth int

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: map[string]bool{}}
	fs := flag.NewFlagSet("yomideck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.epub, "epub", "", "Path to the .epub book")
	fs.StringVar(&opts.dict, "dict", "", "Path to the JMdict-simplified JSON file (with examples)")
	fs.StringVar(&opts.config, "config", "", "Path to a YAML config file")
	fs.StringVar(&opts.out, "out", "", "Directory for the .apkg (default: next to the book)")
	fs.StringVar(&opts.report, "report", "", "Write a YAML run report to this path")
	fs.StringVar(&opts.extractor, "extractor", "", "Text extractor: html or readability")
	fs.BoolVar(&opts.particles, "particles", false, "Include particles and other grammar words")
	fs.IntVar(&opts.workers, "workers", 0, "Tokenizer workers")
	fs.IntVar(&opts.ordinalWidth, "ordinal-width", 0, "Digits in chapter numbers")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "yomideck - split an EPUB into per-chapter Anki vocabulary decks\n\n")
		fmt.Fprintf(stderr, "Usage:\n  yomideck [options] -epub book.epub\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// apply overrides cfg with the flags given on the command line.
func (o *options) apply(cfg *config.Config) {
	if o.set["dict"] {
		cfg.Dictionary.Path = o.dict
	}
	if o.set["out"] {
		cfg.Deck.OutputDir = o.out
	}
	if o.set["report"] {
		cfg.Report.Path = o.report
	}
	if o.set["extractor"] {
		cfg.Pipeline.Extractor = o.extractor
	}
	if o.set["particles"] {
		cfg.Pipeline.IncludeParticles = o.particles
	}
	if o.set["workers"] {
		cfg.Pipeline.Workers = o.workers
	}
	if o.set["ordinal-width"] {
		cfg.Deck.OrdinalWidth = o.ordinalWidth
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, isTerminal(os.Stdout)); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// run executes one conversion. showProgress enables the in-place chapter
// counter on stdout.
func run(ctx context.Context, args []string, stdin *os.File, stdout, stderr io.Writer, showProgress bool) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	fmt.Fprintln(stdout, titleStyle.Render("Epub to Anki (Chapter Mode)"))

	dict, err := loadDictionary(ctx, cfg.Dictionary, log)
	if err != nil {
		return err
	}

	epubPath := opts.epub
	if epubPath == "" {
		if !isTerminal(stdin) {
			return errors.New("no book given; pass -epub <file>")
		}
		answer, err := askBook(stdin, stdout, cfg.Pipeline.IncludeParticles)
		if err != nil {
			return err
		}
		epubPath = answer.path
		cfg.Pipeline.IncludeParticles = answer.particles
	}

	doc, err := book.Open(epubPath)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			return fmt.Errorf("book not found: %s", epubPath)
		}
		return fmt.Errorf("read book: %w", err)
	}

	ext, err := book.NewExtractor(cfg.Pipeline.Extractor)
	if err != nil {
		return err
	}
	if cfg.Pipeline.Normalize {
		ext = book.NFKCExtractor{Extractor: ext}
	}
	chapters, skipped := book.AssembleChapters(doc, book.FlattenTOC(doc.Outline()), ext)
	for _, s := range skipped {
		log.Debug("spine item skipped", "id", s.ID, "file", s.Name, "reason", s.Reason)
	}
	fmt.Fprintf(stdout, "Detected %s chapters/sections in %s.\n", boldStyle.Render(fmt.Sprint(len(chapters))), doc.Title())
	if len(chapters) == 0 {
		return pipeline.ErrNoChapters
	}

	tagger, err := analyzer.NewAnalyzer()
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}

	p := pipeline.New(tagger, dict)
	p.IncludeParticles = cfg.Pipeline.IncludeParticles
	p.Workers = cfg.Pipeline.Workers
	p.OrdinalWidth = cfg.Deck.OrdinalWidth
	p.Logger = log
	p.OnProgress = progressFunc(stdout, showProgress)

	start := time.Now()
	res, err := p.Run(ctx, doc.Title(), chapters)
	if res != nil {
		fmt.Fprint(stdout, renderChapters(res))
	}
	if err != nil {
		writeReport(cfg.Report.Path, pipeline.NewReport(res, len(chapters), skipped, ""), log)
		return err
	}

	outDir := cfg.Deck.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(epubPath)
	}
	outPath := anki.OutputPath(outDir, doc.Title())

	pkg := &anki.Package{
		Model: anki.VocabModel(cfg.Deck.ModelKey, cfg.Deck.ModelName),
		Decks: res.AnkiDecks(),
	}
	if err := pkg.WriteToFile(ctx, outPath); err != nil {
		return fmt.Errorf("write package: %w", err)
	}
	log.Info("package written", "path", outPath, "decks", len(res.Decks), "notes", res.Notes(), "elapsed", time.Since(start))

	writeReport(cfg.Report.Path, pipeline.NewReport(res, len(chapters), skipped, outPath), log)
	fmt.Fprintln(stdout, renderSuccess(outPath, res))
	return nil
}

func loadDictionary(ctx context.Context, cfg config.DictionaryConfig, log *logger.Logger) (*dictionary.Index, error) {
	if cfg.AutoDownload {
		if err := dictionary.EnsureDictionary(ctx, cfg.Path); err != nil {
			log.Warn("dictionary download failed", "path", cfg.Path, "error", err)
		}
	}

	start := time.Now()
	entries, err := dictionary.LoadJMdictSimplified(cfg.Path)
	if err != nil {
		if errors.Is(err, dictionary.ErrNotFound) {
			return nil, fmt.Errorf("dictionary file %s not found; download jmdict-examples-eng from https://github.com/scriptin/jmdict-simplified/releases or set dictionary.auto_download", cfg.Path)
		}
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	idx := dictionary.NewIndex(entries)
	log.Info("dictionary loaded", "path", cfg.Path, "entries", idx.Entries(), "forms", idx.Len(), "elapsed", time.Since(start))
	return idx, nil
}

func writeReport(path string, r pipeline.Report, log *logger.Logger) {
	if path == "" {
		return
	}
	if err := pipeline.WriteReport(path, r); err != nil {
		log.Warn("report not written", "path", path, "error", err)
		return
	}
	log.Info("report written", "path", path)
}

// progressFunc returns the pipeline progress callback writing to w, or nil
// when disabled.
func progressFunc(w io.Writer, enabled bool) func(done, total int) {
	if !enabled {
		return nil
	}
	return func(done, total int) {
		fmt.Fprintf(w, "\r%s", progressStyle.Render(fmt.Sprintf("Processing chapters %d/%d", done, total)))
		if done == total {
			fmt.Fprintln(w)
		}
	}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
