// Command i18nsync keeps locale JSON catalogs in step with the translation
// keys used by a web project.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/ZaguanLabs/i18nsync/cache"
	"github.com/ZaguanLabs/i18nsync/catalog"
	"github.com/ZaguanLabs/i18nsync/config"
	"github.com/ZaguanLabs/i18nsync/corpus"
	"github.com/ZaguanLabs/i18nsync/provider"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = i18nsync.FullVersion()
	commit    = i18nsync.GitCommit
	buildDate = i18nsync.BuildDate
)

// errReported means the failure was already printed as a status line.
var errReported = errors.New("reported")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{
		fs:          afero.NewOsFs(),
		stdout:      stdout,
		stderr:      stderr,
		getenv:      os.Getenv,
		environ:     os.Environ,
		getwd:       os.Getwd,
		newProvider: provider.New,
	}
	return a.execute(ctx, args)
}

// app holds the process dependencies so tests can replace them.
type app struct {
	fs          afero.Fs
	stdout      io.Writer
	stderr      io.Writer
	getenv      func(string) string
	environ     func() []string
	getwd       func() (string, error)
	newProvider func(provider.Config) (provider.Provider, error)
}

// options mirrors the command line flags. Only flags the user set
// override the loaded configuration.
type options struct {
	configPath string
	jsonOut    bool
	progress   bool

	directory     string
	autoAdd       bool
	autoTranslate bool
	autoRemove    bool
	sortKeys      bool
	dryRun        bool
	indent        int
	marker        string
	extensions    []string
	exclude       []string
	workers       int
	source        string
	logLevel      string

	providerName string
	model        string
	apiKey       string
	baseURL      string
	rpm          int
	retries      int

	redisURL  string
	cacheFile string
	cacheTTL  time.Duration
}

func (a *app) execute(ctx context.Context, args []string) error {
	root := a.newRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) newRootCommand() *cobra.Command {
	o := &options{}
	def := config.Default()

	root := &cobra.Command{
		Use:   "i18nsync [catalog]",
		Short: i18nsync.Description,
		Long: `Extracts translation keys from the HTML and JS/TS sources under a directory
and reconciles every catalog in <directory>/locales against them.

With a catalog argument (e.g. "fr" or "locales/fr.json") only that catalog
is updated; otherwise all catalogs except lang.json and en.json are.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return a.runSync(cmd, o, name)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate(versionText())

	pf := root.PersistentFlags()
	pf.StringVarP(&o.directory, "directory", "d", def.Directory, "project directory containing the sources and locales/")
	pf.StringVar(&o.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&o.logLevel, "log-level", def.LogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&o.marker, "marker", def.Marker, "markup attribute holding translation keys")
	pf.StringSliceVar(&o.extensions, "ext", nil, "source file extensions to scan (default .html,.js,.mjs,.cjs,.ts,.tsx)")
	pf.StringSliceVar(&o.exclude, "exclude", nil, "extra glob patterns of source paths to skip")
	pf.IntVar(&o.workers, "workers", def.Workers, "concurrent file extractions")
	pf.BoolVar(&o.jsonOut, "json", false, "print the result as JSON")
	pf.BoolVar(&o.progress, "progress", false, "show a progress bar while scanning sources")

	f := root.Flags()
	f.BoolVar(&o.autoAdd, "auto-add", def.AutoAdd, "add missing keys")
	f.BoolVar(&o.autoTranslate, "auto-translate", def.AutoTranslate, "translate missing keys when adding them")
	f.BoolVar(&o.autoRemove, "auto-remove", def.AutoRemove, "remove keys no longer used by the sources")
	f.BoolVar(&o.sortKeys, "sort-keys", def.SortKeys, "order keys by first appearance in the source tree")
	f.BoolVar(&o.dryRun, "dry-run", def.DryRun, "report changes without writing catalogs")
	f.IntVar(&o.indent, "indent", def.Indent, "catalog indentation (2 or 4)")
	f.StringVar(&o.source, "source", def.Source, "source language of the default values")
	f.StringVar(&o.providerName, "provider", def.Provider.Name, "translation backend (google, openai)")
	f.StringVar(&o.model, "model", def.Provider.Model, "model for the openai backend")
	f.StringVar(&o.apiKey, "api-key", "", "API key for the openai backend (default: OPENAI_API_KEY env)")
	f.StringVar(&o.baseURL, "base-url", "", "base URL for an OpenAI compatible API")
	f.IntVar(&o.rpm, "rpm", def.Provider.RPM, "translation requests per minute")
	f.IntVar(&o.retries, "retries", def.Provider.Retries, "retries for transient translation errors")
	f.StringVar(&o.redisURL, "redis-url", "", "memoize translations in redis")
	f.StringVar(&o.cacheFile, "cache-file", "", "memoize translations in a JSON file")
	f.DurationVar(&o.cacheTTL, "cache-ttl", def.Cache.TTL, "lifetime of memoized translations (0 keeps them forever)")

	root.AddCommand(a.newKeysCommand(o))
	return root
}

func (a *app) newKeysCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the keys extracted from the source tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runKeys(cmd, o)
		},
	}
}

func versionText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", i18nsync.Name, version)
	if commit != "unknown" && commit != "" {
		fmt.Fprintf(&b, "  commit:  %s\n", commit)
	}
	if buildDate != "unknown" && buildDate != "" {
		fmt.Fprintf(&b, "  built:   %s\n", buildDate)
	}
	return b.String()
}

// loadConfig reads the configuration sources and applies the flags the
// user set on top.
func (a *app) loadConfig(cmd *cobra.Command, o *options) (*config.Config, error) {
	loader := config.NewLoader(config.WithFs(a.fs), config.WithEnviron(a.environ))
	cfg, err := loader.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("directory", func() { cfg.Directory = o.directory })
	set("log-level", func() { cfg.LogLevel = o.logLevel })
	set("marker", func() { cfg.Marker = o.marker })
	set("ext", func() { cfg.Extensions = o.extensions })
	set("exclude", func() { cfg.Exclude = o.exclude })
	set("workers", func() { cfg.Workers = o.workers })
	set("auto-add", func() { cfg.AutoAdd = o.autoAdd })
	set("auto-translate", func() { cfg.AutoTranslate = o.autoTranslate })
	set("auto-remove", func() { cfg.AutoRemove = o.autoRemove })
	set("sort-keys", func() { cfg.SortKeys = o.sortKeys })
	set("dry-run", func() { cfg.DryRun = o.dryRun })
	set("indent", func() { cfg.Indent = o.indent })
	set("source", func() { cfg.Source = o.source })
	set("provider", func() { cfg.Provider.Name = o.providerName })
	set("model", func() { cfg.Provider.Model = o.model })
	set("api-key", func() { cfg.Provider.APIKey = o.apiKey })
	set("base-url", func() { cfg.Provider.BaseURL = o.baseURL })
	set("rpm", func() { cfg.Provider.RPM = o.rpm })
	set("retries", func() { cfg.Provider.Retries = o.retries })
	set("redis-url", func() { cfg.Cache.RedisURL = o.redisURL })
	set("cache-file", func() { cfg.Cache.File = o.cacheFile })
	set("cache-ttl", func() { cfg.Cache.TTL = o.cacheTTL })

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string, colored bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: !colored, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// projectDir drops a trailing slash and a trailing /locales, so both the
// project and its locales directory are accepted.
func projectDir(dir string) string {
	dir = strings.TrimSuffix(dir, "/")
	dir = strings.TrimSuffix(dir, "/locales")
	return dir
}

func (a *app) runSync(cmd *cobra.Command, o *options, name string) error {
	ctx := cmd.Context()
	cfg, err := a.loadConfig(cmd, o)
	if err != nil {
		return err
	}

	cwd, _ := a.getwd()
	status := newStatusPrinter(a.stdout, a.stderr, a.getenv, cwd)
	status.quiet = o.jsonOut
	logger := newLogger(a.stderr, cfg.LogLevel, status.colorErr)

	dir := projectDir(cfg.Directory)
	if ok, _ := afero.DirExists(a.fs, dir); !ok {
		status.Printf("ERR", "Directory '%s' not found.", dir)
		return errReported
	}
	locales := filepath.Join(dir, "locales")

	var paths []string
	if name != "" {
		path, ok := a.resolveCatalog(name, cwd, locales)
		if !ok {
			status.Printf("ERR", "JSON file '%s' not found.", path)
			return errReported
		}
		paths = []string{path}
	}

	c, err := a.buildCorpus(ctx, cfg, dir, logger, o.progress)
	if err != nil {
		return err
	}

	if name == "" {
		status.Print("RUN", "Updating all JSON files...")
		skip := slices.Clone(catalog.DefaultSkipSuffixes)
		if src := i18nsync.NormalizeLocale(cfg.Source); src != "" && src != "en" {
			skip = append(skip, src+".json")
		}
		paths, err = catalog.Discover(a.fs, locales, skip)
		if err != nil {
			status.Printf("ERR", "Directory '%s' not found.", locales)
			return errReported
		}
	}

	ropts := []catalog.ReconcilerOption{
		catalog.WithSourceLang(cfg.Source),
		catalog.WithReporter(status),
		catalog.WithLogger(logger),
	}
	if cfg.AutoTranslate {
		tr, closeCache, err := a.newTranslator(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeCache()
		ropts = append(ropts, catalog.WithTranslator(tr))
	}

	syncer := catalog.NewSyncer(a.fs,
		catalog.NewReconciler(cfg.Policy(), ropts...),
		catalog.WithDryRun(cfg.DryRun),
		catalog.WithIndent(cfg.Indent),
	)
	report := syncer.Sync(ctx, paths, c)

	if o.jsonOut {
		if err := writeReport(a.stdout, report, cfg.DryRun); err != nil {
			return err
		}
	} else {
		status.Print("TOT", totalsLine(report))
		if report.OK() {
			status.Print("OK", "Done!")
		}
	}

	if !report.OK() {
		return fmt.Errorf("%d of %d catalogs failed", report.Failed, report.Files)
	}
	return nil
}

// resolveCatalog finds the catalog named on the command line: ".json" is
// appended when missing, then the name is tried against the working
// directory and the locales directory. The returned path is the name as
// looked up when nothing matched.
func (a *app) resolveCatalog(name, cwd, locales string) (string, bool) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	path := name
	if !filepath.IsAbs(path) && cwd != "" {
		if cand := filepath.Join(cwd, path); a.isFile(cand) {
			path = cand
		}
	}
	if a.isFile(path) {
		return path, true
	}
	if cand := filepath.Join(locales, path); a.isFile(cand) {
		return cand, true
	}
	return path, false
}

func (a *app) isFile(path string) bool {
	info, err := a.fs.Stat(path)
	return err == nil && !info.IsDir()
}

func (a *app) buildCorpus(ctx context.Context, cfg *config.Config, dir string, logger zerolog.Logger, progress bool) (*i18nsync.Corpus, error) {
	wopts := []corpus.WalkerOption{corpus.WithLogger(logger)}

	var bar *progressbar.ProgressBar
	if progress {
		wopts = append(wopts, corpus.WithProgress(func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(a.stderr),
					progressbar.OptionSetDescription("Scanning sources"),
					progressbar.OptionClearOnFinish(),
				)
			}
			bar.Set(done)
		}))
	}

	w, err := corpus.NewWalker(a.fs, cfg.CorpusOptions(dir), wopts...)
	if err != nil {
		return nil, err
	}
	c, err := w.Build(ctx)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return nil, fmt.Errorf("scanning sources: %w", err)
	}
	return c, nil
}

// newTranslator builds the backend chain: rate limit each attempt, retry
// transient failures, memoize results. The returned func releases the
// cache and persists it when it is file backed.
func (a *app) newTranslator(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*i18nsync.Translator, func(), error) {
	p, err := a.newProvider(provider.Config{
		Name:    cfg.Provider.Name,
		APIKey:  cfg.Provider.APIKey,
		Model:   cfg.Provider.Model,
		BaseURL: cfg.Provider.BaseURL,
	})
	if err != nil {
		return nil, nil, err
	}

	retry := i18nsync.DefaultRetryConfig()
	retry.MaxRetries = cfg.Provider.Retries

	var backend i18nsync.Provider = i18nsync.NewRateLimitedProvider(p, i18nsync.RateLimitConfig{
		RequestsPerMinute: cfg.Provider.RPM,
	})
	backend = i18nsync.NewRetryableProvider(backend, retry)

	tc, closeCache, err := a.openCache(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return i18nsync.NewTranslator(backend, i18nsync.WithCache(tc)), closeCache, nil
}

func (a *app) openCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (i18nsync.TranslationCache, func(), error) {
	switch {
	case cfg.Cache.RedisURL != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			URL:    cfg.Cache.RedisURL,
			TTL:    cfg.Cache.TTL,
			Logger: logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { rc.Close() }, nil

	case cfg.Cache.File != "":
		path := cfg.Cache.File
		mc := cache.NewMemoryCache(cfg.Cache.TTL)
		if ok, _ := afero.Exists(a.fs, path); ok {
			res, err := cache.NewImporter(mc).ImportFromFile(a.fs, path)
			if err != nil {
				logger.Warn().Err(err).Str("file", path).Msg("Ignoring unreadable translation cache")
			} else {
				logger.Debug().Int("entries", res.Imported).Str("file", path).Msg("Translation cache loaded")
			}
		}
		meta := map[string]string{"generator": i18nsync.UserAgent(), "provider": cfg.Provider.Name, "source": cfg.Source}
		return mc, func() {
			if err := cache.NewExporter(mc).ExportToFile(context.WithoutCancel(ctx), a.fs, path, meta); err != nil {
				logger.Warn().Err(err).Str("file", path).Msg("Saving translation cache failed")
			}
		}, nil
	}
	return cache.NewMemoryCache(cfg.Cache.TTL), func() {}, nil
}

func totalsLine(r *catalog.Report) string {
	var parts []string
	if r.Files > 1 {
		parts = append(parts, fmt.Sprintf("FILES:%d", r.Files))
	}
	t := r.Totals
	parts = append(parts, fmt.Sprintf("NF:%d ADD:%d EXT:%d DEL:%d SKP:%d ERR:%d",
		t.NotFound, t.Added, t.Extra, t.Removed, t.Skipped, t.Errors))
	return strings.Join(parts, " ")
}

// JSONResult is one catalog in the JSON output.
type JSONResult struct {
	catalog.Result
	Error string `json:"error,omitempty"`
}

// JSONOutput represents the JSON output format.
type JSONOutput struct {
	Catalogs []JSONResult      `json:"catalogs"`
	Totals   i18nsync.Counters `json:"totals"`
	Files    int               `json:"files"`
	Failed   int               `json:"failed"`
	DryRun   bool              `json:"dry_run"`
}

func writeReport(w io.Writer, r *catalog.Report, dryRun bool) error {
	out := JSONOutput{
		Catalogs: make([]JSONResult, 0, len(r.Results)),
		Totals:   r.Totals,
		Files:    r.Files,
		Failed:   r.Failed,
		DryRun:   dryRun,
	}
	for _, res := range r.Results {
		jr := JSONResult{Result: res}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		out.Catalogs = append(out.Catalogs, jr)
	}
	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// KeyOutput is one extracted key in the JSON output of the keys command.
type KeyOutput struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Path    string `json:"path"`
	Ordinal int    `json:"ordinal"`
}

func (a *app) runKeys(cmd *cobra.Command, o *options) error {
	cfg, err := a.loadConfig(cmd, o)
	if err != nil {
		return err
	}
	logger := newLogger(a.stderr, cfg.LogLevel, supportsColor(a.stderr, a.getenv))

	dir := projectDir(cfg.Directory)
	if ok, _ := afero.DirExists(a.fs, dir); !ok {
		return fmt.Errorf("directory '%s' not found", dir)
	}

	c, err := a.buildCorpus(cmd.Context(), cfg, dir, logger, o.progress)
	if err != nil {
		return err
	}

	keys := make([]KeyOutput, 0, c.Entries.Len())
	for _, kv := range c.Entries.Pairs() {
		pos, _ := c.Position(kv.Key)
		keys = append(keys, KeyOutput{Key: kv.Key, Value: kv.Value, Path: pos.Path, Ordinal: pos.Ordinal})
	}

	if o.jsonOut {
		return writeJSON(a.stdout, keys)
	}
	for _, k := range keys {
		fmt.Fprintf(a.stdout, "%s:%d\t%s\t%q\n", k.Path, k.Ordinal, k.Key, k.Value)
	}
	fmt.Fprintf(a.stdout, "\n%d keys in %d files\n", len(keys), len(c.Files))
	return nil
}
