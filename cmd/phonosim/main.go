package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/phonosim/pkg/phonosim/config"
	"github.com/cognicore/phonosim/pkg/phonosim/corpus"
	"github.com/cognicore/phonosim/pkg/phonosim/internalerr"
	"github.com/cognicore/phonosim/pkg/phonosim/similarity"
	"github.com/cognicore/phonosim/pkg/phonosim/store"
	"github.com/cognicore/phonosim/pkg/phonosim/store/memstore"
	"github.com/cognicore/phonosim/pkg/phonosim/store/sqlite"
)

const memoryStore = "memory"

func main() {
	var (
		configPath = flag.String("config", "", "Path to experiment YAML (optional, defaults otherwise)")
		trainFile  = flag.String("train", "", "Training corpus TSV (overrides config)")
		testFile   = flag.String("test", "", "Test corpus TSV (overrides config)")
		estimator  = flag.String("estimator", "", "Estimator: absdisc or additive (overrides config)")
		discount   = flag.Float64("discount", 0, "Absolute discount in (0,1) (overrides config)")
		additiveK  = flag.Float64("k", 0, "Additive pseudo-count (overrides config)")
		format     = flag.String("format", "table", "Output format: table or json")
		storeTarget  = flag.String("store", "", "Run storage: memory or a SQLite path (overrides config)")
		selftest   = flag.Bool("selftest", false, "Print per-history probability mass of every model and stop")
		runs       = flag.Int("runs", 0, "List the N newest stored runs and stop")
		history    = flag.String("history", "", "Print stored surprisal for a TRAIN:TEST pair and stop")
		noProgress = flag.Bool("no-progress", false, "Disable the progress bar")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	overrides := flagOverrides{
		TrainFile: *trainFile,
		TestFile:  *testFile,
		Estimator: *estimator,
		Discount:  *discount,
		AdditiveK: *additiveK,
		Store:     *storeTarget,
	}

	loader := config.Loader{
		ExperimentPath: *configPath,
		Logger:         logger,
		Override:       overrides.apply,
	}

	components, err := loader.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	exp := components.Experiment

	ctx := context.Background()

	st, err := openStore(ctx, exp.Store)
	if err != nil {
		logger.Fatal("Failed to open run store", zap.String("store", exp.Store), zap.Error(err))
	}
	if st != nil {
		defer st.Close()
	}

	if *runs > 0 || *history != "" {
		if st == nil {
			logger.Fatal("-runs and -history need a configured store")
		}
		if err := queryStore(ctx, os.Stdout, st, *runs, *history); err != nil {
			logger.Fatal("Store query failed", zap.Error(err))
		}
		return
	}

	train, err := components.Reader.ReadFile(exp.TrainFile, exp.TrainLanguages)
	if err != nil {
		logger.Fatal("Failed to read training corpus", zap.Error(err))
	}

	opts := pipelineOptions(exp, components, logger)

	if *selftest {
		pipeline, err := similarity.New(opts)
		if err != nil {
			logger.Fatal("Failed to build pipeline", zap.Error(err))
		}
		if err := runSelfTest(os.Stdout, pipeline, train); err != nil {
			logger.Fatal("Self-test failed", zap.Error(err))
		}
		return
	}

	test, err := components.Reader.ReadFile(exp.TestFile, exp.TestLanguages)
	if err != nil {
		logger.Fatal("Failed to read test corpus", zap.Error(err))
	}

	report, err := run(ctx, opts, train, test, !*noProgress)
	if err != nil {
		logger.Fatal("Similarity run failed", zap.Error(err))
	}

	if err := writeReport(os.Stdout, report, *format); err != nil {
		logger.Fatal("Failed to write report", zap.Error(err))
	}

	if st != nil {
		if err := st.SaveRun(ctx, report.Run()); err != nil {
			logger.Fatal("Failed to store run", zap.String("run", report.ID), zap.Error(err))
		}
		logger.Info("Run stored", zap.String("run", report.ID), zap.String("store", exp.Store))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level.SetLevel(zapcore.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// flagOverrides holds command-line values that replace experiment settings
// when non-zero.
type flagOverrides struct {
	TrainFile string
	TestFile  string
	Estimator string
	Discount  float64
	AdditiveK float64
	Store     string
}

func (o flagOverrides) apply(exp *config.Experiment) {
	if o.TrainFile != "" {
		exp.TrainFile = o.TrainFile
	}
	if o.TestFile != "" {
		exp.TestFile = o.TestFile
	}
	if o.Estimator != "" {
		exp.Estimator = o.Estimator
	}
	if o.Discount != 0 {
		exp.Discount = o.Discount
	}
	if o.AdditiveK != 0 {
		exp.AdditiveK = o.AdditiveK
	}
	if o.Store != "" {
		exp.Store = o.Store
	}
}

// openStore returns nil when storage is disabled
func openStore(ctx context.Context, target string) (store.Store, error) {
	switch target {
	case "":
		return nil, nil
	case memoryStore:
		return memstore.New(), nil
	default:
		return sqlite.OpenSQLite(ctx, target)
	}
}

func pipelineOptions(exp config.Experiment, components *config.Components, logger *zap.Logger) similarity.Options {
	return similarity.Options{
		Estimator:      components.Estimator,
		TrainLanguages: exp.TrainLanguages,
		TestLanguages:  exp.TestLanguages,
		Unknown:        exp.VocabularyUnknown(),
		Logger:         logger,
	}
}

func run(ctx context.Context, opts similarity.Options, train, test corpus.Dataset, progress bool) (*similarity.Report, error) {
	var bar *pb.ProgressBar
	if progress {
		bar = pb.StartNew(len(opts.TrainLanguages) * len(opts.TestLanguages))
		defer bar.Finish()
		opts.Progress = func(string, string) { bar.Increment() }
	}

	pipeline, err := similarity.New(opts)
	if err != nil {
		return nil, err
	}
	return pipeline.Run(ctx, train, test)
}

func writeReport(w io.Writer, report *similarity.Report, format string) error {
	switch format {
	case "table":
		if _, err := fmt.Fprintln(w, "Computing cross-lingual phonemic similarity:"); err != nil {
			return err
		}
		return report.WriteTable(w)
	case "json":
		return report.WriteJSON(w)
	default:
		return fmt.Errorf("unknown format %q: %w", format, internalerr.ErrInvalidConfig)
	}
}

// runSelfTest prints the mass of every conditional distribution and fails on
// the first one that does not sum to one.
func runSelfTest(w io.Writer, pipeline *similarity.Pipeline, train corpus.Dataset) error {
	fitted, err := pipeline.FitAll(train)
	if err != nil {
		return err
	}

	for _, f := range fitted {
		fmt.Fprintf(w, "%s (%s)\n", strings.ToUpper(f.Language), f.Model.EstimatorName())
		for _, mc := range f.Model.MassReport() {
			fmt.Fprintf(w, "  %-6s %.12f\n", mc.History, mc.Sum)
			if !mc.OK() {
				return fmt.Errorf("%s: history %q sums to %v: %w",
					f.Language, mc.History, mc.Sum, internalerr.ErrMassNotNormalized)
			}
		}
		if err := f.Model.Validate(); err != nil {
			return fmt.Errorf("%s: %w", f.Language, err)
		}
	}
	fmt.Fprintln(w, "OK")
	return nil
}

func queryStore(ctx context.Context, w io.Writer, st store.Store, limit int, pair string) error {
	if limit > 0 {
		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Fprintf(w, "%s  %s  %-8s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Estimator)
		}
	}

	if pair != "" {
		train, test, err := parsePair(pair)
		if err != nil {
			return err
		}
		results, err := st.PairHistory(ctx, train, test)
		if err != nil {
			return err
		}
		for _, res := range results {
			fmt.Fprintf(w, "%s  %-8s %s > %s: %.2f\n", res.RunID, res.Estimator,
				strings.ToUpper(res.Row.Train), strings.ToUpper(res.Row.Test), res.Row.Surprisal)
		}
	}
	return nil
}

func parsePair(s string) (string, string, error) {
	train, test, ok := strings.Cut(s, ":")
	if !ok || train == "" || test == "" {
		return "", "", fmt.Errorf("pair %q, want TRAIN:TEST: %w", s, internalerr.ErrInvalidInput)
	}
	return strings.ToLower(train), strings.ToLower(test), nil
}
