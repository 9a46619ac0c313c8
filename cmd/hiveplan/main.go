// Command hiveplan assembles a production plan for a target item and
// optionally walks it with a simulated executor.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hivecore/internal/blob"
	"hivecore/internal/config"
	"hivecore/internal/executor"
	"hivecore/internal/infra/rules"
	"hivecore/internal/logging"
	"hivecore/internal/observability"
	"hivecore/internal/planner"
	"hivecore/internal/report"
	"hivecore/pkg/domain"
)

var exitFunc = os.Exit

// planMetrics is published once per process; expvar rejects duplicate
// names, so the recorder cannot be recreated per invocation.
var planMetrics = observability.NewExpvarMetricsRecorder("hiveplan")

type options struct {
	configPath  string
	rulesDriver string
	rulesPath   string
	seedPath    string
	target      string
	stockPath   string
	execute     bool
	archive     bool
	asJSON      bool
	trace       bool
}

// stockFile is the on-disk shape of a stock snapshot.
type stockFile struct {
	Primary   map[domain.Item]int `json:"primary"`
	Secondary map[domain.Item]int `json:"secondary"`
}

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hiveplan", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "path to hivecore.toml (optional)")
	fs.StringVar(&opts.rulesDriver, "rules-driver", "", "rule source driver: json, sqlite, postgres (overrides config)")
	fs.StringVar(&opts.rulesPath, "rules", "", "rule source location: file path or DSN (overrides config)")
	fs.StringVar(&opts.seedPath, "seed", "", "JSON rules file to seed a sqlite/postgres source before planning")
	fs.StringVar(&opts.target, "target", "", "item to plan for (required)")
	fs.StringVar(&opts.stockPath, "stock", "", "path to stock snapshot JSON (optional)")
	fs.BoolVar(&opts.execute, "execute", false, "walk the plan with a simulated executor")
	fs.BoolVar(&opts.archive, "archive", false, "archive the plan document to the configured blob store")
	fs.BoolVar(&opts.asJSON, "json", false, "print the plan as JSON instead of text")
	fs.BoolVar(&opts.trace, "trace", false, "emit planner trace spans to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if opts.target == "" {
		fmt.Fprintln(stderr, "hiveplan: -target is required")
		fs.Usage()
		return 2
	}

	if err := run(context.Background(), opts, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "hiveplan: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	logger := logging.New(stderr, cfg.Log.Level)

	driver := cfg.Rules.Driver
	if opts.rulesDriver != "" {
		driver = opts.rulesDriver
	}
	location := cfg.Rules.Location
	if opts.rulesPath != "" {
		location = opts.rulesPath
	}

	source, err := rules.Open(ctx, driver, location)
	if err != nil {
		return fmt.Errorf("open rule source: %w", err)
	}
	defer closeSource(source, logger)

	if opts.seedPath != "" {
		if err := seedSource(ctx, source, opts.seedPath); err != nil {
			return err
		}
	}

	ruleSet, err := source.Rules(ctx)
	if err != nil {
		return fmt.Errorf("load rules (%s): %w", source.Driver(), err)
	}
	graph, err := domain.NewGraph(ruleSet)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	logger.Debug().Str("driver", source.Driver()).Int("rules", graph.Len()).Msg("rule graph loaded")

	stock, err := loadStock(opts.stockPath)
	if err != nil {
		return err
	}

	plannerOpts := []planner.Option{
		planner.WithMetricsRecorder(planMetrics),
	}
	if opts.trace {
		plannerOpts = append(plannerOpts, planner.WithTracer(observability.NewJSONTracer(stderr)))
	}
	pl := planner.New(graph, plannerOpts...)

	plan, err := pl.Plan(ctx, domain.Item(opts.target), stock)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(plan); err != nil {
			return err
		}
	} else {
		fmt.Fprint(stdout, report.Render(plan))
	}

	if opts.archive {
		store, err := blob.Open(ctx, blob.Driver(cfg.Archive.Driver), cfg.Archive.FSRoot)
		if err != nil {
			return fmt.Errorf("open archive store: %w", err)
		}
		info, err := report.NewArchiver(store, logger).Archive(ctx, plan, uuid.New())
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "archived: %s (%d bytes)\n", info.Key, info.Size)
	}

	if opts.execute {
		return simulate(ctx, plan, cfg, logger, stdout)
	}
	return nil
}

// simulate walks the plan with operations that always succeed, printing each
// step. It exercises the same executor the embedding application would use.
func simulate(ctx context.Context, plan *domain.Plan, cfg config.Config, logger zerolog.Logger, stdout io.Writer) error {
	breed := func(_ context.Context, primary, secondary, target domain.Item) error {
		fmt.Fprintf(stdout, "breed: %s + %s -> %s\n", primary, secondary, target)
		return nil
	}
	accumulate := func(_ context.Context, item domain.Item) error {
		fmt.Fprintf(stdout, "accumulate: %s\n", item)
		return nil
	}
	exec := executor.New(breed, accumulate,
		executor.WithLogger(logger),
		executor.WithAccumulateBuffer(cfg.Executor.AccumulateBuffer),
		executor.WithAccumulateYield(cfg.Executor.AccumulateYield),
		executor.WithPollInterval(cfg.Executor.PollInterval),
	)
	rep, err := exec.Execute(ctx, plan)
	if err != nil {
		return fmt.Errorf("execute plan: %w", err)
	}
	fmt.Fprintf(stdout, "run %s: %d/%d steps completed\n", rep.RunID, rep.StepsCompleted, rep.StepsPlanned)
	return nil
}

func loadStock(path string) (domain.Stock, error) {
	if path == "" {
		return domain.NewStockSnapshot(nil, nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stock: %w", err)
	}
	var sf stockFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse stock (%s): %w", path, err)
	}
	return domain.NewStockSnapshot(sf.Primary, sf.Secondary), nil
}

// seeder is satisfied by the sqlite and postgres sources.
type seeder interface {
	Seed(ctx context.Context, rules []domain.MutationRule) error
}

func seedSource(ctx context.Context, source domain.RuleSource, path string) error {
	s, ok := source.(seeder)
	if !ok {
		return fmt.Errorf("rule source %q does not support seeding", source.Driver())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed rules: %w", err)
	}
	var ruleSet []domain.MutationRule
	if err := json.Unmarshal(data, &ruleSet); err != nil {
		return fmt.Errorf("parse seed rules (%s): %w", path, err)
	}
	if err := s.Seed(ctx, ruleSet); err != nil {
		return fmt.Errorf("seed rules: %w", err)
	}
	return nil
}

func closeSource(source domain.RuleSource, logger zerolog.Logger) {
	if c, ok := source.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warn().Err(err).Msg("close rule source")
		}
	}
}
