package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"gopkg.in/yaml.v3"

	"UniRecommender/internal/app"
	"UniRecommender/internal/config"
	"UniRecommender/internal/domain"
	"UniRecommender/internal/logging"
	"UniRecommender/internal/metrics"
	"UniRecommender/internal/usecase"
)

const usage = `usage: unirecommender [-metrics] <command> [flags]

commands:
  recommend -profile FILE     recommend universities for one profile (YAML or JSON, "-" for stdin)
  batch FILE...               recommend for several profiles concurrently
  search -q TEXT [-limit N]   search the catalog by name, country or research area
  filter [flags]              list catalog records matching -country, -max-tuition,
                              -min-ranking, -max-ranking, -scholarship, -research, -limit
  countries                   list catalog countries
  seed [-watch]               load configured sources into the catalog
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("unirecommender", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	dumpMetrics := global.Bool("metrics", false, "print Prometheus metrics to stderr on exit")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	cfg := config.Load()
	logger := logging.New(cfg.Logging)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		return 1
	}
	defer application.Close()

	if *dumpMetrics {
		defer func() { _ = metrics.WriteText(stderr, nil) }()
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	if err := dispatch(ctx, application, cmd, rest, stdin, stdout, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		logger.Error("command failed", "command", cmd, "error", err)
		return 1
	}
	return 0
}

func dispatch(ctx context.Context, a *app.Application, cmd string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	switch cmd {
	case "recommend":
		fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
		fs.SetOutput(stderr)
		path := fs.String("profile", "-", "profile file (YAML or JSON), - for stdin")
		if err := fs.Parse(args); err != nil {
			return err
		}
		profile, err := loadProfile(*path, stdin)
		if err != nil {
			return err
		}
		rec, err := a.Recommend(ctx, profile)
		if err != nil {
			return err
		}
		return writeJSON(stdout, rec)

	case "batch":
		fs := flag.NewFlagSet("batch", flag.ContinueOnError)
		fs.SetOutput(stderr)
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() == 0 {
			return fmt.Errorf("batch: at least one profile file is required")
		}
		profiles := make([]domain.StudentProfile, 0, fs.NArg())
		for _, path := range fs.Args() {
			p, err := loadProfile(path, stdin)
			if err != nil {
				return err
			}
			profiles = append(profiles, p)
		}
		return writeJSON(stdout, batchOutput(fs.Args(), a.Batch(ctx, profiles)))

	case "search":
		fs := flag.NewFlagSet("search", flag.ContinueOnError)
		fs.SetOutput(stderr)
		query := fs.String("q", "", "search text")
		limit := fs.Int("limit", 10, "maximum results")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *query == "" {
			return fmt.Errorf("search: -q is required")
		}
		records, err := a.Search(ctx, *query, *limit)
		if err != nil {
			return err
		}
		return writeJSON(stdout, records)

	case "filter":
		criteria, err := parseCriteria(args, stderr)
		if err != nil {
			return err
		}
		records, err := a.Filter(ctx, criteria)
		if err != nil {
			return err
		}
		return writeJSON(stdout, records)

	case "countries":
		countries, err := a.Countries(ctx)
		if err != nil {
			return err
		}
		return writeJSON(stdout, countries)

	case "seed":
		fs := flag.NewFlagSet("seed", flag.ContinueOnError)
		fs.SetOutput(stderr)
		watch := fs.Bool("watch", false, "keep refreshing on the configured interval until interrupted")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *watch {
			return a.Watch(ctx)
		}
		n, err := a.Seed(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "seeded %d universities\n", n)
		return nil

	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseCriteria(args []string, stderr io.Writer) (domain.CatalogCriteria, error) {
	fs := flag.NewFlagSet("filter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var criteria domain.CatalogCriteria
	fs.StringVar(&criteria.Country, "country", "", "exact country name")
	fs.Float64Var(&criteria.MaxTuition, "max-tuition", 0, "maximum annual tuition; unknown fees pass")
	fs.IntVar(&criteria.MinRanking, "min-ranking", 0, "best ranking position to include; unranked pass")
	fs.IntVar(&criteria.MaxRanking, "max-ranking", 0, "worst ranking position to include; unranked pass")
	scholarship := fs.String("scholarship", "", "true or false; empty means either")
	fs.StringVar(&criteria.ResearchArea, "research", "", "research area substring")
	fs.IntVar(&criteria.Limit, "limit", 0, "maximum results, 0 for all")
	if err := fs.Parse(args); err != nil {
		return domain.CatalogCriteria{}, err
	}

	if *scholarship != "" {
		v, err := strconv.ParseBool(*scholarship)
		if err != nil {
			return domain.CatalogCriteria{}, fmt.Errorf("filter: invalid -scholarship %q", *scholarship)
		}
		criteria.ScholarshipAvailable = &v
	}
	return criteria, nil
}

// loadProfile decodes YAML, which also accepts JSON documents.
func loadProfile(path string, stdin io.Reader) (domain.StudentProfile, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.StudentProfile{}, fmt.Errorf("read profile %s: %w", path, err)
	}

	var profile domain.StudentProfile
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return domain.StudentProfile{}, fmt.Errorf("decode profile %s: %w", path, err)
	}
	return profile, nil
}

type batchEntry struct {
	Profile        string                 `json:"profile"`
	Recommendation *domain.Recommendation `json:"recommendation,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

func batchOutput(paths []string, results []usecase.BatchResult) []batchEntry {
	out := make([]batchEntry, 0, len(results))
	for _, r := range results {
		entry := batchEntry{Profile: paths[r.Index]}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		} else {
			rec := r.Recommendation
			entry.Recommendation = &rec
		}
		out = append(out, entry)
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
