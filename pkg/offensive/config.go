package offensive

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/randalmurphal/offensive/pkg/offensive/config"
	"github.com/randalmurphal/offensive/pkg/offensive/report"
)

// Report drivers accepted by OptionsFromConfig.
const (
	ReportMemory = "memory"
	ReportSQLite = "sqlite"
)

// defaultReportLimit caps journals configured without report.limit.
const defaultReportLimit = 1000

// OptionsFromConfig translates a configuration into checker options.
//
// Recognised keys:
//
//	error_name: ContractError    # WithErrorName
//	metrics: true                # WithMetricsEnabled
//	tracing: true                # WithTracing
//	slow_threshold: 5ms          # WithSlowThreshold
//	log:
//	  level: debug               # debug|info|warn|error, enables logging to stderr
//	  format: json               # text|json
//	report:
//	  driver: sqlite             # memory|sqlite, enables the failure journal
//	  path: failures.db          # sqlite only
//	  limit: 1000                # entries kept
//	aliases:
//	  isPositive: positive       # extra names for built-ins
//
// A configured journal is opened here; the Checker built with the options
// owns it.
func OptionsFromConfig(cfg config.Config) ([]Option, error) {
	opts := []Option{
		WithErrorName(cfg.String("error_name", DefaultErrorName)),
		WithMetricsEnabled(cfg.Bool("metrics", false)),
		WithTracing(cfg.Bool("tracing", false)),
		WithSlowThreshold(cfg.Duration("slow_threshold", 0)),
	}

	if cfg.Has("log.level") {
		logger, err := loggerFromConfig(cfg.Sub("log"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithLogger(logger))
	}

	aliases, err := aliasesFromConfig(cfg.Sub("aliases"))
	if err != nil {
		return nil, err
	}
	if len(aliases) > 0 {
		opts = append(opts, withAliases(aliases))
	}

	if cfg.Has("report.driver") {
		store, err := storeFromConfig(cfg.Sub("report"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithJournal(store))
	}
	return opts, nil
}

// NewFromConfig is New with OptionsFromConfig. Extra options apply last.
func NewFromConfig(cfg config.Config, extra ...Option) (*Checker, error) {
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return New(append(opts, extra...)...), nil
}

func loggerFromConfig(cfg config.Config) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.String("level", "info"))); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	switch format := strings.ToLower(cfg.String("format", "text")); format {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("log.format: unknown format %q", format)
	}
}

func aliasesFromConfig(cfg config.Config) (map[string]string, error) {
	assertions, operators := catalog()
	aliases := make(map[string]string)
	for _, alias := range cfg.Keys() {
		target := cfg.String(alias, "")
		if !assertions.Has(target) && !operators.Has(target) {
			return nil, fmt.Errorf("aliases.%s: %w: %q", alias, ErrUnknownAssertion, target)
		}
		aliases[alias] = target
	}
	return aliases, nil
}

// withAliases applies aliases whose targets were checked against the
// built-in catalogue.
func withAliases(aliases map[string]string) Option {
	return func(c *Checker) {
		for alias, target := range aliases {
			_ = c.Alias(alias, target)
		}
	}
}

func storeFromConfig(cfg config.Config) (report.Store, error) {
	limit := cfg.Int("limit", defaultReportLimit)
	switch driver := cfg.String("driver", ReportMemory); driver {
	case ReportMemory:
		return report.NewMemoryStore(limit), nil
	case ReportSQLite:
		path := cfg.String("path", "")
		if path == "" {
			return nil, fmt.Errorf("report.path: required for the %s driver", ReportSQLite)
		}
		store, err := report.NewSQLiteStore(path, limit)
		if err != nil {
			return nil, fmt.Errorf("open failure journal: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("report.driver: unknown driver %q", driver)
	}
}
