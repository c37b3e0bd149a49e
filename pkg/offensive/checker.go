package offensive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/offensive/pkg/offensive/observability"
	"github.com/randalmurphal/offensive/pkg/offensive/operation"
	"github.com/randalmurphal/offensive/pkg/offensive/registry"
	"github.com/randalmurphal/offensive/pkg/offensive/report"
	"github.com/randalmurphal/offensive/pkg/offensive/template"
	"github.com/randalmurphal/offensive/pkg/offensive/value"
)

// DefaultErrorName is the error name of checkers created without
// WithErrorName.
const DefaultErrorName = "ContractError"

type assertionEntry struct {
	impl     AssertionFunc
	template string
	params   []string
}

type operatorEntry struct {
	kind     operation.Kind
	impl     OperatorFunc
	template string
}

// Checker owns a catalogue of assertions and operators and starts chains
// against it. A Checker is safe for concurrent use; each chain it starts
// belongs to one goroutine.
type Checker struct {
	assertions *registry.Registry[assertionEntry]
	operators  *registry.Registry[operatorEntry]
	expander   *template.Expander

	errorName     string
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	spans         observability.SpanManager
	tracing       bool
	journal       report.Store
	slowThreshold time.Duration
	ctx           context.Context
}

// Option configures a Checker.
type Option func(*Checker)

// WithErrorName sets the name failed chains report in their AssertionError.
// Default: "ContractError"
func WithErrorName(name string) Option {
	return func(c *Checker) {
		if name != "" {
			c.errorName = name
		}
	}
}

// WithLogger enables structured logging of settled chains.
// Scope transitions are logged at debug level.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithMetrics sets the recorder settled chains are reported to.
func WithMetrics(recorder observability.MetricsRecorder) Option {
	return func(c *Checker) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}

// WithMetricsEnabled switches between the global OpenTelemetry meter
// provider and no metrics.
// Default: disabled
func WithMetricsEnabled(enabled bool) Option {
	return func(c *Checker) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing starts one span per top-level chain.
// Default: disabled
func WithTracing(enabled bool) Option {
	return func(c *Checker) {
		c.tracing = enabled
		if enabled {
			if _, noop := c.spans.(observability.NoopSpanManager); noop {
				c.spans = observability.NewSpanManager()
			}
		}
	}
}

// WithSpanManager sets the span manager and enables tracing.
func WithSpanManager(spans observability.SpanManager) Option {
	return func(c *Checker) {
		if spans != nil {
			c.spans = spans
			c.tracing = true
		}
	}
}

// WithJournal records every failed chain in store.
// The Checker takes ownership: Close closes the store.
func WithJournal(store report.Store) Option {
	return func(c *Checker) {
		c.journal = store
	}
}

// WithContext sets the context used for metrics and spans of chains started
// with Check. CheckContext overrides it per chain.
// Default: context.Background()
func WithContext(ctx context.Context) Option {
	return func(c *Checker) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithSlowThreshold logs a warning for chains that take longer than d.
// Default: 0 (disabled)
func WithSlowThreshold(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.slowThreshold = d
		}
	}
}

// New creates a Checker with the built-in catalogue.
//
// Example:
//
//	checker := offensive.New(offensive.WithErrorName("ArgumentError"))
//	if err := checker.Check(port, "port").Is().ANumber().And().Gt(0).Err(); err != nil {
//	    return err
//	}
func New(opts ...Option) *Checker {
	assertions, operators := catalog()
	c := &Checker{
		assertions: assertions.Clone(),
		operators:  operators.Clone(),
		expander:   template.NewExpander(template.WithFormatter(value.Describe)),
		errorName:  DefaultErrorName,
		metrics:    observability.NoopMetrics{},
		spans:      observability.NoopSpanManager{},
		ctx:        context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ErrorName returns the name failed chains report.
func (c *Checker) ErrorName() string { return c.errorName }

// Journal returns the failure journal, or nil if none was configured.
func (c *Checker) Journal() report.Store { return c.journal }

// Assertions returns the registered assertion names, aliases included.
func (c *Checker) Assertions() []string { return c.assertions.Names() }

// Operators returns the registered operator names, aliases included.
func (c *Checker) Operators() []string { return c.operators.Names() }

// Register adds or replaces an assertion. tmpl is its message; ${name}
// placeholders are filled from the arguments, by position (${0}) or by the
// matching entry of params.
//
// Example:
//
//	err := checker.Register("even", func(op *operation.Operation, ctx *offensive.Context, args []any) (offensive.Outcome, error) {
//	    return offensive.Operand(func(v any) bool { n, ok := v.(int); return ok && n%2 == 0 }), nil
//	}, "even")
func (c *Checker) Register(name string, impl AssertionFunc, tmpl string, params ...string) error {
	if impl == nil {
		return fmt.Errorf("register %q: %w: nil implementation", name, ErrInvalidArgument)
	}
	if err := c.expander.Validate(tmpl, params); err != nil {
		return fmt.Errorf("register %q: %w: %v", name, ErrInvalidArgument, err)
	}
	entry := assertionEntry{impl: impl, template: tmpl, params: params}
	if err := c.assertions.Register(name, entry); err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	return nil
}

// RegisterOperator adds or replaces an operator. kind must be
// operation.KindUnary or operation.KindBinary.
func (c *Checker) RegisterOperator(name string, kind operation.Kind, impl OperatorFunc, tmpl string) error {
	if impl == nil {
		return fmt.Errorf("register operator %q: %w: nil implementation", name, ErrInvalidArgument)
	}
	if !kind.IsOperator() {
		return fmt.Errorf("register operator %q: %w: kind %s", name, ErrInvalidArgument, kind)
	}
	if err := c.operators.Register(name, operatorEntry{kind: kind, impl: impl, template: tmpl}); err != nil {
		return fmt.Errorf("register operator %q: %w", name, err)
	}
	return nil
}

// Alias makes alias another name of the assertion or operator target.
func (c *Checker) Alias(alias, target string) error {
	switch {
	case c.assertions.Has(target):
		return c.assertions.Alias(alias, target)
	case c.operators.Has(target):
		return c.operators.Alias(alias, target)
	}
	return fmt.Errorf("alias %q: %w: %q", alias, ErrUnknownAssertion, target)
}

// Check starts a chain against value, reported under name.
func (c *Checker) Check(value any, name string) *AssertionContext {
	return c.CheckContext(c.ctx, value, name)
}

// CheckContext is Check with a context for metrics and spans.
func (c *Checker) CheckContext(ctx context.Context, value any, name string) *AssertionContext {
	if ctx == nil {
		ctx = c.ctx
	}
	chain := newContext(c, value, name, c.onError)
	chain.evaluationID = uuid.NewString()
	chain.start = time.Now()
	chain.logger = observability.EnrichLogger(c.logger, chain.evaluationID, name)
	chain.goctx = ctx
	if c.tracing {
		chain.goctx, chain.span = c.spans.StartCheckSpan(ctx, name, chain.evaluationID)
	}
	return chain.assertions
}

// Close releases the failure journal.
func (c *Checker) Close() error {
	if c.journal == nil {
		return nil
	}
	return c.journal.Close()
}

func (c *Checker) expand(tmpl string, params []string, args []any) (string, error) {
	msg, err := c.expander.Expand(tmpl, template.Args(args, params...))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return msg, nil
}

func (c *Checker) onError(chain *Context) {
	chain.failure = &AssertionError{
		Name:         chain.name,
		Message:      chain.message,
		ErrorName:    c.errorName,
		EvaluationID: chain.evaluationID,
	}
}

// finish reports a settled top-level chain.
func (c *Checker) finish(chain *Context) {
	duration := time.Since(chain.start)
	durationMs := float64(duration.Microseconds()) / 1000
	err := chain.outcome()

	var structural *StructuralError
	if errors.As(err, &structural) {
		observability.LogStructuralError(chain.logger, structural.Op, structural.Err)
		c.metrics.RecordStructuralError(chain.goctx, structural.Op)
	}
	c.metrics.RecordCheck(chain.goctx, c.errorName, err == nil, duration)

	switch {
	case err == nil:
		observability.LogCheckPassed(chain.logger, durationMs, len(chain.root.Names()))
	case chain.failure != nil && chain.err == nil:
		observability.LogCheckFailed(chain.logger, c.errorName, chain.message, durationMs)
		c.save(chain)
	}
	if c.slowThreshold > 0 && duration > c.slowThreshold {
		observability.LogSlowCheck(chain.logger, durationMs, c.slowThreshold)
	}
	if chain.span != nil {
		c.spans.EndSpanWithError(chain.span, err)
	}
}

func (c *Checker) save(chain *Context) {
	if c.journal == nil {
		return
	}
	err := c.journal.Save(report.Entry{
		EvaluationID: chain.evaluationID,
		Subject:      chain.name,
		ErrorName:    c.errorName,
		Message:      chain.message,
		Value:        value.Describe(chain.value),
		Timestamp:    chain.start,
	})
	if err != nil {
		observability.LogJournalError(chain.logger, "save", err)
	}
}

var (
	defaultOnce    sync.Once
	defaultChecker *Checker
	named          sync.Map
)

// Default returns the checker used by the package-level Check.
func Default() *Checker {
	defaultOnce.Do(func() {
		defaultChecker = New()
	})
	return defaultChecker
}

// Check starts a chain on the default checker.
//
// Example:
//
//	if err := offensive.Check(x, "x").Is().ANumber().And().Gt(0).Err(); err != nil {
//	    return err
//	}
func Check(value any, name string) *AssertionContext {
	return Default().Check(value, name)
}

// WithError returns a shared checker whose failures carry errorName.
func WithError(errorName string) *Checker {
	if c, ok := named.Load(errorName); ok {
		return c.(*Checker)
	}
	c, _ := named.LoadOrStore(errorName, New(WithErrorName(errorName)))
	return c.(*Checker)
}
