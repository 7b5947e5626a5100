package daemon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"tododaemon/internal/auth"
	"tododaemon/internal/config"
	"tododaemon/internal/formatting"
	"tododaemon/internal/template"
	"tododaemon/internal/todolist"
	"tododaemon/pkg/logging"
)

// TokenAcquirer obtains access tokens.
type TokenAcquirer interface {
	Acquire(ctx context.Context, resource string) (*auth.AccessToken, error)
	// Invalidate forgets any cached token for resource.
	Invalidate(resource string)
}

// ListClient performs the To Do API calls.
type ListClient interface {
	CreateItem(ctx context.Context, token *auth.AccessToken, title string) error
	ListItems(ctx context.Context, token *auth.AccessToken) ([]todolist.Item, error)
}

// Summary counts what a run did.
type Summary struct {
	// Iterations is the number of iterations started.
	Iterations   int
	Created      int
	Listed       int
	AuthFailures int
	APIFailures  int
	// Cancelled is true when the context ended the run early.
	Cancelled bool
}

// Failures returns the number of failed steps.
func (s Summary) Failures() int {
	return s.AuthFailures + s.APIFailures
}

// Loop runs create-then-list cycles against the To Do API.
type Loop struct {
	acquirer  TokenAcquirer
	client    ListClient
	resource  string
	titles    *template.Engine
	formatter formatting.Formatter
	out       io.Writer
	runID     string
	now       func() time.Time
}

// Option configures a Loop.
type Option func(*Loop)

// WithOutput sets where operator output is written (default stdout).
func WithOutput(w io.Writer) Option {
	return func(l *Loop) {
		l.out = w
	}
}

// WithFormatter sets how item lists are printed (default table).
func WithFormatter(f formatting.Formatter) Option {
	return func(l *Loop) {
		l.formatter = f
	}
}

// WithTitleEngine sets the item title template.
func WithTitleEngine(e *template.Engine) Option {
	return func(l *Loop) {
		l.titles = e
	}
}

// WithRunID sets the identifier exposed to title templates and logs.
func WithRunID(id string) Option {
	return func(l *Loop) {
		l.runID = id
	}
}

// WithClock sets the time source of the fallback title.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		l.now = now
	}
}

// New creates a Loop acquiring tokens for resource.
func New(acquirer TokenAcquirer, client ListClient, resource string, opts ...Option) (*Loop, error) {
	l := &Loop{
		acquirer:  acquirer,
		client:    client,
		resource:  resource,
		formatter: formatting.New(formatting.Options{Format: formatting.FormatTable}),
		out:       os.Stdout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.titles == nil {
		engine, err := template.New(config.DefaultTitleTemplate, template.WithClock(l.now))
		if err != nil {
			return nil, err
		}
		l.titles = engine
	}
	return l, nil
}

// Run performs iterations create-then-list cycles, waiting delay after every
// call. Failed steps are reported and the run goes on; only ctx ends it early.
func (l *Loop) Run(ctx context.Context, iterations int, delay time.Duration) Summary {
	var summary Summary

	logging.InfoAttrs("Daemon", "Starting run",
		slog.String("run_id", l.runID),
		slog.Int("iterations", iterations),
		slog.Duration("delay", delay))

	for i := 1; i <= iterations; i++ {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}
		summary.Iterations++
		logging.Debug("Daemon", "Iteration %d/%d", i, iterations)

		l.create(ctx, i, &summary)
		if err := wait(ctx, delay); err != nil {
			summary.Cancelled = true
			break
		}

		l.list(ctx, &summary)
		if err := wait(ctx, delay); err != nil {
			summary.Cancelled = true
			break
		}
	}

	logging.InfoAttrs("Daemon", "Run finished",
		slog.String("run_id", l.runID),
		slog.Int("iterations", summary.Iterations),
		slog.Int("created", summary.Created),
		slog.Int("listed", summary.Listed),
		slog.Int("auth_failures", summary.AuthFailures),
		slog.Int("api_failures", summary.APIFailures),
		slog.Bool("cancelled", summary.Cancelled))
	return summary
}

func (l *Loop) create(ctx context.Context, iteration int, summary *Summary) {
	token, err := l.acquirer.Acquire(ctx, l.resource)
	if err != nil {
		summary.AuthFailures++
		l.report(err, "Failed to acquire token for create")
		return
	}

	title := l.title(iteration)
	if err := l.client.CreateItem(ctx, token, title); err != nil {
		summary.APIFailures++
		l.report(err, "Failed to create item %q", title)
		l.dropRejectedToken(err)
		return
	}

	summary.Created++
	fmt.Fprintf(l.out, "Created item %q\n", title)
}

func (l *Loop) list(ctx context.Context, summary *Summary) {
	token, err := l.acquirer.Acquire(ctx, l.resource)
	if err != nil {
		summary.AuthFailures++
		l.report(err, "Failed to acquire token for list")
		return
	}

	items, err := l.client.ListItems(ctx, token)
	if err != nil {
		summary.APIFailures++
		l.report(err, "Failed to list items")
		l.dropRejectedToken(err)
		return
	}

	summary.Listed++
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	fmt.Fprint(l.out, l.formatter.FormatItems(formatting.NewItemList(titles)))
}

func (l *Loop) title(iteration int) string {
	title, err := l.titles.Render(template.Context{
		Iteration: iteration,
		RunID:     l.runID,
		Resource:  l.resource,
	})
	if err != nil || title == "" {
		logging.Warn("Daemon", "Title template produced no title, using default: %v", err)
		return "Task at time: " + l.now().Format("2006-01-02 15:04:05")
	}
	return title
}

// dropRejectedToken makes the next call request a new token when the
// service answered 401.
func (l *Loop) dropRejectedToken(err error) {
	if todolist.IsUnauthorized(err) {
		logging.Warn("Daemon", "Token for %s was rejected, requesting a new one for the next call", l.resource)
		l.acquirer.Invalidate(l.resource)
	}
}

// report writes a failure to the operator output and the log.
func (l *Loop) report(err error, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.out, "%s: %v\n", msg, err)
	logging.Error("Daemon", err, "%s", msg)
}

// wait pauses for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
