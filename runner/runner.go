package runner

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stakestar/nodechecker/audit"
	"github.com/stakestar/nodechecker/report"
	"github.com/stakestar/nodechecker/roster"
	"github.com/stakestar/nodechecker/stats"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher retrieves the raw stats payload of a node.
type Fetcher interface {
	Fetch(ctx context.Context, node roster.NodeEntry) ([]byte, error)
}

// Locator resolves a node address to a location used in log entries.
type Locator interface {
	Locate(address string) (string, error)
}

// Runner checks every node of a roster and reports the findings in roster order.
type Runner struct {
	logger   *zap.Logger
	fetcher  Fetcher
	reporter *report.Reporter
	locator  Locator
	workers  int
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers lets up to n nodes be checked at once. Output order is unaffected.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLocator adds the node's location to every log entry of its check.
func WithLocator(l Locator) Option {
	return func(r *Runner) {
		r.locator = l
	}
}

// New creates a Runner that checks one node at a time unless WithWorkers says otherwise.
func New(logger *zap.Logger, fetcher Fetcher, reporter *report.Reporter, opts ...Option) *Runner {
	r := &Runner{
		logger:   logger.With(zap.String("who", "Runner")),
		fetcher:  fetcher,
		reporter: reporter,
		workers:  1,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

type result struct {
	findings []audit.Finding
	down     bool
	// interrupted is set when the run's context ended before the check completed.
	interrupted bool
}

// Run loads the roster and checks each node. Unhealthy or unreachable nodes
// are reported, not treated as errors. A roster failure is returned before any
// node is checked; a cancelled context stops the run at the first node it cut
// short, which is not reported, and its error is returned.
func (r *Runner) Run(ctx context.Context, rosterPath string) error {
	nodes, err := roster.Load(rosterPath)
	if err != nil {
		return err
	}

	logger := r.logger.With(zap.String("run", uuid.NewString()))
	logger.Info("checking nodes",
		zap.String("roster", rosterPath),
		zap.Int("nodes", len(nodes)),
		zap.Int("workers", r.workers))

	var checked, down int
	emit := func(res result) bool {
		if res.interrupted {
			return false
		}
		r.reporter.Report(res.findings)
		checked++
		if res.down {
			down++
		}
		return true
	}

	if r.workers <= 1 {
		for _, node := range nodes {
			if !emit(r.check(ctx, logger, node)) {
				break
			}
		}
	} else {
		results := make([]result, len(nodes))
		var g errgroup.Group
		g.SetLimit(r.workers)
		for i, node := range nodes {
			g.Go(func() error {
				results[i] = r.check(ctx, logger, node)
				return nil
			})
		}
		_ = g.Wait()
		for _, res := range results {
			if !emit(res) {
				break
			}
		}
	}

	if checked < len(nodes) {
		logger.Warn("check interrupted", zap.Int("checked", checked), zap.Int("nodes", len(nodes)))
		return errors.Wrapf(ctx.Err(), "check interrupted after %d of %d nodes", checked, len(nodes))
	}
	logger.Info("check complete", zap.Int("nodes", len(nodes)), zap.Int("down", down))
	return nil
}

func (r *Runner) check(ctx context.Context, logger *zap.Logger, node roster.NodeEntry) result {
	if ctx.Err() != nil {
		return result{interrupted: true}
	}
	logger = logger.With(zap.String("node", node.IPAddress))
	if r.locator != nil {
		if location, err := r.locator.Locate(node.IPAddress); err != nil {
			logger.Debug("could not locate node", zap.Error(err))
		} else {
			logger = logger.With(zap.String("location", location))
		}
	}

	body, err := r.fetcher.Fetch(ctx, node)
	if err == nil {
		var rep stats.AuditReport
		rep, err = stats.Decode(body)
		if err == nil {
			findings := audit.Evaluate(rep)
			logger.Debug("node evaluated", zap.Int("findings", len(findings)))
			return result{findings: findings}
		}
	}

	if ctx.Err() != nil {
		logger.Debug("node check interrupted", zap.Error(err))
		return result{interrupted: true}
	}
	logger.Debug("node is down", zap.Error(err))
	return result{findings: []audit.Finding{audit.Down(node)}, down: true}
}
