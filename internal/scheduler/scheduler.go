// Package scheduler re-runs the fetch, compute and present pipeline for the
// watched symbol on a fixed interval and on demand.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"StockInsight/internal/collector"
	"StockInsight/internal/metrics"
	"StockInsight/internal/model"
	"StockInsight/internal/render"
)

// ErrNoTarget is returned by a refresh when no symbol is being watched.
var ErrNoTarget = errors.New("no symbol is being watched")

// Sink is a presentation adapter that receives refresh results.
type Sink interface {
	Present(ctx context.Context, ins *model.Insights) error
	PresentError(ctx context.Context, symbol string, err error) error
}

// Analyzer produces insights for a symbol; *collector.Collector satisfies it.
type Analyzer interface {
	Collect(ctx context.Context, symbol, period string) (*model.Insights, error)
}

// Target is the symbol/period pair re-analysed on each tick.
type Target struct {
	Symbol string `json:"symbol"`
	Period string `json:"period"`
}

// Status describes the refresher for status replies and the HTTP API.
type Status struct {
	Target      *Target    `json:"target,omitempty"`
	Interval    string     `json:"interval"`
	Running     bool       `json:"running"`
	LastRefresh *time.Time `json:"last_refresh,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// Refresher drives periodic and manual refreshes of the watch target.
type Refresher struct {
	Analyzer Analyzer
	Sinks    []Sink
	Interval time.Duration
	Metrics  *metrics.Metrics
	Log      *logrus.Logger
	// Format renders /analyze replies. Defaults to render.Panel.
	Format func(*model.Insights) string

	mu          sync.Mutex
	target      *Target
	cron        *cron.Cron
	stopped     chan struct{}
	lastRefresh time.Time
	lastErr     error

	sinkMu sync.Mutex
}

// NewRefresher creates a Refresher writing into sinks.
func NewRefresher(analyzer Analyzer, interval time.Duration, log *logrus.Logger, sinks ...Sink) *Refresher {
	return &Refresher{
		Analyzer: analyzer,
		Sinks:    sinks,
		Interval: interval,
		Log:      log,
		Format:   render.Panel,
	}
}

// Watch makes symbol/period the refresh target.
func (r *Refresher) Watch(symbol, period string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return collector.ErrEmptySymbol
	}
	if period == "" {
		period = collector.DefaultPeriod
	}
	if err := collector.ValidatePeriod(period); err != nil {
		return err
	}

	r.mu.Lock()
	r.target = &Target{Symbol: symbol, Period: period}
	r.mu.Unlock()
	r.Log.WithFields(logrus.Fields{"symbol": symbol, "period": period}).Info("watch target set")
	return nil
}

// Unwatch clears the refresh target and returns the previous one.
func (r *Refresher) Unwatch() (Target, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.target == nil {
		return Target{}, false
	}
	prev := *r.target
	r.target = nil
	return prev, true
}

// Target returns the current watch target.
func (r *Refresher) Target() (Target, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.target == nil {
		return Target{}, false
	}
	return *r.target, true
}

// Status returns a snapshot of the refresher state.
func (r *Refresher) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := Status{
		Interval: r.Interval.String(),
		Running:  r.cron != nil,
	}
	if !r.lastRefresh.IsZero() {
		t := r.lastRefresh
		st.LastRefresh = &t
	}
	if r.target != nil {
		t := *r.target
		st.Target = &t
	}
	if r.lastErr != nil {
		st.LastError = r.lastErr.Error()
	}
	return st
}

// RefreshNow runs one refresh of the watch target immediately.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	return r.refresh(ctx, "manual")
}

// Start schedules a refresh every Interval until ctx is cancelled or Stop
// is called. A tick that fires while the previous run is still going is skipped.
func (r *Refresher) Start(ctx context.Context) error {
	if r.Interval < time.Second {
		return fmt.Errorf("refresh interval %s is below 1s", r.Interval)
	}

	r.mu.Lock()
	if r.cron != nil {
		r.mu.Unlock()
		return errors.New("refresher already started")
	}
	logger := cron.PrintfLogger(r.Log)
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", r.Interval), func() {
		if err := r.refresh(ctx, "scheduled"); err != nil && !errors.Is(err, ErrNoTarget) {
			r.Log.WithError(err).Warn("scheduled refresh failed")
		}
	}); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("register refresh job: %w", err)
	}
	stopped := make(chan struct{})
	r.cron = c
	r.stopped = stopped
	r.mu.Unlock()

	c.Start()
	r.Log.WithField("interval", r.Interval.String()).Info("refresher started")

	go func() {
		select {
		case <-ctx.Done():
			r.stop(c)
		case <-stopped:
		}
	}()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	r.stop(nil)
}

// stop halts the running schedule. When only is set, any other schedule keeps running.
func (r *Refresher) stop(only *cron.Cron) {
	r.mu.Lock()
	c, stopped := r.cron, r.stopped
	if c == nil || (only != nil && c != only) {
		r.mu.Unlock()
		return
	}
	r.cron, r.stopped = nil, nil
	r.mu.Unlock()
	close(stopped)
	<-c.Stop().Done()
	r.Log.Info("refresher stopped")
}

func (r *Refresher) refresh(ctx context.Context, trigger string) error {
	target, ok := r.Target()
	if !ok {
		r.observe(metrics.RefreshIdle)
		return ErrNoTarget
	}

	log := r.Log.WithFields(logrus.Fields{
		"run":     uuid.NewString(),
		"trigger": trigger,
		"symbol":  target.Symbol,
		"period":  target.Period,
	})
	log.Debug("refresh started")

	ins, err := r.Analyzer.Collect(ctx, target.Symbol, target.Period)

	r.mu.Lock()
	r.lastErr = err
	if err == nil {
		r.lastRefresh = time.Now()
	}
	r.mu.Unlock()

	if err != nil {
		r.observe(metrics.RefreshError)
		log.WithError(err).Warn("refresh failed")
		r.present(func(s Sink) error { return s.PresentError(ctx, target.Symbol, err) })
		return err
	}

	r.observe(metrics.RefreshOK)
	log.WithField("price", ins.Price).Info("refresh done")
	r.present(func(s Sink) error { return s.Present(ctx, ins) })
	return nil
}

// present hands one result to every sink, one refresh at a time.
func (r *Refresher) present(fn func(Sink) error) {
	r.sinkMu.Lock()
	defer r.sinkMu.Unlock()
	for _, s := range r.Sinks {
		if err := fn(s); err != nil {
			r.Log.WithError(err).Error("present refresh result")
		}
	}
}

func (r *Refresher) observe(result string) {
	if r.Metrics != nil {
		r.Metrics.ObserveRefresh(result)
	}
}

const helpText = `Available commands:
/analyze SYMBOL [period] - analyze a stock once
/watch SYMBOL [period] - refresh a stock every interval
/unwatch - stop the periodic refresh
/refresh - refresh the watched stock now
/status - show the watch target

Periods: 1d, 5d, 1mo, 3mo, 6mo, 1y`

// HandleCommand processes a chat command and returns the reply.
// An empty reply means the result was already delivered through the sinks.
func (r *Refresher) HandleCommand(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return helpText
	}
	// Telegram appends the bot name in groups: /watch@my_bot
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch cmd {
	case "/analyze":
		if len(args) == 0 {
			return "usage: /analyze SYMBOL [period]"
		}
		symbol, period := args[0], optional(args, 1)
		ins, err := r.Analyzer.Collect(ctx, symbol, period)
		if err != nil {
			return fmt.Sprintf("Error analyzing %s: %v", strings.ToUpper(symbol), err)
		}
		return r.Format(ins)

	case "/watch":
		if len(args) == 0 {
			return "usage: /watch SYMBOL [period]"
		}
		if err := r.Watch(args[0], optional(args, 1)); err != nil {
			return fmt.Sprintf("Cannot watch %s: %v", args[0], err)
		}
		t, _ := r.Target()
		return fmt.Sprintf("Watching %s (%s), refresh every %s", t.Symbol, t.Period, r.Interval)

	case "/unwatch":
		if prev, ok := r.Unwatch(); ok {
			return fmt.Sprintf("Stopped watching %s", prev.Symbol)
		}
		return "Nothing is being watched"

	case "/refresh":
		// Failures other than a missing target already reached the sinks.
		if err := r.RefreshNow(ctx); errors.Is(err, ErrNoTarget) {
			return "Nothing is being watched, use /watch SYMBOL first"
		}
		return ""

	case "/status":
		st := r.Status()
		if st.Target == nil {
			return "Nothing is being watched"
		}
		msg := fmt.Sprintf("Watching %s (%s), refresh every %s", st.Target.Symbol, st.Target.Period, st.Interval)
		if st.LastRefresh != nil {
			msg += "\nLast refresh: " + st.LastRefresh.Format(time.DateTime)
		}
		if st.LastError != "" {
			msg += "\nLast error: " + st.LastError
		}
		return msg

	default:
		return helpText
	}
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
