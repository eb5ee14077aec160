// Package agent runs the monitoring and response agent loops. Each agent is
// an independent single-threaded poll loop; agents never share memory, only
// the external context store.
package agent

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/driftsec/sentry/internal/classify"
	"github.com/driftsec/sentry/internal/escalate"
	"github.com/driftsec/sentry/internal/types"
	"github.com/driftsec/sentry/pkg/publish"
)

// EventSource yields the next event on demand. It may block until an event is
// available or the context is done.
type EventSource interface {
	Next(ctx context.Context) (types.Event, error)
}

// MonitorConfig configures one monitoring agent.
type MonitorConfig struct {
	Name   string
	Domain types.Domain

	// Poll interval bounds; each iteration sleeps a jittered duration
	// within [MinInterval, MaxInterval].
	MinInterval time.Duration
	MaxInterval time.Duration

	// Rand drives the sleep jitter. Nil uses a time-seeded source.
	Rand *rand.Rand
}

// Monitor is one monitoring agent: fetch, classify, escalate, publish, sleep.
type Monitor struct {
	cfg        MonitorConfig
	source     EventSource
	classifier *classify.Classifier
	engine     *escalate.Engine
	pub        *publish.Publisher
	log        *logrus.Logger
	rng        *rand.Rand
}

// NewMonitor assembles a monitoring agent.
func NewMonitor(cfg MonitorConfig, src EventSource, cl *classify.Classifier, eng *escalate.Engine, pub *publish.Publisher, log *logrus.Logger) *Monitor {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Monitor{cfg: cfg, source: src, classifier: cl, engine: eng, pub: pub, log: log, rng: rng}
}

// Run executes the poll loop until the context is cancelled (returns nil) or
// an unrecoverable processing error occurs (returns the error; the caller is
// expected to log it and exit, leaving restart to the supervisor).
func (m *Monitor) Run(ctx context.Context) error {
	m.pub.Log("info", fmt.Sprintf("%s started", m.cfg.Name), nil)
	m.log.WithField("agent", m.cfg.Name).Info("Monitoring agent started")

	for {
		ev, err := m.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch event: %w", err)
		}

		m.process(ctx, ev)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(jitteredInterval(m.rng, m.cfg.MinInterval, m.cfg.MaxInterval)):
		}
	}
}

func (m *Monitor) process(ctx context.Context, ev types.Event) {
	m.emitEventLog(ev)

	risk := m.classifier.Classify(ev)
	eventsProcessed.WithLabelValues(m.cfg.Name, string(ev.Domain()), risk.String()).Inc()

	alert, incident := m.engine.Escalate(ev, risk)
	if alert == nil {
		return
	}

	m.pub.Alert(alert)
	alertsGenerated.WithLabelValues(m.cfg.Name, alert.Severity.String()).Inc()
	if incident != nil {
		m.pub.Incident(incident)
		incidentsGenerated.WithLabelValues(m.cfg.Name).Inc()
	}
	m.pub.ShareContext(ctx, ev, risk, alert.Severity)
}

// emitEventLog writes the observed event to the sink as a log record, the way
// a collector downstream expects raw observations.
func (m *Monitor) emitEventLog(ev types.Event) {
	switch e := ev.(type) {
	case *types.LogEvent:
		m.pub.Log(
			types.NormalizeLogLevel(e.Level),
			fmt.Sprintf("[%s] %s", e.Source, e.Message),
			map[string]interface{}{"source": e.Source, "details": e.Details},
		)
	case *types.NetworkEvent:
		desc := fmt.Sprintf("%s from %s to %s", e.Kind, e.Source, e.Destination)
		if e.Port > 0 {
			desc += fmt.Sprintf(" on port %d", e.Port)
		}
		desc += fmt.Sprintf(" (%s)", e.Protocol)
		m.pub.Log("info", desc, map[string]interface{}{"event": e})
	}
}

func jitteredInterval(rng *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rng.Int63n(int64(max-min)))
}
