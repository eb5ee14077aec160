// Package publish serializes log, alert, and incident records to the output
// sink and pushes context snapshots into the shared store.
package publish

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/driftsec/sentry/internal/types"
)

var storeErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sentry_store_errors_total",
		Help: "Total context store operations that failed",
	},
	[]string{"op"},
)

func init() {
	prometheus.MustRegister(storeErrors)
}

// ContextStore is the store surface the publisher and response agent need.
// Implemented by contextstore.Client and contextstore.Memory.
type ContextStore interface {
	PutContext(ctx context.Context, domain types.Domain, label string, snap *types.Snapshot) error
	GetContext(ctx context.Context, domain types.Domain, label string) (*types.Snapshot, error)
	Publish(ctx context.Context, domain types.Domain, snap *types.Snapshot) error
}

// Publisher writes structured records to the sink, one self-contained JSON
// record per line, keyed by a "type" discriminator. Store failures degrade to
// warnings; the sink and the store are side channels, never required for the
// calling agent's liveness.
type Publisher struct {
	mu    sync.Mutex
	enc   *json.Encoder
	store ContextStore // nil when the store is unavailable
	log   *logrus.Logger
}

// New creates a publisher writing to sink. A nil store disables context
// sharing.
func New(sink io.Writer, store ContextStore, log *logrus.Logger) *Publisher {
	return &Publisher{enc: json.NewEncoder(sink), store: store, log: log}
}

type logRecord struct {
	Type     string                 `json:"type"`
	Level    string                 `json:"level"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata"`
}

type alertRecord struct {
	Type        string         `json:"type"`
	Severity    types.Severity `json:"severity"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Metadata    interface{}    `json:"metadata,omitempty"`
}

type incidentRecord struct {
	Type         string      `json:"type"`
	IncidentType string      `json:"incidentType"`
	Metadata     interface{} `json:"metadata,omitempty"`
}

func (p *Publisher) emit(record interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enc.Encode(record); err != nil {
		p.log.WithError(err).Warn("Failed to write sink record")
	}
}

// Log emits a structured log record to the sink.
func (p *Publisher) Log(level, message string, metadata map[string]interface{}) {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	p.emit(logRecord{Type: "log", Level: level, Message: message, Metadata: metadata})
}

// Alert emits an alert record to the sink.
func (p *Publisher) Alert(a *types.Alert) {
	p.emit(alertRecord{
		Type:        "alert",
		Severity:    a.Severity,
		Title:       a.Title,
		Description: a.Description,
		Metadata:    a.Event,
	})
}

// Incident emits an incident record to the sink.
func (p *Publisher) Incident(in *types.Incident) {
	p.emit(incidentRecord{
		Type:         "incident",
		IncidentType: in.Type,
		Metadata: map[string]interface{}{
			"event":      in.Event,
			"risk_level": in.RiskLevel,
		},
	})
}

// ShareContext writes the event's snapshot to the store under its
// (domain, source label) key and broadcasts it on the domain channel.
// Best-effort: failures are logged and swallowed.
func (p *Publisher) ShareContext(ctx context.Context, ev types.Event, risk types.RiskLevel, sev types.Severity) {
	if p.store == nil {
		return
	}
	snap := types.NewEventSnapshot(ev, risk, sev, time.Now())
	p.shareSnapshot(ctx, ev.Domain(), ev.SourceLabel(), snap)
}

// ShareResponse writes a response record snapshot under the response domain,
// keyed by action name.
func (p *Publisher) ShareResponse(ctx context.Context, rec *types.ResponseRecord) {
	if p.store == nil {
		return
	}
	snap := types.NewResponseSnapshot(rec, time.Now())
	p.shareSnapshot(ctx, types.DomainResponse, rec.Action, snap)
}

func (p *Publisher) shareSnapshot(ctx context.Context, domain types.Domain, label string, snap *types.Snapshot) {
	if err := p.store.PutContext(ctx, domain, label, snap); err != nil {
		storeErrors.WithLabelValues("put").Inc()
		p.log.WithError(err).WithFields(logrus.Fields{
			"domain": domain,
			"label":  label,
		}).Warn("Failed to share context, continuing without store")
		return
	}
	if err := p.store.Publish(ctx, domain, snap); err != nil {
		storeErrors.WithLabelValues("publish").Inc()
		p.log.WithError(err).WithField("domain", domain).Warn("Failed to broadcast context")
	}
}

// Store returns the configured context store, nil when disabled.
func (p *Publisher) Store() ContextStore {
	return p.store
}
