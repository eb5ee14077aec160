package agent

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/driftsec/sentry/internal/respond"
	"github.com/driftsec/sentry/internal/types"
	"github.com/driftsec/sentry/pkg/publish"
)

// ContextKey identifies one snapshot slot in the store.
type ContextKey struct {
	Domain types.Domain
	Label  string
}

// DefaultPriority is the ordered list of snapshot keys the responder
// inspects. The first present snapshot wins; later keys are not considered.
func DefaultPriority() []ContextKey {
	return []ContextKey{
		{Domain: types.DomainNetwork, Label: string(types.NetworkConnection)},
		{Domain: types.DomainNetwork, Label: string(types.NetworkTraffic)},
		{Domain: types.DomainLog, Label: "Auth Logs"},
	}
}

// ResponderConfig configures the response agent.
type ResponderConfig struct {
	Name        string
	MinInterval time.Duration
	MaxInterval time.Duration
	Priority    []ContextKey
	Rand        *rand.Rand
}

// Responder reads the latest context snapshots, selects a remedial action,
// renders its command, and publishes the outcome.
type Responder struct {
	cfg      ResponderConfig
	store    publish.ContextStore // nil when the store is unavailable
	selector *respond.Selector
	pub      *publish.Publisher
	log      *logrus.Logger
	rng      *rand.Rand

	// notify, when non-nil, wakes the loop early on a context broadcast.
	notify <-chan string
}

// NewResponder assembles the response agent. notify may be nil for pure
// polling.
func NewResponder(cfg ResponderConfig, store publish.ContextStore, sel *respond.Selector, pub *publish.Publisher, log *logrus.Logger, notify <-chan string) *Responder {
	if len(cfg.Priority) == 0 {
		cfg.Priority = DefaultPriority()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Responder{cfg: cfg, store: store, selector: sel, pub: pub, log: log, rng: rng, notify: notify}
}

// Run executes the poll loop until the context is cancelled.
func (r *Responder) Run(ctx context.Context) error {
	r.pub.Log("info", r.cfg.Name+" started", nil)
	r.log.WithField("agent", r.cfg.Name).Info("Response agent started")

	for {
		snap := r.latestContext(ctx)
		r.respond(ctx, snap)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(jitteredInterval(r.rng, r.cfg.MinInterval, r.cfg.MaxInterval)):
		case _, ok := <-r.notify:
			if !ok {
				r.notify = nil
			}
		}
	}
}

// latestContext walks the priority keys and returns the first snapshot
// present. Store failures are warnings; an unreachable store yields nil, as
// does a store with no snapshots.
func (r *Responder) latestContext(ctx context.Context) *types.Snapshot {
	if r.store == nil {
		return nil
	}
	for _, key := range r.cfg.Priority {
		snap, err := r.store.GetContext(ctx, key.Domain, key.Label)
		if err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{
				"domain": key.Domain,
				"label":  key.Label,
			}).Warn("Failed to read context, continuing")
			continue
		}
		if snap != nil {
			return snap
		}
	}
	return nil
}

func (r *Responder) respond(ctx context.Context, snap *types.Snapshot) {
	sel := r.selector.Select(snap)

	command, err := respond.Render(sel)
	if err != nil {
		renderFailures.Inc()
		r.log.WithError(err).Error("Skipping response action")
		r.pub.Log("error", "Skipping response action: "+err.Error(), map[string]interface{}{
			"action": sel.Action.Name,
		})
		return
	}

	record := &types.ResponseRecord{
		Action:    sel.Action.Name,
		Command:   command,
		Timestamp: time.Now(),
		Succeeded: true,
	}
	r.pub.Log("info", "Taking automated response: "+sel.Action.Name+" - "+command, map[string]interface{}{
		"action":      sel.Action.Name,
		"description": sel.Action.Description,
		"command":     command,
		"params":      sel.Params,
	})
	responseActions.WithLabelValues(sel.Action.Name).Inc()
	r.pub.ShareResponse(ctx, record)
}
