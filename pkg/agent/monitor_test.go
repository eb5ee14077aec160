package agent

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/driftsec/sentry/internal/classify"
	"github.com/driftsec/sentry/internal/escalate"
	"github.com/driftsec/sentry/internal/types"
	"github.com/driftsec/sentry/pkg/contextstore"
	"github.com/driftsec/sentry/pkg/publish"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// scriptedSource yields its events in order, then cancels the context and
// blocks, so Run drains exactly the scripted events and stops.
type scriptedSource struct {
	events []types.Event
	cancel context.CancelFunc
}

func (s *scriptedSource) Next(ctx context.Context) (types.Event, error) {
	if len(s.events) == 0 {
		s.cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

func runMonitor(t *testing.T, events []types.Event, store publish.ContextStore) *bytes.Buffer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf bytes.Buffer
	pub := publish.New(&buf, store, quietLogger())
	src := &scriptedSource{events: events, cancel: cancel}
	mon := NewMonitor(MonitorConfig{
		Name:        "Test Monitor",
		Domain:      types.DomainNetwork,
		MinInterval: time.Millisecond,
		MaxInterval: 2 * time.Millisecond,
	}, src, classify.New(nil), escalate.NewEngine(), pub, quietLogger())

	if err := mon.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return &buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var rec map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("sink line not valid JSON: %v", err)
		}
		out = append(out, rec)
	}
	return out
}

func countByType(recs []map[string]interface{}, typ string) int {
	n := 0
	for _, rec := range recs {
		if rec["type"] == typ {
			n++
		}
	}
	return n
}

func TestMonitor_BenignEventNoAlert(t *testing.T) {
	store := contextstore.NewMemory()
	buf := runMonitor(t, []types.Event{
		&types.NetworkEvent{Kind: types.NetworkTraffic, Destination: "192.168.1.1", Port: 443, Protocol: "TCP"},
	}, store)

	recs := records(t, buf)
	if countByType(recs, "alert") != 0 || countByType(recs, "incident") != 0 {
		t.Errorf("benign event produced alerts/incidents: %v", recs)
	}
	snap, _ := store.GetContext(context.Background(), types.DomainNetwork, "traffic")
	if snap != nil {
		t.Error("benign event must not share context")
	}
}

// Suspicious-port traffic classifies high, raises alert and incident, and
// shares a context snapshot keyed by its kind.
func TestMonitor_SuspiciousTrafficPipeline(t *testing.T) {
	store := contextstore.NewMemory()
	buf := runMonitor(t, []types.Event{
		&types.NetworkEvent{
			Kind: types.NetworkTraffic, Source: "192.168.1.10", Destination: "45.63.82.91",
			Port: 4444, Protocol: "TCP", Details: "Suspicious outbound connection to uncommon port",
			Timestamp: time.Now(),
		},
	}, store)

	recs := records(t, buf)
	if countByType(recs, "alert") != 1 {
		t.Fatalf("alerts = %d, want 1", countByType(recs, "alert"))
	}
	if countByType(recs, "incident") != 1 {
		t.Fatalf("incidents = %d, want 1", countByType(recs, "incident"))
	}

	snap, err := store.GetContext(context.Background(), types.DomainNetwork, "traffic")
	if err != nil || snap == nil {
		t.Fatalf("snapshot missing: %v", err)
	}
	if snap.RiskLevel == nil || *snap.RiskLevel != types.RiskHigh {
		t.Errorf("snapshot risk = %v, want high", snap.RiskLevel)
	}
	if published := store.Published(types.DomainNetwork); len(published) != 1 {
		t.Errorf("broadcasts = %d, want 1", len(published))
	}
}

// Critical-level malware log raises both alert (forced critical) and incident.
func TestMonitor_MalwareLogScenario(t *testing.T) {
	store := contextstore.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf bytes.Buffer
	pub := publish.New(&buf, store, quietLogger())
	src := &scriptedSource{
		events: []types.Event{&types.LogEvent{
			Level:   "ERROR",
			Message: "Malware signature detected in file: /tmp/.hidden/payload.elf",
			Source:  "Antivirus",
			Details: "Malware detected",
		}},
		cancel: cancel,
	}
	mon := NewMonitor(MonitorConfig{
		Name: "Log Parser", Domain: types.DomainLog,
		MinInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond,
	}, src, classify.New(nil), escalate.NewEngine(), pub, quietLogger())
	if err := mon.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	recs := records(t, &buf)
	var alert map[string]interface{}
	for _, rec := range recs {
		if rec["type"] == "alert" {
			alert = rec
		}
	}
	if alert == nil {
		t.Fatal("expected an alert record")
	}
	if alert["severity"] != "critical" {
		t.Errorf("alert severity = %v, want critical", alert["severity"])
	}
	if countByType(recs, "incident") != 1 {
		t.Errorf("incidents = %d, want 1", countByType(recs, "incident"))
	}

	snap, _ := store.GetContext(context.Background(), types.DomainLog, "Antivirus")
	if snap == nil || snap.Log == nil {
		t.Fatal("log snapshot missing")
	}
	if snap.Severity == nil || *snap.Severity != types.SeverityCritical {
		t.Errorf("snapshot severity = %v", snap.Severity)
	}
}

func TestMonitor_EmitsEventLogRecord(t *testing.T) {
	buf := runMonitor(t, []types.Event{
		&types.NetworkEvent{
			Kind: types.NetworkDNS, Source: "192.168.1.20", Destination: "cdn.example.com",
			Protocol: "DNS", Details: "lookup",
		},
	}, contextstore.NewMemory())

	recs := records(t, buf)
	found := false
	for _, rec := range recs {
		if rec["type"] == "log" {
			if msg, _ := rec["message"].(string); strings.Contains(msg, "dns from 192.168.1.20 to cdn.example.com") {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("observed event should be logged to sink, records: %v", recs)
	}
}

type failingSource struct{}

func (failingSource) Next(ctx context.Context) (types.Event, error) {
	return nil, errors.New("feed corrupted")
}

func TestMonitor_SourceErrorTerminatesLoop(t *testing.T) {
	pub := publish.New(io.Discard, nil, quietLogger())
	mon := NewMonitor(MonitorConfig{
		Name: "Test Monitor", Domain: types.DomainLog,
		MinInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond,
	}, failingSource{}, classify.New(nil), escalate.NewEngine(), pub, quietLogger())

	err := mon.Run(context.Background())
	if err == nil {
		t.Fatal("source failure should terminate the loop with an error")
	}
	if !strings.Contains(err.Error(), "feed corrupted") {
		t.Errorf("error should wrap the cause: %v", err)
	}
}

func TestJitteredInterval_Bounds(t *testing.T) {
	rng := newTestRand()
	min, max := 20*time.Millisecond, 40*time.Millisecond
	for i := 0; i < 1000; i++ {
		d := jitteredInterval(rng, min, max)
		if d < min || d >= max {
			t.Fatalf("interval %v outside [%v, %v)", d, min, max)
		}
	}
	if d := jitteredInterval(rng, min, min); d != min {
		t.Errorf("degenerate bounds: %v", d)
	}
}
