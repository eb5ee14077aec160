package source

import (
	"context"
	"math/rand"
	"time"

	"github.com/driftsec/sentry/internal/types"
)

// SampleSource yields events drawn from a fixed sample set, stamping each
// with the current time. The rand source is injectable so simulations can be
// seeded.
type SampleSource struct {
	next func() types.Event
}

// NewSampleLogSource builds a source over the built-in log samples. A nil rng
// uses a time-seeded one.
func NewSampleLogSource(rng *rand.Rand) *SampleSource {
	rng = orSeeded(rng)
	entries := SampleLogEntries()
	return &SampleSource{next: func() types.Event {
		entry := entries[rng.Intn(len(entries))]
		entry.Timestamp = time.Now()
		return &entry
	}}
}

// NewSampleNetworkSource builds a source over the built-in network samples.
func NewSampleNetworkSource(rng *rand.Rand) *SampleSource {
	rng = orSeeded(rng)
	events := SampleNetworkEvents()
	return &SampleSource{next: func() types.Event {
		event := events[rng.Intn(len(events))]
		event.Timestamp = time.Now()
		return &event
	}}
}

func orSeeded(rng *rand.Rand) *rand.Rand {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rng
}

// Next returns the next sampled event. It never blocks.
func (s *SampleSource) Next(ctx context.Context) (types.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.next(), nil
}
