// Package contextstore is the typed client for the shared Redis key/value and
// publish/subscribe service that agents use to exchange context snapshots.
package contextstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/driftsec/sentry/internal/types"
)

// Config for the context store client.
type Config struct {
	// URL is a redis:// connection URL.
	URL string
	// Namespace prefixes every key and channel.
	Namespace string
	// PingTimeout bounds the connection check at startup.
	PingTimeout time.Duration
}

// Client wraps the Redis connection. It is the only component that touches
// the external store. All operations are best-effort from the caller's point
// of view; callers log failures and continue without the store.
type Client struct {
	rdb       *redis.Client
	namespace string
	log       *logrus.Logger
}

// New connects to the store and verifies the connection with a ping.
func New(cfg Config, log *logrus.Logger) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	timeout := cfg.PingTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping context store: %w", err)
	}

	log.WithField("url", cfg.URL).Info("Connected to context store")
	return &Client{rdb: rdb, namespace: cfg.Namespace, log: log}, nil
}

// Key builds the store key for a (domain, source label) pair under a
// namespace.
func Key(namespace string, domain types.Domain, label string) string {
	return fmt.Sprintf("%s:context:%s:%s", namespace, domain, label)
}

// Channel builds the broadcast channel name for a domain under a namespace.
func Channel(namespace string, domain types.Domain) string {
	switch domain {
	case types.DomainLog:
		return fmt.Sprintf("%s:logs:alerts", namespace)
	case types.DomainNetwork:
		return fmt.Sprintf("%s:network:threats", namespace)
	default:
		return fmt.Sprintf("%s:response:actions", namespace)
	}
}

// ContextKey builds the store key for a (domain, source label) pair.
func (c *Client) ContextKey(domain types.Domain, label string) string {
	return Key(c.namespace, domain, label)
}

// ChannelFor builds the broadcast channel name for a domain.
func (c *Client) ChannelFor(domain types.Domain) string {
	return Channel(c.namespace, domain)
}

// PutContext upserts the snapshot under its key. Last write wins; there is no
// versioning and no history.
func (c *Client) PutContext(ctx context.Context, domain types.Domain, label string, snap *types.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, c.ContextKey(domain, label), data, 0).Err(); err != nil {
		return fmt.Errorf("put context: %w", err)
	}
	return nil
}

// GetContext looks up the snapshot for a key. A never-written key yields
// (nil, nil): absence is a valid, non-error outcome.
func (c *Client) GetContext(ctx context.Context, domain types.Domain, label string) (*types.Snapshot, error) {
	data, err := c.rdb.Get(ctx, c.ContextKey(domain, label)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get context: %w", err)
	}
	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Publish broadcasts the snapshot on the domain's channel. Fire-and-forget:
// subscribers that are not listening miss the message.
func (c *Client) Publish(ctx context.Context, domain types.Domain, snap *types.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.rdb.Publish(ctx, c.ChannelFor(domain), data).Err(); err != nil {
		return fmt.Errorf("publish context: %w", err)
	}
	return nil
}

// Subscription delivers broadcast payloads from one or more domain channels.
type Subscription struct {
	ps *redis.PubSub
	ch chan string
}

// Subscribe listens on the broadcast channels of the given domains. Messages
// are dropped rather than buffered when the consumer lags.
func (c *Client) Subscribe(ctx context.Context, domains ...types.Domain) *Subscription {
	channels := make([]string, 0, len(domains))
	for _, d := range domains {
		channels = append(channels, c.ChannelFor(d))
	}
	ps := c.rdb.Subscribe(ctx, channels...)
	sub := &Subscription{ps: ps, ch: make(chan string, 8)}
	go func() {
		defer close(sub.ch)
		for msg := range ps.Channel() {
			select {
			case sub.ch <- msg.Payload:
			default:
			}
		}
	}()
	return sub
}

// Messages returns the channel of broadcast payloads. It is closed when the
// subscription is closed.
func (s *Subscription) Messages() <-chan string {
	return s.ch
}

// Close tears down the subscription.
func (s *Subscription) Close() error {
	return s.ps.Close()
}

// Close releases the store connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
