package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/driftsec/sentry/internal/config"
	"github.com/driftsec/sentry/internal/respond"
	"github.com/driftsec/sentry/internal/server"
	"github.com/driftsec/sentry/internal/types"
	"github.com/driftsec/sentry/internal/version"
	"github.com/driftsec/sentry/pkg/agent"
	"github.com/driftsec/sentry/pkg/contextstore"
	"github.com/driftsec/sentry/pkg/publish"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)

	cfg := config.DefaultResponderConfig()
	log.WithFields(logrus.Fields{
		"version": version.Version,
		"agent":   cfg.AgentName,
		"id":      cfg.AgentID,
	}).Info("Starting response agent")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var store publish.ContextStore
	var notify <-chan string
	client, err := contextstore.New(contextstore.Config{URL: cfg.RedisURL, Namespace: cfg.Namespace}, log)
	if err != nil {
		log.WithError(err).Warn("Context store unavailable, continuing without it")
	} else {
		store = client
		defer client.Close()
		sub := client.Subscribe(ctx, types.DomainLog, types.DomainNetwork)
		defer sub.Close()
		notify = sub.Messages()
	}

	catalog := respond.DefaultCatalog()
	if cfg.ActionsPath != "" {
		catalog, err = respond.LoadCatalog(cfg.ActionsPath)
		if err != nil {
			log.WithError(err).Error("Failed to load response catalog")
			return 1
		}
	}
	selector, err := respond.NewSelector(catalog)
	if err != nil {
		log.WithError(err).Error("Invalid response catalog")
		return 1
	}

	var priority []agent.ContextKey
	for _, raw := range cfg.Priority {
		domain, label, ok := config.ParseContextKey(raw)
		if !ok {
			log.WithField("key", raw).Error("Invalid priority context key")
			return 1
		}
		priority = append(priority, agent.ContextKey{Domain: domain, Label: label})
	}

	pub := publish.New(os.Stdout, store, log)
	responder := agent.NewResponder(agent.ResponderConfig{
		Name:        cfg.AgentName,
		MinInterval: cfg.MinInterval,
		MaxInterval: cfg.MaxInterval,
		Priority:    priority,
	}, store, selector, pub, log, notify)

	if cfg.HTTPAddr != "" {
		srv := server.New(cfg.HTTPAddr, cfg.AgentName, log)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("HTTP endpoint error")
			}
		}()
		defer func() {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancelShutdown()
			srv.Shutdown(shutdownCtx)
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- responder.Run(ctx) }()

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
		cancel()
		<-errCh
		log.Info("Agent shutdown complete")
		return 0
	case err := <-errCh:
		if err != nil {
			pub.Log("critical", "Error in response agent: "+err.Error(), nil)
			log.WithError(err).Error("Agent terminated on processing error")
			return 1
		}
		return 0
	}
}
