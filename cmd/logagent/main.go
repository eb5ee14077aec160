package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/driftsec/sentry/internal/classify"
	"github.com/driftsec/sentry/internal/config"
	"github.com/driftsec/sentry/internal/escalate"
	"github.com/driftsec/sentry/internal/server"
	"github.com/driftsec/sentry/internal/types"
	"github.com/driftsec/sentry/internal/version"
	"github.com/driftsec/sentry/pkg/agent"
	"github.com/driftsec/sentry/pkg/contextstore"
	"github.com/driftsec/sentry/pkg/publish"
	"github.com/driftsec/sentry/pkg/source"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)

	cfg := config.DefaultLogAgentConfig()
	log.WithFields(logrus.Fields{
		"version": version.Version,
		"agent":   cfg.AgentName,
		"id":      cfg.AgentID,
	}).Info("Starting log monitoring agent")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var store publish.ContextStore
	client, err := contextstore.New(contextstore.Config{URL: cfg.RedisURL, Namespace: cfg.Namespace}, log)
	if err != nil {
		log.WithError(err).Warn("Context store unavailable, continuing without it")
	} else {
		store = client
		defer client.Close()
	}

	policy := classify.DefaultPolicy()
	if cfg.PolicyPath != "" {
		policy, err = classify.LoadPolicy(cfg.PolicyPath)
		if err != nil {
			log.WithError(err).Error("Failed to load classification policy")
			return 1
		}
	}

	var src agent.EventSource
	if cfg.EventFile != "" {
		fileSrc, err := source.NewFileSource(cfg.EventFile, types.DomainLog, log)
		if err != nil {
			log.WithError(err).Error("Failed to open event file")
			return 1
		}
		defer fileSrc.Close()
		src = fileSrc
	} else {
		src = source.NewSampleLogSource(nil)
	}

	pub := publish.New(os.Stdout, store, log)
	mon := agent.NewMonitor(agent.MonitorConfig{
		Name:        cfg.AgentName,
		Domain:      types.DomainLog,
		MinInterval: cfg.MinInterval,
		MaxInterval: cfg.MaxInterval,
	}, src, classify.New(policy), escalate.NewEngine(), pub, log)

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
	go func() { errCh <- mon.Run(ctx) }()

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
		cancel()
		<-errCh
		log.Info("Agent shutdown complete")
		return 0
	case err := <-errCh:
		if err != nil {
			pub.Log("critical", "Error in log parsing: "+err.Error(), nil)
			log.WithError(err).Error("Agent terminated on processing error")
			return 1
		}
		return 0
	}
}
