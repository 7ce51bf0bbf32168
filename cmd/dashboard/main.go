package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"vote-dashboard-go/internal/config"
	"vote-dashboard-go/internal/dataset"
	"vote-dashboard-go/internal/logger"
	"vote-dashboard-go/internal/metrics"
	"vote-dashboard-go/internal/roster"
	"vote-dashboard-go/internal/web"
)

const shutdownTimeout = 5 * time.Second

func main() {
	_ = godotenv.Load() // loads .env

	cfg, err := config.FromEnv()
	if err != nil {
		logger.New().WithError(err).Fatal("invalid configuration")
	}
	log := logger.NewWith(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	log.WithField("service", "vote-dashboard").Info("starting service")

	students := roster.Default()
	if cfg.RosterPath != "" {
		students, err = roster.Load(cfg.RosterPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load roster")
		}
	}
	log.WithField("students", students.Len()).Info("roster ready")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	loader := dataset.NewLoader(cfg.VotesPath, cfg.LoadRetryMaxElapsed, log, m)
	if ds, err := loader.Load(context.Background(), nil, ""); err != nil {
		log.WithError(err).WithField("votes_path", cfg.VotesPath).Warn("local votes not usable yet; upload a file from the browser")
	} else {
		log.WithField("votes", ds.Source.Records).Info("local votes found")
	}

	server, err := web.NewServer(cfg, log, students, loader, m)
	if err != nil {
		log.WithError(err).Fatal("failed to build web server")
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.WithError(err).Fatal("failed to listen")
	}
	log.WithField("addr", srv.Addr).Info("listening")
	if err := serve(srv, ln, stop, log); err != nil {
		log.WithError(err).Fatal("server terminated")
	}
	log.Info("server closed")
}

// serve runs srv on ln until a signal arrives on stop, then returns once
// in-flight requests have drained or the shutdown timeout expired.
func serve(srv *http.Server, ln net.Listener, stop <-chan os.Signal, log *logger.Logger) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-stop
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("shutdown did not complete cleanly")
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// Serve returns as soon as Shutdown starts
	<-drained
	return nil
}
