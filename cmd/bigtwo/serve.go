package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/bigtwo/internal/randutil"
	"github.com/lox/bigtwo/internal/server"
)

// ServeCmd contains core server configuration
type ServeCmd struct {
	Config string `kong:"default='bigtwo.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Listen address, overrides the config file (e.g. :3000)'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed for shuffles (optional)'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Debug {
		cfg.Server.LogLevel = "debug"
	}
	if c.Seed != nil {
		cfg.Server.Seed = *c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	seed := cfg.Server.Seed
	rng := randutil.New(seed)
	if seed == 0 {
		rng, seed = randutil.NewFromTime()
	}
	logger.Info("Seeded RNG", "seed", seed)

	if c.Addr != "" {
		host, port, err := splitAddr(c.Addr)
		if err != nil {
			return err
		}
		cfg.Server.Address = host
		cfg.Server.Port = port
	}

	srv := server.New(cfg, logger, rng, quartz.NewReal())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}
