// Command minigames-server is the process entrypoint: it loads
// configuration, wires every long-lived component (lobby manager,
// broadcaster, connection tracker, message handler, cleanup task), and
// serves the WebSocket shim (spec.md §6) and a /health endpoint,
// mirroring the teacher's main.go flag-parsing and signal-driven
// graceful shutdown (server/websocket.go, server/server.go) generalized
// from one netrek galaxy to many concurrent lobby/session runtimes.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lab1702/minigames-server/internal/broadcast"
	"github.com/lab1702/minigames-server/internal/cleanup"
	"github.com/lab1702/minigames-server/internal/config"
	"github.com/lab1702/minigames-server/internal/conntrack"
	"github.com/lab1702/minigames-server/internal/handler"
	"github.com/lab1702/minigames-server/internal/lobby"
	"github.com/lab1702/minigames-server/internal/logging"
	"github.com/lab1702/minigames-server/internal/transport"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	addrWS := flag.String("addr-ws", "", "WebSocket listen address (overrides config, default 0.0.0.0:5000)")
	logFormat := flag.String("log-format", "console", "log output format: console or json")
	logLevelFlag := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevelFlag)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logging.New(*logFormat != "json", level)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load configuration")
	}

	wsAddr := cfg.Server.Address
	if *addrWS != "" {
		wsAddr = *addrWS
	}
	if wsAddr == "" {
		wsAddr = "0.0.0.0:5000"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lobbies := lobby.NewManager()
	conns := conntrack.New()

	// bcast is built with no lost-client callback yet; SetLostHandler wires
	// it to the handler's Disconnect once the handler exists, so overflow
	// (spec.md 4.9: "the client is considered lost and scheduled for
	// disconnect") closes the loop without a broadcaster -> handler import
	// cycle (spec.md 9's cycle-breaking note).
	bcast := broadcast.New(log.With().Str("component", "broadcaster").Logger(), nil)

	h := handler.New(ctx, log.With().Str("component", "handler").Logger(), cfg, lobbies, bcast, conns)
	bcast.SetLostHandler(h.Disconnect)

	cleanupTask := cleanup.New(log.With().Str("component", "cleanup").Logger(), cleanup.DefaultConfig(), lobbies, conns, bcast)
	go cleanupTask.Run(ctx)

	wsServer := transport.NewServer(log.With().Str("component", "ws").Logger(), h)

	mux := http.NewServeMux()
	mux.Handle("/ws", wsServer)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:         wsAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("address", wsAddr).Msg("starting minigames server")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed to start")
		os.Exit(1)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
