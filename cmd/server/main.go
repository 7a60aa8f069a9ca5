package main

import (
	"context"
	"errors"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/elections/internal/adapters/auth/session"
	"github.com/vncsmyrnk/elections/internal/adapters/handler/http"
	"github.com/vncsmyrnk/elections/internal/adapters/repository"
	"github.com/vncsmyrnk/elections/internal/config"
	"github.com/vncsmyrnk/elections/internal/core/services"
	"github.com/vncsmyrnk/elections/internal/logger"
)

func main() {
	cfg, err := config.Load("server", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(logger.Configuration{LogFile: cfg.LogFile, Level: cfg.LogLevel, Console: true})
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := repository.Open(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open store", zap.Error(err))
	}
	defer repos.Close()

	resolver := services.NewAllowlistResolver(repos.Allowlist, cfg.LegacyScanLimit, zl.Named("allowlist"))
	ledger := services.NewVoteLedger(repos.Candidates, repos.Votes, resolver, services.SystemClock, zl.Named("ledger"))
	electionService := services.NewElectionSessionService(services.ElectionSessionDeps{
		Elections:  repos.Elections,
		Candidates: repos.Candidates,
		Votes:      repos.Votes,
		Results:    repos.Results,
		Resolver:   resolver,
		Ledger:     ledger,
		Logger:     zl.Named("elections"),
	})

	electionHandler := http.NewElectionHandler(electionService, zl.Named("http"))
	handler := http.NewHandler(electionHandler, session.NewVerifier([]byte(cfg.JWTSecret)), zl.Named("http"))
	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	go func() {
		zl.Info("listening", zap.String("addr", cfg.Addr), zap.String("store", cfg.DatabaseType))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Fatal("shutdown failed", zap.Error(err))
	}
}
