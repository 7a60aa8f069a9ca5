package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/elections/internal/adapters/repository"
	"github.com/vncsmyrnk/elections/internal/config"
	"github.com/vncsmyrnk/elections/internal/core/services"
	"github.com/vncsmyrnk/elections/internal/logger"
)

func main() {
	cfg, err := config.Load("votesummarizing", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(logger.Configuration{LogFile: cfg.LogFile, Level: cfg.LogLevel, Console: true})
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repos, err := repository.Open(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open store", zap.Error(err))
	}
	defer repos.Close()

	summaryService := services.NewSummaryService(repos.Elections, repos.Results, zl.Named("summary"))

	zl.Info("starting vote summarization job")
	start := time.Now()

	if err := summaryService.SummarizeAllVotes(ctx); err != nil {
		zl.Fatal("error summarizing votes", zap.Error(err))
	}

	zl.Info("vote summarization completed", zap.Duration("elapsed", time.Since(start)))
}
