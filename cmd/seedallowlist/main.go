package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/elections/internal/adapters/repository"
	"github.com/vncsmyrnk/elections/internal/config"
	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/logger"
)

// seedallowlist [count] provisions voter codes VOTER0001..VOTERnnnn with
// PINs 1001..(1000+n). Existing codes are left untouched.
func main() {
	cfg, err := config.Load("seedallowlist", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	count := 100
	if len(cfg.Args) > 0 {
		count, err = strconv.Atoi(cfg.Args[0])
		if err != nil || count <= 0 {
			log.Fatalf("invalid count %q", cfg.Args[0])
		}
	}

	zl, err := logger.New(logger.Configuration{LogFile: cfg.LogFile, Level: cfg.LogLevel, Console: true})
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repos, err := repository.Open(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open store", zap.Error(err))
	}
	defer repos.Close()

	entries := make([]domain.AllowlistEntry, 0, count)
	for i := 1; i <= count; i++ {
		entries = append(entries, domain.AllowlistEntry{
			VoterCode: fmt.Sprintf("VOTER%04d", i),
			PIN:       fmt.Sprintf("%d", 1000+i),
		})
	}

	inserted, err := repos.Allowlist.Provision(ctx, entries)
	if err != nil {
		zl.Fatal("failed to provision allowlist", zap.Error(err))
	}

	zl.Info("allowlist provisioned",
		zap.Int("requested", len(entries)),
		zap.Int("inserted", inserted),
	)
}
