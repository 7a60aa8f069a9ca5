package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/elections/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/elections/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/elections/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/elections/internal/config"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

// Repositories is one store's set of ports.
type Repositories struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Allowlist  ports.AllowlistRepository
	Votes      ports.VoteRepository
	Results    ports.ResultRepository

	close func() error
}

func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open builds the repositories for cfg.DatabaseType.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Repositories, error) {
	switch cfg.DatabaseType {
	case config.DatabasePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("using postgres store")
		return postgresRepositories(db), nil

	case config.DatabaseSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite connection pool: %w", err)
		}
		logger.Info("using sqlite store", zap.String("path", cfg.SQLitePath))
		return &Repositories{
			Elections:  sqlite.NewElectionRepository(db),
			Candidates: sqlite.NewCandidateRepository(db),
			Allowlist:  sqlite.NewAllowlistRepository(db),
			Votes:      sqlite.NewVoteRepository(db),
			Results:    sqlite.NewResultRepository(db),
			close:      sqlDB.Close,
		}, nil

	case config.DatabaseMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		store := memory.NewStore()
		return &Repositories{
			Elections:  store.Elections(),
			Candidates: store.Candidates(),
			Allowlist:  store,
			Votes:      store,
			Results:    store,
		}, nil
	}

	return nil, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
}

func postgresRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Elections:  postgres.NewElectionRepository(db),
		Candidates: postgres.NewCandidateRepository(db),
		Allowlist:  postgres.NewAllowlistRepository(db),
		Votes:      postgres.NewVoteRepository(db),
		Results:    postgres.NewResultRepository(db),
		close:      db.Close,
	}
}
