package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vncsmyrnk/elections/internal/adapters/auth/session"
	handler "github.com/vncsmyrnk/elections/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/elections/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/elections/internal/core/ports"
	"github.com/vncsmyrnk/elections/internal/core/services"
)

const jwtSecret = "test-secret"

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Elections   ports.ElectionRepository
	Candidates  ports.CandidateRepository
	Allowlist   ports.AllowlistRepository
	SummarySvc  ports.SummaryService
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := repo.Open(ctx, dbURL)
	require.NoError(t, err)
	require.NoError(t, applyMigrations(db))

	electionRepo := repo.NewElectionRepository(db)
	candidateRepo := repo.NewCandidateRepository(db)
	allowlistRepo := repo.NewAllowlistRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	resultRepo := repo.NewResultRepository(db)

	resolver := services.NewAllowlistResolver(allowlistRepo, services.DefaultLegacyScanLimit, nil)
	ledger := services.NewVoteLedger(candidateRepo, voteRepo, resolver, nil, nil)
	electionSvc := services.NewElectionSessionService(services.ElectionSessionDeps{
		Elections:  electionRepo,
		Candidates: candidateRepo,
		Votes:      voteRepo,
		Results:    resultRepo,
		Resolver:   resolver,
		Ledger:     ledger,
	})

	electionHandler := handler.NewElectionHandler(electionSvc, nil)
	router := handler.NewHandler(electionHandler, session.NewVerifier([]byte(jwtSecret)), nil)
	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Elections:   electionRepo,
		Candidates:  candidateRepo,
		Allowlist:   allowlistRepo,
		SummarySvc:  services.NewSummaryService(electionRepo, resultRepo, nil),
		DBContainer: dbContainer,
	}
}

// createUserAndToken signs an access token the way the identity service
// does. Users live in that service, so nothing is inserted here.
func createUserAndToken(t *testing.T) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": fmt.Sprintf("user-%s@example.com", userID),
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
		"iat":   time.Now().Unix(),
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return userID, signedToken
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
