package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

const DefaultLegacyScanLimit = 500

// legacyVoterFields are the keys older records stored the voter code under.
var legacyVoterFields = []string{"voterId", "voterID", "voter_id", "voterCode", "voter_code", "code", "id"}

// MaxVoterCodeLength bounds codes accepted for lookup. Codes are opaque
// otherwise.
const MaxVoterCodeLength = 128

type AllowlistResolver struct {
	repo            ports.AllowlistRepository
	legacyScanLimit int
	logger          *zap.Logger
}

// NewAllowlistResolver builds a resolver. A legacyScanLimit of zero disables
// the bounded scan over legacy records.
func NewAllowlistResolver(repo ports.AllowlistRepository, legacyScanLimit int, logger *zap.Logger) *AllowlistResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllowlistResolver{
		repo:            repo,
		legacyScanLimit: legacyScanLimit,
		logger:          logger,
	}
}

// Resolve looks voterCode up case-insensitively. Unknown codes yield
// domain.ErrVoterNotFound.
func (r *AllowlistResolver) Resolve(ctx context.Context, voterCode string) (*domain.AllowlistEntry, error) {
	code := domain.NormalizeVoterCode(voterCode)
	if code == "" || utf8.RuneCountInString(code) > MaxVoterCodeLength {
		return nil, domain.ErrInvalidVoterCode
	}

	entry, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up voter code: %w", err)
	}
	if entry != nil {
		return entry, nil
	}

	if r.legacyScanLimit <= 0 {
		return nil, domain.ErrVoterNotFound
	}

	// Compatibility shim for records written before voter_code was canonical.
	sample, err := r.repo.Sample(ctx, r.legacyScanLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to scan allowlist: %w", err)
	}
	for i := range sample {
		if legacyMatch(&sample[i], code) {
			r.logger.Warn("voter resolved through legacy allowlist scan",
				zap.String("voter_code", code),
				zap.String("stored_code", sample[i].VoterCode),
			)
			return &sample[i], nil
		}
	}

	return nil, domain.ErrVoterNotFound
}

func legacyMatch(entry *domain.AllowlistEntry, code string) bool {
	if domain.NormalizeVoterCode(entry.VoterCode) == code {
		return true
	}
	for _, field := range legacyVoterFields {
		if v, ok := entry.Legacy[field]; ok && domain.NormalizeVoterCode(v) == code {
			return true
		}
	}
	return false
}
