package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

// DefaultSummaryWorkers bounds how many elections are refreshed at once.
const DefaultSummaryWorkers = 4

type summaryService struct {
	electionRepo ports.ElectionRepository
	resultRepo   ports.ResultRepository
	workers      int
	logger       *zap.Logger
}

func NewSummaryService(electionRepo ports.ElectionRepository, resultRepo ports.ResultRepository, logger *zap.Logger) ports.SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &summaryService{
		electionRepo: electionRepo,
		resultRepo:   resultRepo,
		workers:      DefaultSummaryWorkers,
		logger:       logger,
	}
}

// SummarizeAllVotes refreshes the stored tally of every election from its
// vote rows. A failing election does not stop the others; every failure is
// returned joined.
func (s *summaryService) SummarizeAllVotes(ctx context.Context) error {
	elections, err := s.electionRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all elections: %w", err)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, election := range elections {
		election := election
		g.Go(func() error {
			if err := s.summarize(ctx, election); err != nil {
				s.logger.Error("failed to summarize election",
					zap.String("election_id", election.ID.String()),
					zap.Error(err),
				)
				mu.Lock()
				errs = append(errs, fmt.Errorf("failed to summarize election %s: %w", election.ID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("summarized elections",
		zap.Int("elections", len(elections)),
		zap.Int("failed", len(errs)),
	)
	return errors.Join(errs...)
}

func (s *summaryService) summarize(ctx context.Context, election *domain.Election) error {
	if err := s.resultRepo.SummarizeVotes(ctx, election.ID); err != nil {
		return err
	}

	tallies, err := s.resultRepo.GetCandidateStats(ctx, election.ID)
	if err != nil {
		return fmt.Errorf("failed to read stored tally: %w", err)
	}

	var total int64
	fields := []zap.Field{
		zap.String("election_id", election.ID.String()),
		zap.String("title", election.Title),
		zap.Int("candidates", len(tallies)),
	}
	for _, t := range tallies {
		total += t.VoteCount
	}
	fields = append(fields, zap.Int64("total_votes", total))
	if len(tallies) > 0 {
		fields = append(fields,
			zap.String("leader", tallies[0].CandidateID.String()),
			zap.Int64("leader_votes", tallies[0].VoteCount),
		)
	}
	s.logger.Info("election summarized", fields...)
	return nil
}
