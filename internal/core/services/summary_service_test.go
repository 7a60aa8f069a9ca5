package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vncsmyrnk/elections/internal/core/domain"
)

type stubElections struct {
	elections []*domain.Election
	err       error
}

func (s *stubElections) Save(ctx context.Context, e *domain.Election) error { return nil }

func (s *stubElections) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	return nil, domain.ErrElectionNotFound
}

func (s *stubElections) GetAll(ctx context.Context) ([]*domain.Election, error) {
	return s.elections, s.err
}

type recordingResults struct {
	mu         sync.Mutex
	summarized []uuid.UUID
	failFor    map[uuid.UUID]bool
}

func (r *recordingResults) SummarizeVotes(ctx context.Context, electionID uuid.UUID) error {
	if r.failFor[electionID] {
		return errors.New("boom")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summarized = append(r.summarized, electionID)
	return nil
}

func (r *recordingResults) GetCandidateStats(ctx context.Context, electionID uuid.UUID) ([]domain.CandidateTally, error) {
	return []domain.CandidateTally{
		{ElectionID: electionID, CandidateID: electionID, VoteCount: 3},
		{ElectionID: electionID, CandidateID: uuid.New(), VoteCount: 1},
	}, nil
}

func (r *recordingResults) CountVotes(ctx context.Context, electionID uuid.UUID) ([]domain.CandidateTally, error) {
	return nil, nil
}

func TestSummarizeAllVotes(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	elections := &stubElections{}
	for _, id := range ids {
		elections.elections = append(elections.elections, &domain.Election{ID: id})
	}

	t.Run("every election", func(t *testing.T) {
		results := &recordingResults{}
		require.NoError(t, NewSummaryService(elections, results, nil).SummarizeAllVotes(context.Background()))
		assert.ElementsMatch(t, ids, results.summarized)
	})

	t.Run("one failure is reported", func(t *testing.T) {
		results := &recordingResults{failFor: map[uuid.UUID]bool{ids[1]: true}}
		err := NewSummaryService(elections, results, nil).SummarizeAllVotes(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), ids[1].String())
		assert.ElementsMatch(t, []uuid.UUID{ids[0], ids[2]}, results.summarized)
	})

	t.Run("every failure is joined", func(t *testing.T) {
		results := &recordingResults{failFor: map[uuid.UUID]bool{ids[0]: true, ids[2]: true}}
		err := NewSummaryService(elections, results, nil).SummarizeAllVotes(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), ids[0].String())
		assert.Contains(t, err.Error(), ids[2].String())
		assert.Equal(t, []uuid.UUID{ids[1]}, results.summarized)
	})

	t.Run("listing fails", func(t *testing.T) {
		err := NewSummaryService(&stubElections{err: errors.New("down")}, &recordingResults{}, nil).SummarizeAllVotes(context.Background())
		assert.Error(t, err)
	})
}

func TestSummarizeAllVotes_LogsOutcomes(t *testing.T) {
	ok, failing := uuid.New(), uuid.New()
	elections := &stubElections{elections: []*domain.Election{
		{ID: ok, Title: "Council"},
		{ID: failing, Title: "Board"},
	}}
	core, logs := observer.New(zap.InfoLevel)

	err := NewSummaryService(elections, &recordingResults{failFor: map[uuid.UUID]bool{failing: true}}, zap.New(core)).
		SummarizeAllVotes(context.Background())
	require.Error(t, err)

	summarized := logs.FilterMessage("election summarized").All()
	require.Len(t, summarized, 1)
	fields := summarized[0].ContextMap()
	assert.Equal(t, ok.String(), fields["election_id"])
	assert.Equal(t, "Council", fields["title"])
	assert.Equal(t, int64(2), fields["candidates"])
	assert.Equal(t, int64(4), fields["total_votes"])
	assert.Equal(t, ok.String(), fields["leader"])
	assert.Equal(t, int64(3), fields["leader_votes"])

	failed := logs.FilterMessage("failed to summarize election").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zap.ErrorLevel, failed[0].Level)
	assert.Equal(t, failing.String(), failed[0].ContextMap()["election_id"])

	done := logs.FilterMessage("summarized elections").All()
	require.Len(t, done, 1)
	assert.Equal(t, int64(2), done[0].ContextMap()["elections"])
	assert.Equal(t, int64(1), done[0].ContextMap()["failed"])
}
