package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type voteKey struct {
	electionID uuid.UUID
	voterCode  string
}

// Store keeps every engine collection in process. Units of work are
// serialized and their writes are applied only on commit; the
// (election, voter code) uniqueness rule is enforced on every insert.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	transactions bool

	elections  map[uuid.UUID]domain.Election
	candidates []domain.Candidate
	allowlist  []*domain.AllowlistEntry
	votes      map[voteKey]domain.Vote
	results    map[uuid.UUID][]domain.CandidateTally
}

type Option func(*Store)

// WithoutTransactions makes the store report no unit-of-work support.
func WithoutTransactions() Option {
	return func(s *Store) { s.transactions = false }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		transactions: true,
		elections:    make(map[uuid.UUID]domain.Election),
		votes:        make(map[voteKey]domain.Vote),
		results:      make(map[uuid.UUID][]domain.CandidateTally),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allowlist

func (s *Store) FindByCode(ctx context.Context, normalizedCode string) (*domain.AllowlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e := s.findNormalized(normalizedCode); e != nil {
		return cloneEntry(e), nil
	}
	return nil, nil
}

func (s *Store) Sample(ctx context.Context, limit int) ([]domain.AllowlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.allowlist)
	if limit < n {
		n = limit
	}
	out := make([]domain.AllowlistEntry, 0, n)
	for _, e := range s.allowlist[:n] {
		out = append(out, *cloneEntry(e))
	}
	return out, nil
}

func (s *Store) Provision(ctx context.Context, entries []domain.AllowlistEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := 0
	for i := range entries {
		if s.findNormalized(domain.NormalizeVoterCode(entries[i].VoterCode)) != nil {
			continue
		}
		s.allowlist = append(s.allowlist, cloneEntry(&entries[i]))
		inserted++
	}
	return inserted, nil
}

func (s *Store) findNormalized(code string) *domain.AllowlistEntry {
	for _, e := range s.allowlist {
		if domain.NormalizeVoterCode(e.VoterCode) == code {
			return e
		}
	}
	return nil
}

func (s *Store) findStored(code string) *domain.AllowlistEntry {
	for _, e := range s.allowlist {
		if e.VoterCode == code {
			return e
		}
	}
	return nil
}

func cloneEntry(e *domain.AllowlistEntry) *domain.AllowlistEntry {
	c := *e
	if e.VotedAt != nil {
		t := *e.VotedAt
		c.VotedAt = &t
	}
	if e.Legacy != nil {
		c.Legacy = make(map[string]string, len(e.Legacy))
		for k, v := range e.Legacy {
			c.Legacy[k] = v
		}
	}
	return &c
}

// Votes

func (s *Store) Capabilities() ports.StoreCapabilities {
	return ports.StoreCapabilities{Transactions: s.transactions}
}

func (s *Store) HasVoted(ctx context.Context, electionID uuid.UUID, voterCode string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.votes[voteKey{electionID, voterCode}]
	return ok, nil
}

func (s *Store) HasVotedByUser(ctx context.Context, electionID, userID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.votes {
		if k.electionID == electionID && v.UserID != nil && *v.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) FindVote(ctx context.Context, electionID uuid.UUID, voterCode string) (*domain.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.votes[voteKey{electionID, voterCode}]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *Store) InsertVote(ctx context.Context, vote *domain.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(*vote)
}

func (s *Store) insertLocked(vote domain.Vote) error {
	key := voteKey{vote.ElectionID, vote.VoterCode}
	if _, ok := s.votes[key]; ok {
		return domain.ErrAlreadyVoted
	}
	s.votes[key] = vote
	return nil
}

func (s *Store) MarkVoted(ctx context.Context, voterCode string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markLocked(voterCode, at)
	return nil
}

func (s *Store) markLocked(voterCode string, at time.Time) {
	if e := s.findStored(voterCode); e != nil {
		t := at
		e.Voted = true
		e.VotedAt = &t
	}
}

// Votes returns every recorded vote of an election, oldest first.
func (s *Store) Votes(electionID uuid.UUID) []domain.Vote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Vote
	for k, v := range s.votes {
		if k.electionID == electionID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Entry returns a copy of the allowlist entry stored under voterCode.
func (s *Store) Entry(voterCode string) (*domain.AllowlistEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.findStored(voterCode)
	if e == nil {
		return nil, false
	}
	return cloneEntry(e), true
}

func (s *Store) RunInTx(ctx context.Context, fn func(tx ports.LedgerTx) error) error {
	if !s.transactions {
		return domain.ErrTransientStore
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

type pendingMark struct {
	voterCode string
	at        time.Time
}

type memTx struct {
	store *Store
	votes []domain.Vote
	marks []pendingMark
}

func (t *memTx) LockAllowlistEntry(ctx context.Context, voterCode string) (*domain.AllowlistEntry, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	if e := t.store.findStored(voterCode); e != nil {
		return cloneEntry(e), nil
	}
	return nil, nil
}

func (t *memTx) HasVoted(ctx context.Context, electionID uuid.UUID, voterCode string) (bool, error) {
	for _, v := range t.votes {
		if v.ElectionID == electionID && v.VoterCode == voterCode {
			return true, nil
		}
	}
	return t.store.HasVoted(ctx, electionID, voterCode)
}

func (t *memTx) InsertVote(ctx context.Context, vote *domain.Vote) error {
	voted, err := t.HasVoted(ctx, vote.ElectionID, vote.VoterCode)
	if err != nil {
		return err
	}
	if voted {
		return domain.ErrAlreadyVoted
	}
	t.votes = append(t.votes, *vote)
	return nil
}

func (t *memTx) MarkVoted(ctx context.Context, voterCode string, at time.Time) error {
	t.marks = append(t.marks, pendingMark{voterCode: voterCode, at: at})
	return nil
}

func (t *memTx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// Writes from the non-transactional path may have landed meanwhile.
	for _, v := range t.votes {
		if _, ok := s.votes[voteKey{v.ElectionID, v.VoterCode}]; ok {
			return domain.ErrAlreadyVoted
		}
	}
	for _, v := range t.votes {
		_ = s.insertLocked(v)
	}
	for _, m := range t.marks {
		s.markLocked(m.voterCode, m.at)
	}
	return nil
}

var (
	_ ports.AllowlistRepository = (*Store)(nil)
	_ ports.VoteRepository      = (*Store)(nil)
	_ ports.ResultRepository    = (*Store)(nil)
)
