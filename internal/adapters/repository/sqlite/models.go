package sqlite

import (
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/elections/internal/core/domain"
)

type electionModel struct {
	ID                   string            `gorm:"column:id;primaryKey"`
	Title                string            `gorm:"column:title"`
	Description          string            `gorm:"column:description"`
	StartAt              *time.Time        `gorm:"column:start_at"`
	EndAt                *time.Time        `gorm:"column:end_at"`
	IsPublic             bool              `gorm:"column:is_public"`
	AllowedVoters        []string          `gorm:"column:allowed_voters;serializer:json"`
	CandidateEligibility string            `gorm:"column:candidate_eligibility"`
	MinAge               int               `gorm:"column:min_age"`
	RequireIDProof       bool              `gorm:"column:require_id_proof"`
	Schemes              []domain.Scheme   `gorm:"column:schemes;serializer:json"`
	LegacyCandidates     []legacyCandidate `gorm:"column:legacy_candidates;serializer:json"`
	CreatedAt            time.Time         `gorm:"column:created_at;index"`
}

func (electionModel) TableName() string {
	return "elections"
}

// legacyCandidate is the shape of candidates embedded in election records.
type legacyCandidate struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Party     string    `json:"party,omitempty"`
	Manifesto string    `json:"manifesto,omitempty"`
	Schemes   []string  `json:"schemes,omitempty"`
}

type candidateModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	ElectionID      string    `gorm:"column:election_id;uniqueIndex:idx_candidates_election_creator,priority:1;uniqueIndex:idx_candidates_election_national_id,priority:1"`
	Name            string    `gorm:"column:name"`
	Party           string    `gorm:"column:party"`
	Symbol          string    `gorm:"column:symbol"`
	Address         string    `gorm:"column:address"`
	Age             *int      `gorm:"column:age"`
	Manifesto       string    `gorm:"column:manifesto"`
	Schemes         []string  `gorm:"column:schemes;serializer:json"`
	NationalID      *string   `gorm:"column:national_id;uniqueIndex:idx_candidates_election_national_id,priority:2"`
	IDProofProvided bool      `gorm:"column:id_proof_provided"`
	CreatedBy       *string   `gorm:"column:created_by;uniqueIndex:idx_candidates_election_creator,priority:2"`
	Approved        bool      `gorm:"column:approved"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

type allowlistModel struct {
	VoterCode     string            `gorm:"column:voter_code;primaryKey"`
	VoterCodeNorm string            `gorm:"column:voter_code_norm;uniqueIndex"`
	PIN           string            `gorm:"column:pin"`
	Voted         bool              `gorm:"column:voted"`
	VotedAt       *time.Time        `gorm:"column:voted_at"`
	Legacy        map[string]string `gorm:"column:legacy;serializer:json"`
	CreatedAt     time.Time         `gorm:"column:created_at;index"`
}

func (allowlistModel) TableName() string {
	return "allowlist_entries"
}

type voteModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ElectionID  string    `gorm:"column:election_id;uniqueIndex:idx_votes_election_voter,priority:1;index:idx_votes_election_user,priority:1"`
	CandidateID string    `gorm:"column:candidate_id"`
	VoterCode   string    `gorm:"column:voter_code;uniqueIndex:idx_votes_election_voter,priority:2"`
	UserID      *string   `gorm:"column:user_id;index:idx_votes_election_user,priority:2"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

type resultModel struct {
	ElectionID    string    `gorm:"column:election_id;primaryKey"`
	CandidateID   string    `gorm:"column:candidate_id;primaryKey"`
	VoteCount     int64     `gorm:"column:vote_count"`
	LastUpdatedAt time.Time `gorm:"column:last_updated_at"`
}

func (resultModel) TableName() string {
	return "election_results"
}

func electionModelFromEntity(e *domain.Election) electionModel {
	legacy := make([]legacyCandidate, 0, len(e.LegacyCandidates))
	for _, c := range e.LegacyCandidates {
		legacy = append(legacy, legacyCandidate{
			ID:        c.ID,
			Name:      c.Name,
			Party:     c.Party,
			Manifesto: c.Manifesto,
			Schemes:   c.Schemes,
		})
	}
	return electionModel{
		ID:                   e.ID.String(),
		Title:                e.Title,
		Description:          e.Description,
		StartAt:              e.StartAt,
		EndAt:                e.EndAt,
		IsPublic:             e.IsPublic,
		AllowedVoters:        e.AllowedVoters,
		CandidateEligibility: e.CandidateEligibility,
		MinAge:               e.Rule.MinAge,
		RequireIDProof:       e.Rule.RequireIDProof,
		Schemes:              e.Schemes,
		LegacyCandidates:     legacy,
		CreatedAt:            e.CreatedAt,
	}
}

func (m electionModel) toEntity() (*domain.Election, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	e := &domain.Election{
		ID:                   id,
		Title:                m.Title,
		Description:          m.Description,
		StartAt:              m.StartAt,
		EndAt:                m.EndAt,
		IsPublic:             m.IsPublic,
		AllowedVoters:        m.AllowedVoters,
		CandidateEligibility: m.CandidateEligibility,
		Rule:                 domain.EligibilityRule{MinAge: m.MinAge, RequireIDProof: m.RequireIDProof},
		Schemes:              m.Schemes,
		CreatedAt:            m.CreatedAt,
	}
	for _, c := range m.LegacyCandidates {
		e.LegacyCandidates = append(e.LegacyCandidates, domain.Candidate{
			ID:         c.ID,
			ElectionID: id,
			Name:       c.Name,
			Party:      c.Party,
			Manifesto:  c.Manifesto,
			Schemes:    c.Schemes,
		})
	}
	return e, nil
}

func candidateModelFromEntity(c *domain.Candidate) candidateModel {
	m := candidateModel{
		ID:              c.ID.String(),
		ElectionID:      c.ElectionID.String(),
		Name:            c.Name,
		Party:           c.Party,
		Symbol:          c.Symbol,
		Address:         c.Address,
		Age:             c.Age,
		Manifesto:       c.Manifesto,
		Schemes:         c.Schemes,
		IDProofProvided: c.IDProofProvided,
		Approved:        c.Approved,
		CreatedAt:       c.CreatedAt,
	}
	if c.NationalID != "" {
		nationalID := c.NationalID
		m.NationalID = &nationalID
	}
	if c.CreatedBy != nil {
		createdBy := c.CreatedBy.String()
		m.CreatedBy = &createdBy
	}
	return m
}

func (m candidateModel) toEntity() (domain.Candidate, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return domain.Candidate{}, err
	}
	electionID, err := uuid.Parse(m.ElectionID)
	if err != nil {
		return domain.Candidate{}, err
	}
	c := domain.Candidate{
		ID:              id,
		ElectionID:      electionID,
		Name:            m.Name,
		Party:           m.Party,
		Symbol:          m.Symbol,
		Address:         m.Address,
		Age:             m.Age,
		Manifesto:       m.Manifesto,
		Schemes:         m.Schemes,
		IDProofProvided: m.IDProofProvided,
		Approved:        m.Approved,
		CreatedAt:       m.CreatedAt,
	}
	if m.NationalID != nil {
		c.NationalID = *m.NationalID
	}
	if m.CreatedBy != nil {
		createdBy, err := uuid.Parse(*m.CreatedBy)
		if err != nil {
			return domain.Candidate{}, err
		}
		c.CreatedBy = &createdBy
	}
	return c, nil
}

func (m allowlistModel) toEntity() *domain.AllowlistEntry {
	return &domain.AllowlistEntry{
		VoterCode: m.VoterCode,
		PIN:       m.PIN,
		Voted:     m.Voted,
		VotedAt:   m.VotedAt,
		Legacy:    m.Legacy,
	}
}

func voteModelFromEntity(v *domain.Vote) voteModel {
	m := voteModel{
		ID:          v.ID.String(),
		ElectionID:  v.ElectionID.String(),
		CandidateID: v.CandidateID.String(),
		VoterCode:   v.VoterCode,
		CreatedAt:   v.CreatedAt,
	}
	if v.UserID != nil {
		userID := v.UserID.String()
		m.UserID = &userID
	}
	return m
}

func (m voteModel) toEntity() (*domain.Vote, error) {
	v := &domain.Vote{VoterCode: m.VoterCode, CreatedAt: m.CreatedAt}
	var err error
	if v.ID, err = uuid.Parse(m.ID); err != nil {
		return nil, err
	}
	if v.ElectionID, err = uuid.Parse(m.ElectionID); err != nil {
		return nil, err
	}
	if v.CandidateID, err = uuid.Parse(m.CandidateID); err != nil {
		return nil, err
	}
	if m.UserID != nil {
		userID, err := uuid.Parse(*m.UserID)
		if err != nil {
			return nil, err
		}
		v.UserID = &userID
	}
	return v, nil
}
