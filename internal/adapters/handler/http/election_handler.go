package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type ElectionHandler struct {
	service ports.ElectionSessionService
	logger  *zap.Logger
}

func NewElectionHandler(service ports.ElectionSessionService, logger *zap.Logger) *ElectionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ElectionHandler{
		service: service,
		logger:  logger,
	}
}

type candidacyRequest struct {
	Name            string   `json:"name"`
	Age             *int     `json:"age"`
	Manifesto       string   `json:"manifesto"`
	Party           string   `json:"party"`
	Symbol          string   `json:"symbol"`
	Schemes         []string `json:"schemes"`
	NationalID      string   `json:"national_id"`
	Address         string   `json:"address"`
	IDProofProvided bool     `json:"id_proof_provided"`
}

type candidacyResponse struct {
	CandidateID     uuid.UUID `json:"candidate_id"`
	InferredSchemes []string  `json:"inferred_schemes"`
}

type voteRequest struct {
	CandidateID string `json:"candidate_id"`
	VoterCode   string `json:"voter_code"`
	PIN         string `json:"pin"`
}

type voteResponse struct {
	Success    bool      `json:"success"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RegisterCandidacy godoc
// @Summary      Registers a candidacy
// @Description  Validates the applicant against the election's candidacy rules and infers the policy schemes the manifesto covers.
// @Tags         elections
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "Election ID"
// @Param        body  body  candidacyRequest  true  "Candidacy form"
// @Success      201  {object}  candidacyResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /elections/{id}/candidates [post]
func (h *ElectionHandler) RegisterCandidacy(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, domain.ErrInvalidElectionID)
		return
	}

	var req candidacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, errInvalidBody)
		return
	}

	form := ports.CandidacyForm{
		Name:            req.Name,
		Age:             req.Age,
		Manifesto:       req.Manifesto,
		Party:           req.Party,
		Symbol:          req.Symbol,
		Schemes:         req.Schemes,
		NationalID:      req.NationalID,
		Address:         req.Address,
		IDProofProvided: req.IDProofProvided,
	}

	result, err := h.service.RegisterCandidacy(r.Context(), electionID, IdentityFrom(r.Context()), form)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	schemes := result.InferredSchemes
	if schemes == nil {
		schemes = []string{}
	}
	writeJSON(w, http.StatusCreated, candidacyResponse{
		CandidateID:     result.CandidateID,
		InferredSchemes: schemes,
	})
}

// CastVote godoc
// @Summary      Casts a vote
// @Description  Records one vote for the voter code after verifying its PIN. The response carries no ballot content.
// @Tags         elections
// @Accept       json
// @Produce      json
// @Param        id    path  string       true  "Election ID"
// @Param        body  body  voteRequest  true  "Ballot"
// @Success      201  {object}  voteResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /elections/{id}/votes [post]
func (h *ElectionHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, domain.ErrInvalidElectionID)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, errInvalidBody)
		return
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		writeError(w, r, h.logger, domain.ErrInvalidCandidate)
		return
	}

	receipt, err := h.service.CastVote(r.Context(), ports.CastVoteInput{
		ElectionID:  electionID,
		CandidateID: candidateID,
		VoterCode:   req.VoterCode,
		PIN:         req.PIN,
		Actor:       IdentityFrom(r.Context()),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, voteResponse{Success: receipt.Success, RecordedAt: receipt.RecordedAt})
}

// VoterState godoc
// @Summary      Reports whether the caller can vote
// @Tags         elections
// @Produce      json
// @Param        id          path   string  true   "Election ID"
// @Param        voter_code  query  string  false  "Voter code"
// @Success      200  {object}  domain.VoterState
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /elections/{id}/voter-state [get]
func (h *ElectionHandler) VoterState(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, domain.ErrInvalidElectionID)
		return
	}

	state, err := h.service.ComputeVoterState(r.Context(), electionID, IdentityFrom(r.Context()), r.URL.Query().Get("voter_code"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Results godoc
// @Summary      Lists the current vote tally of an election
// @Tags         elections
// @Produce      json
// @Param        id  path  string  true  "Election ID"
// @Success      200  {array}   domain.CandidateTally
// @Failure      404  {object}  errorResponse
// @Router       /elections/{id}/results [get]
func (h *ElectionHandler) Results(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, domain.ErrInvalidElectionID)
		return
	}

	tallies, err := h.service.Results(r.Context(), electionID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if tallies == nil {
		tallies = []domain.CandidateTally{}
	}

	writeJSON(w, http.StatusOK, tallies)
}
