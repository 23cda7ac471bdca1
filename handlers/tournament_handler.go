package handlers

import (
	"log/slog"
	"net/http"

	"github.com/tatsuya-kayama-ml/atsume/middleware"
	"github.com/tatsuya-kayama-ml/atsume/models"
	"github.com/tatsuya-kayama-ml/atsume/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

type createTournamentRequest struct {
	EventID  int                        `json:"event_id"`
	Format   models.TournamentFormat    `json:"format"`
	Courts   int                        `json:"courts"`
	Settings *models.TournamentSettings `json:"settings"`
	TeamIDs  []int                      `json:"team_ids"`
}

func (h *TournamentHandler) CreateTournamentHandler(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	// Seed defaults before decoding so a partial settings object overrides
	// only the fields it names.
	defaults := models.DefaultTournamentSettings()
	req.Settings = &defaults
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), services.CreateTournamentParams{
		EventID:  req.EventID,
		Format:   req.Format,
		Courts:   req.Courts,
		Settings: req.Settings,
		TeamIDs:  req.TeamIDs,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if claims, ok := middleware.OrganizerClaims(r.Context()); ok {
		slog.Info("organizer generated tournament",
			slog.Int("tournament_id", tournament.ID), slog.Any("sub", claims["sub"]))
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TournamentHandler) GetTournamentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TournamentHandler) DeleteTournamentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.tournamentService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if claims, ok := middleware.OrganizerClaims(r.Context()); ok {
		slog.Info("organizer deleted tournament",
			slog.Int("tournament_id", id), slog.Any("sub", claims["sub"]))
	}
	w.WriteHeader(http.StatusNoContent)
}

type recordScoreRequest struct {
	Score1 int `json:"score1"`
	Score2 int `json:"score2"`
}

func (h *TournamentHandler) RecordScoreHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var req recordScoreRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.tournamentService.RecordScore(r.Context(), matchID, req.Score1, req.Score2)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TournamentHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	matches, err := h.tournamentService.ListMatches(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TournamentHandler) ListStandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	standings, err := h.tournamentService.ListStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TournamentHandler) NextSwissRoundHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	matches, err := h.tournamentService.NextSwissRound(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}); err != nil {
		serverErrorResponse(w, err)
	}
}
