package handlers

import (
	"net/http"

	"github.com/tatsuya-kayama-ml/atsume/assign"
	"github.com/tatsuya-kayama-ml/atsume/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

type assignTeamsRequest struct {
	EventID       int         `json:"event_id"`
	TeamCount     int         `json:"team_count"`
	Mode          assign.Mode `json:"mode"`
	BalanceGender bool        `json:"balance_gender"`
	CheckedInOnly bool        `json:"checked_in_only"`
}

func (h *TeamHandler) AssignTeamsHandler(w http.ResponseWriter, r *http.Request) {
	var req assignTeamsRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	if req.Mode == "" {
		req.Mode = assign.ModeRandom
	}

	assignments, err := h.teamService.AssignTeams(r.Context(), services.AssignTeamsParams{
		EventID:       req.EventID,
		TeamCount:     req.TeamCount,
		Mode:          req.Mode,
		BalanceGender: req.BalanceGender,
		CheckedInOnly: req.CheckedInOnly,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"assignments": assignments}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TeamHandler) ListTeamsHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	teams, err := h.teamService.ListTeams(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TeamHandler) DeleteTeamsHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.teamService.DeleteTeams(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
