package handlers

import (
	"net/http"

	"github.com/marasteiner/flag-ding/middleware"
	"github.com/marasteiner/flag-ding/services"
)

type ScorecardHandler struct {
	scorecardService services.ScorecardService
}

func NewScorecardHandler(scorecardService services.ScorecardService) *ScorecardHandler {
	return &ScorecardHandler{scorecardService: scorecardService}
}

func (h *ScorecardHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID, err := readIDParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	scorecard, err := h.scorecardService.Get(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"scorecard": scorecard}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Setup stores the officials crew and the coin toss outcome.
func (h *ScorecardHandler) Setup(w http.ResponseWriter, r *http.Request) {
	gameID, err := readIDParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SetupScorecardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.scorecardService.Setup(r.Context(), middleware.ActorFromContext(r.Context()), gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScorecardHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	gameID, err := readIDParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.scorecardService.RecordEvent(r.Context(), middleware.ActorFromContext(r.Context()), gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScorecardHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	gameID, err := readIDParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	eventID, err := readIDParam(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.scorecardService.DeleteEvent(r.Context(), middleware.ActorFromContext(r.Context()), gameID, eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScorecardHandler) SwitchOffense(w http.ResponseWriter, r *http.Request) {
	gameID, err := readIDParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.scorecardService.SwitchOffense(r.Context(), middleware.ActorFromContext(r.Context()), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListOfficials serves the admin registry of every crew assignment on record.
func (h *ScorecardHandler) ListOfficials(w http.ResponseWriter, r *http.Request) {
	officials, err := h.scorecardService.ListOfficials(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"officials": officials}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
