package handlers

import (
	"errors"
	"net/http"

	"github.com/marasteiner/flag-ding/middleware"
	"github.com/marasteiner/flag-ding/services"
)

type ApplicationHandler struct {
	applicationService services.ApplicationService
}

func NewApplicationHandler(applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// Apply enters the authenticated team's application for a tournament.
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID := middleware.TeamIDFromContext(r.Context())
	if teamID == 0 {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	app, err := h.applicationService.Apply(r.Context(), teamID, tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID := middleware.TeamIDFromContext(r.Context())
	if teamID == 0 {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.applicationService.Withdraw(r.Context(), teamID, tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ApplicationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	applicationID, err := readIDParam(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.applicationService.Approve(r.Context(), applicationID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddTeam enters a team directly, skipping the application queue.
func (h *ApplicationHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TeamID int `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.TeamID < 1 {
		badRequestResponse(w, r, errors.New("team_id is required"))
		return
	}

	app, err := h.applicationService.AddTeam(r.Context(), input.TeamID, tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"application": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ApplicationHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := readIDParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.applicationService.RemoveTeam(r.Context(), teamID, tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ApplicationHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	approvedOnly := r.URL.Query().Get("approved") == "true"

	apps, err := h.applicationService.ListByTournament(r.Context(), tournamentID, approvedOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"applications": apps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMine returns the authenticated team's applications.
func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	teamID := middleware.TeamIDFromContext(r.Context())
	if teamID == 0 {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	apps, err := h.applicationService.ListByTeam(r.Context(), teamID, false)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"applications": apps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ApplicationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	apps, err := h.applicationService.ListAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"applications": apps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
