package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/league-bot/services"
	"github.com/go-chi/chi/v5"
)

type RefereeHandler struct {
	refereeService services.RefereeService
}

func NewRefereeHandler(refereeService services.RefereeService) *RefereeHandler {
	return &RefereeHandler{refereeService: refereeService}
}

func (h *RefereeHandler) SetRefereeHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Actor  services.Actor   `json:"actor"`
		Target services.UserRef `json:"target"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	effects, err := h.refereeService.Set(r.Context(), input.Actor, input.Target)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"effects": effects}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RefereeHandler) RemoveRefereeHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		badRequestResponse(w, r, errors.New("missing user id in URL path"))
		return
	}

	var input struct {
		Actor services.Actor `json:"actor"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	effects, err := h.refereeService.Remove(r.Context(), input.Actor, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"effects": effects}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RefereeHandler) ListRefereesHandler(w http.ResponseWriter, r *http.Request) {
	referees, err := h.refereeService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"referees": referees}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
