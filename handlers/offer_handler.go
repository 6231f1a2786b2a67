package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/league-bot/services"
	"github.com/go-chi/chi/v5"
)

type OfferHandler struct {
	offerService services.OfferService
}

func NewOfferHandler(offerService services.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

func (h *OfferHandler) ProposeOfferHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Actor    services.Actor   `json:"actor"`
		Target   services.UserRef `json:"target"`
		Salary   string           `json:"salary"`
		Duration string           `json:"duration"`
		Position *string          `json:"position,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	draft, err := h.offerService.Propose(r.Context(), input.Actor, input.Target, input.Salary, input.Duration, input.Position)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"draft": draft}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *OfferHandler) FinalizeOfferHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Draft     *services.OfferDraft `json:"draft"`
		MessageID string               `json:"message_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	offer, err := h.offerService.Finalize(r.Context(), input.Draft, input.MessageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"offer": offer}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *OfferHandler) GetOfferByMessageHandler(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")
	if messageID == "" {
		badRequestResponse(w, r, errors.New("missing message id in URL path"))
		return
	}

	offer, err := h.offerService.GetByMessageID(r.Context(), messageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"offer": offer}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *OfferHandler) AcceptOfferHandler(w http.ResponseWriter, r *http.Request) {
	offerID, err := getIDFromURL(r, "offerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Actor services.Actor `json:"actor"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	membership, effects, err := h.offerService.Accept(r.Context(), input.Actor, offerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"membership": membership, "effects": effects}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *OfferHandler) DeclineOfferHandler(w http.ResponseWriter, r *http.Request) {
	offerID, err := getIDFromURL(r, "offerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Actor services.Actor `json:"actor"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.offerService.Decline(r.Context(), input.Actor, offerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
