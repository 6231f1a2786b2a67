package handlers

import (
	"net/http"

	"github.com/Dosada05/league-bot/services"
)

type ResultHandler struct {
	resultService services.ResultService
}

func NewResultHandler(resultService services.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

func (h *ResultHandler) PostResultHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Actor  services.Actor           `json:"actor"`
		Result services.PostResultInput `json:"result"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	effects, err := h.resultService.PostResult(r.Context(), input.Actor, input.Result)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"effects": effects}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
