package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/league-bot/services"
	"github.com/go-chi/chi/v5"
)

type SettingHandler struct {
	settingService services.SettingService
}

func NewSettingHandler(settingService services.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

func (h *SettingHandler) SetSettingHandler(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		badRequestResponse(w, r, errors.New("missing setting key in URL path"))
		return
	}

	var input struct {
		Actor services.Actor `json:"actor"`
		Value string         `json:"value"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	setting, err := h.settingService.Set(r.Context(), input.Actor, key, input.Value)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"setting": setting}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingHandler) GetSettingHandler(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		badRequestResponse(w, r, errors.New("missing setting key in URL path"))
		return
	}

	setting, err := h.settingService.Get(r.Context(), key)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"setting": setting}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
