package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/league-bot/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

func getIDFromURL(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s parameter", param)
	}
	return id, nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// mapServiceErrorToHTTP translates service layer errors into HTTP responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Missing resources
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, services.ErrMembershipNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrOfferNotFound),
		errors.Is(err, services.ErrRefereeNotFound),
		errors.Is(err, services.ErrFixturesNotPosted):
		notFoundResponse(w, r)

	// Conflicts
	case errors.Is(err, services.ErrTeamNameConflict),
		errors.Is(err, services.ErrTeamRoleConflict),
		errors.Is(err, services.ErrTeamInUse),
		errors.Is(err, services.ErrTeamAlreadyManaged),
		errors.Is(err, services.ErrManagerElsewhere),
		errors.Is(err, services.ErrRefereeExists),
		errors.Is(err, services.ErrMatchAlreadyCancelled),
		errors.Is(err, services.ErrOfferAlreadyFinalized),
		errors.Is(err, services.ErrAlreadyOnTeam):
		conflictResponse(w, r, err.Error())

	// Authorization
	case errors.Is(err, services.ErrForbiddenOperation),
		errors.Is(err, services.ErrOfferTargetMismatch):
		forbiddenResponse(w, r, err.Error())

	// Invalid input / business rules
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrInvalidDateFormat),
		errors.Is(err, services.ErrInvalidTimeFormat),
		errors.Is(err, services.ErrUnknownMatchField),
		errors.Is(err, services.ErrUnknownSettingKey),
		errors.Is(err, services.ErrMatchSameTeams),
		errors.Is(err, services.ErrMatchCancelled),
		errors.Is(err, services.ErrOfferToBot),
		errors.Is(err, services.ErrOfferToSelf),
		errors.Is(err, services.ErrOfferExpired),
		errors.Is(err, services.ErrBotUser),
		errors.Is(err, services.ErrTeamHasNoManager),
		errors.Is(err, services.ErrNoTeamAffiliation),
		errors.Is(err, services.ErrAmbiguousAffiliation),
		errors.Is(err, services.ErrManagerRoleNotConfigured),
		errors.Is(err, services.ErrRefereeRoleNotConfigured),
		errors.Is(err, services.ErrSettingNotConfigured):
		badRequestResponse(w, r, err)

	default:
		serverErrorResponse(w, r, err)
	}
}
