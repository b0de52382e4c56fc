package gamehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	gameservice "github.com/Black-And-White-Club/belote-tracker/app/modules/game/application"
	gamedb "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/repositories"
	statsservice "github.com/Black-And-White-Club/belote-tracker/app/modules/stats/application"
	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
	"github.com/go-chi/chi/v5"
)

const (
	maxJSONBody     = 1 << 20
	maxWorkbookBody = 10 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// GameHandlers serves the game API over HTTP.
type GameHandlers struct {
	service gameservice.Service
	since   *gameservice.SinceParser
	logger  *slog.Logger
}

// NewGameHandlers creates the HTTP handlers for service.
func NewGameHandlers(service gameservice.Service, since *gameservice.SinceParser, logger *slog.Logger) *GameHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	if since == nil {
		since = gameservice.NewSinceParser(nil)
	}
	return &GameHandlers{service: service, since: since, logger: logger}
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error    string                   `json:"error"`
	Problems []belotetypes.FieldError `json:"problems,omitempty"`
}

// DeleteGameResponse reports whether a game was removed.
type DeleteGameResponse struct {
	Removed bool `json:"removed"`
}

// HandleListGames lists games, newest first, filtered by ?since= and ?status=.
func (h *GameHandlers) HandleListGames(w http.ResponseWriter, r *http.Request) {
	var opts gameservice.ListOptions
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := h.since.Parse(raw)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		opts.Since = since
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := belotetypes.GameStatus(raw)
		if !status.Valid() {
			h.writeError(w, r, http.StatusBadRequest, fmt.Errorf("unknown status %q", raw))
			return
		}
		opts.Status = status
	}

	games, err := h.service.ListGames(r.Context(), opts)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, games)
}

// HandleCreateGame creates a game from a JSON GameDraft.
func (h *GameHandlers) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	var draft belotetypes.GameDraft
	if err := decodeJSON(r, &draft); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	game, err := h.service.CreateGame(r.Context(), draft)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/games/"+game.ID)
	h.writeJSON(w, r, http.StatusCreated, game)
}

// HandleGetGame returns one game.
func (h *GameHandlers) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.service.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, game)
}

// HandleDeleteGame removes a game; 404 when it does not exist.
func (h *GameHandlers) HandleDeleteGame(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.DeleteGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !removed {
		h.writeError(w, r, http.StatusNotFound, gamedb.ErrGameNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRecordRound scores a JSON RoundEntry and appends it to the game.
func (h *GameHandlers) HandleRecordRound(w http.ResponseWriter, r *http.Request) {
	var entry belotetypes.RoundEntry
	if err := decodeJSON(r, &entry); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	record, err := h.service.RecordRound(r.Context(), chi.URLParam(r, "gameID"), entry)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, record)
}

// HandleDeleteRound removes a round and subtracts its points.
func (h *GameHandlers) HandleDeleteRound(w http.ResponseWriter, r *http.Request) {
	game, err := h.service.DeleteRound(r.Context(), chi.URLParam(r, "gameID"), chi.URLParam(r, "roundID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, game)
}

// HandleImportRounds appends the rounds of an uploaded XLSX workbook.
func (h *GameHandlers) HandleImportRounds(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWorkbookBody))
	if err != nil {
		h.writeError(w, r, http.StatusRequestEntityTooLarge, err)
		return
	}

	game, err := h.service.ImportRounds(r.Context(), chi.URLParam(r, "gameID"), body)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, game)
}

// HandleStats returns the computed statistics of a game.
func (h *GameHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, stats)
}

// HandleChart renders a game chart as PNG.
func (h *GameHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	kind := statsservice.ChartKind(chi.URLParam(r, "kind"))
	png, err := h.service.Chart(r.Context(), chi.URLParam(r, "gameID"), kind)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeBytes(w, r, "image/png", png)
}

// HandleExport returns the game as an XLSX workbook.
func (h *GameHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	data, err := h.service.Export(r.Context(), gameID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "belote-"+gameID+".xlsx"))
	h.writeBytes(w, r, xlsxContentType, data)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, belotetypes.ErrValidation),
		errors.Is(err, statsservice.ErrUnknownChart),
		errors.Is(err, gameservice.ErrInvalidWorkbook):
		return http.StatusBadRequest
	case errors.Is(err, gamedb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, gamedb.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *GameHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.writeError(w, r, statusFor(err), err)
}

func (h *GameHandlers) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var verr *belotetypes.ValidationError
	if errors.As(err, &verr) {
		resp.Problems = verr.Problems
	}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
		// Internal details stay in the log.
		resp.Error = http.StatusText(status)
	}
	h.writeJSON(w, r, status, resp)
}

func (h *GameHandlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to encode response", slog.String("error", err.Error()))
	}
}

func (h *GameHandlers) writeBytes(w http.ResponseWriter, r *http.Request, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write response", slog.String("error", err.Error()))
	}
}
