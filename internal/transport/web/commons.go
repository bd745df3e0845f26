package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/Olprog59/go-contenthub/internal/app"
	"github.com/Olprog59/go-contenthub/internal/dto"
	"github.com/Olprog59/go-contenthub/internal/logging"
	"github.com/Olprog59/go-contenthub/internal/service"
	"github.com/Olprog59/go-contenthub/internal/ui"
)

const maxBodyBytes = 1 << 20

// Handler gives HTTP handlers access to the application container and the page renderer.
type Handler struct {
	container *app.Container
	views     *ui.Renderer
	log       *slog.Logger
}

// NewHandler creates and returns a new Handler instance / Crée une nouvelle instance de Handler
func NewHandler(container *app.Container, views *ui.Renderer) *Handler {
	return &Handler{
		container: container,
		views:     views,
		log:       logging.Module("web"),
	}
}

// ErrorResponse sends a JSON body {"error": message} with the given status.
func ErrorResponse(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]any{"error": message})
}

// jsonResponse sends data as JSON with status 200 / Envoie data en JSON avec le statut 200
func jsonResponse(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a size-limited JSON body into dst, then validates it.
// The error returned is already mapped for handleError.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return &dto.FieldError{Field: "body", Message: "Invalid request body"}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &dto.FieldError{Field: "body", Message: "Invalid request body"}
	}
	return dto.Validate(dst)
}

var errBodyTooLarge = errors.New("Request body too large")

// pathID parses a numeric path parameter / Analyse un paramètre de chemin numérique
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &dto.FieldError{Field: name, Message: fmt.Sprintf("invalid %s", name)}
	}
	return id, nil
}

// queryInt parses an optional integer form value, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &dto.FieldError{Field: name, Message: fmt.Sprintf("%s must be an integer", name)}
	}
	return n, nil
}

func isNotFound(err error) bool {
	for _, target := range []error{
		service.ErrUserNotFound, service.ErrProfileNotFound, service.ErrCategoryNotFound,
		service.ErrPostNotFound, service.ErrSubjectNotFound, service.ErrDeckNotFound,
		service.ErrQuestionNotFound, service.ErrCardNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// handleError maps err to a JSON response and logs unexpected failures with the request id.
// Internal errors are detailed in development only.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var fieldErr *dto.FieldError
	var valErr *service.ValidationError

	switch {
	case errors.Is(err, errBodyTooLarge):
		ErrorResponse(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.As(err, &fieldErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": fieldErr.Message, "field": fieldErr.Field})
	case service.IsConflict(err) && errors.As(err, &valErr):
		writeJSON(w, http.StatusConflict, map[string]any{"error": valErr.Message, "field": valErr.Field})
	case service.IsConflict(err):
		ErrorResponse(w, err.Error(), http.StatusConflict)
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": valErr.Message, "field": valErr.Field})
	case isNotFound(err):
		ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrCardHasNoQuestion):
		ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		LoggerFromContext(r.Context(), h.log).Error("request failed",
			"op", op,
			"err", err,
			"request_id", GetRequestID(r.Context()),
		)
		msg := "Internal Server Error"
		if h.container.Config.IsDevelopment() {
			msg = fmt.Sprintf("Error in %s:\n %v", op, err)
		}
		ErrorResponse(w, msg, http.StatusInternalServerError)
	}
}
