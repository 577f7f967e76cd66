package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vmitrev/amora/internal/service"
	"github.com/vmitrev/amora/internal/transport/http/middleware"
)

type MatchHandler struct {
	matchService *service.MatchService
}

func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// Like records a like on the target profile and reports whether it
// completed a match. On failure the client re-enables the like control
// and the user retries; nothing retries automatically.
func (h *MatchHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid profile ID")
		return
	}

	outcome, err := h.matchService.SendLike(r.Context(), userID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotLikeSelf):
			writeError(w, http.StatusBadRequest, "CANNOT_LIKE_SELF", "You cannot like your own profile")
		case errors.Is(err, service.ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile does not exist")
		default:
			log.Error().Err(err).Msg("send like failed")
			writeError(w, http.StatusInternalServerError, "LIKE_FAILED", "Error sending like")
		}
		return
	}

	status := Status{Level: StatusInfo, Message: "Like sent. If they like you back, it's a match."}
	if outcome == service.OutcomeMatched {
		status = Status{Level: StatusSuccess, Message: "It's a match! You can now chat."}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": outcome,
		"status":  status,
	})
}

// Pass records a session-local pass; nothing is persisted.
func (h *MatchHandler) Pass(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid profile ID")
		return
	}

	h.matchService.Pass(userID, targetID)

	writeJSON(w, http.StatusOK, map[string]any{
		"status": Status{Level: StatusInfo, Message: "You passed on this profile."},
	})
}

func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	matches, err := h.matchService.ListMatches(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("list matches failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Error loading matches")
		return
	}

	writeJSON(w, http.StatusOK, matches)
}
