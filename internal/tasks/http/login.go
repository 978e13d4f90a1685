package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tasktab/internal/tasks/service"
	"github.com/aussiebroadwan/tasktab/pkg/httpx"
	"github.com/aussiebroadwan/tasktab/pkg/slogx"
)

type LoginHandler struct {
	UserService    *service.UserService
	SessionService *service.SessionService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeHTTP exchanges a username/password pair for a signed bearer token.
// Unknown usernames and wrong passwords produce the same response so the
// endpoint cannot be used to enumerate accounts.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	if req.Username == "" || req.Password == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Verify(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound),
			errors.Is(err, service.ErrInvalidCredentials):
			errInvalidCredentials.WriteError(w)
		default:
			log.Error("failed to verify credentials", "err", err)
			errServerError.WriteError(w)
		}
		return
	}

	token, ttl, err := h.SessionService.Issue(ctx, user)
	if err != nil {
		log.Error("failed to issue access token", "err", err)
		errServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl.Seconds()),
	})
}
