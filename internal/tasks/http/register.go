package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tasktab/internal/tasks/service"
	"github.com/aussiebroadwan/tasktab/pkg/httpx"
	"github.com/aussiebroadwan/tasktab/pkg/slogx"
)

type RegisterHandler struct {
	UserService *service.UserService
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeHTTP creates a new user account from a JSON username/password pair.
// The password is hashed before it touches the database; the plaintext is
// never stored or logged.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	if req.Username == "" || req.Password == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			errInvalidRequest.WriteError(w)
		case errors.Is(err, service.ErrDuplicateUser):
			errDuplicateUser.WriteError(w)
		default:
			log.Error("failed to register user", "err", err)
			errServerError.WriteError(w)
		}
		return
	}

	log.Info("user registered", "user_id", user.ID.String())
	httpx.WriteJSON(w, http.StatusCreated, messageResponse{
		Message: "user registered successfully",
	})
}
