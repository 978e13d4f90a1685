package httpx

import (
	"context"

	"github.com/aussiebroadwan/tasktab/pkg/idx"
)

type ctxKey string

const (
	CtxKeyUserID   ctxKey = "user_id"
	CtxKeyUsername ctxKey = "username"
)

// UserIDFromCtx returns the authenticated caller's identity as set by
// AuthnMiddleware. The second return is false on unauthenticated requests.
func UserIDFromCtx(ctx context.Context) (idx.ID, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(idx.ID)
	if !ok || v.IsZero() {
		return idx.Zero, false
	}
	return v, true
}
