package httpx

import "context"

type ctxKey string

// CtxKeyUserID holds the authenticated user's id. The authentication
// middleware populates it; the per-user rate limiter reads it back.
const CtxKeyUserID ctxKey = "user_id"

func userIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
