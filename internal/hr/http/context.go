package http

import (
	"context"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
)

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

func withPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

func principalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(domain.Principal)
	return p, ok
}
