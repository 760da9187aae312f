package http

import (
	"net/http"

	"github.com/peoplepulse/peoplepulse/pkg/httpx"
)

// comingSoon stubs a routed-but-unimplemented endpoint. The routes exist so
// the auth and tenant gates in front of them are exercised from day one.
func comingSoon(msg string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": msg + " - coming soon!"})
	})
}
