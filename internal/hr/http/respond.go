package http

import (
	"net/http"

	"github.com/peoplepulse/peoplepulse/pkg/httpx"
	"github.com/peoplepulse/peoplepulse/pkg/slogx"
)

// errorBody is the error envelope every failure response uses. The optional
// fields only appear on the error classes that define them.
type errorBody struct {
	Error         string   `json:"error"`
	Message       string   `json:"message,omitempty"`
	Required      []string `json:"required,omitempty"`
	ValidStatuses []string `json:"validStatuses,omitempty"`
	Current       string   `json:"current,omitempty"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	httpx.WriteJSON(w, code, errorBody{Error: msg})
}

// writeServerError logs the cause and returns a generic 500. The underlying
// message is exposed only outside production.
func (rt *Router) writeServerError(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Error("request failed", "err", err)

	body := errorBody{Error: "Something went wrong!", Message: "Internal server error"}
	if rt.env == "development" {
		body.Message = err.Error()
	}
	httpx.WriteJSON(w, http.StatusInternalServerError, body)
}

// recoverPanics converts handler panics into the standard 500 response
// instead of killing the connection.
func (rt *Router) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slogx.FromContext(r.Context()).Error("panic recovered", "panic", rec)
				body := errorBody{Error: "Something went wrong!", Message: "Internal server error"}
				httpx.WriteJSON(w, http.StatusInternalServerError, body)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
