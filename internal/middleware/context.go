package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

type ctxKey string

const (
	ctxCorrelationID ctxKey = "correlation_id"
	ctxUserID        ctxKey = "user_id"
)

// ErrorResponse is the JSON error body shared by middleware and handlers.
// Msg repeats Error for web clients that read the "msg" key.
type ErrorResponse struct {
	Error         string `json:"error"`
	Msg           string `json:"msg"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// GetCorrelationID returns the id placed by CorrelationID, or "" outside a request.
func GetCorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(ctxCorrelationID).(string)
	return cid
}

func withCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, ctxCorrelationID, cid)
}

// UserID returns the authenticated user id placed by RequireUser.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxUserID).(int64)
	return id, ok
}

// WithUserID is used by RequireUser and by tests that bypass token checks.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxUserID, id)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:         msg,
		Msg:           msg,
		CorrelationID: GetCorrelationID(r.Context()),
	})
}
