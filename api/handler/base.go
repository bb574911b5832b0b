package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo-api/api/transport"
	"github.com/fastygo/todo-api/domain"
	"github.com/fastygo/todo-api/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.SetStatusCode(status)
	if payload == nil {
		ctx.Response.ResetBody()
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, detail := mapError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", string(ctx.Method())),
			zap.String("path", string(ctx.Path())),
			zap.Error(err),
		)
	}
	h.respondJSON(ctx, status, transport.ErrorResponse{Detail: detail})
}

// mapError translates service-level failures into status codes. Anything
// outside the domain taxonomy is reported generically; the detail stays in
// the server log.
func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusUnprocessableEntity, err.Error()
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, err.Error()
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, err.Error()
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return http.StatusInternalServerError, "Database error"
	}
	return http.StatusInternalServerError, "An unexpected error occurred"
}
