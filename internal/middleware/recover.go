package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo-api/api/transport"
	"github.com/fastygo/todo-api/domain"
)

// Recover is the outermost error boundary: any failure that escapes the
// handlers is logged with full detail and translated into a uniform JSON
// payload. Debug mode additionally exposes the failure detail, its type
// name, and the stack trace; production returns only the generic message.
func Recover(logger *zap.Logger, debugMode bool) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				stack := debug.Stack()

				logger.Error("unhandled failure",
					zap.String("method", string(ctx.Method())),
					zap.String("path", string(ctx.Path())),
					zap.Error(err),
					zap.ByteString("stack", stack),
				)

				status, message := classify(err)
				payload := transport.TranslatedError{Error: message}
				if debugMode {
					payload.Detail = err.Error()
					payload.Type = fmt.Sprintf("%T", err)
					payload.Traceback = string(stack)
				}

				body, _ := json.Marshal(payload)
				ctx.Response.Header.SetContentType("application/json")
				ctx.SetStatusCode(status)
				ctx.SetBody(body)
			}()
			next(ctx)
		}
	}
}

func classify(err error) (int, string) {
	if domain.IsDomainError(err, domain.ErrCodeInvalid) {
		return http.StatusUnprocessableEntity, "Validation error"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return http.StatusInternalServerError, "Database error"
	}
	return http.StatusInternalServerError, "An unexpected error occurred"
}
