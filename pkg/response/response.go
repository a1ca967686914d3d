package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CtxRequestIDKey is the gin context key holding the request id.
const CtxRequestIDKey = "request_id"

// ErrorBody is the single error shape of the API. Success bodies are the raw payload.
type ErrorBody struct {
	Detail    string    `json:"detail"`
	Status    int       `json:"status"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Errors    any       `json:"errors,omitempty"`
}

// Error writes an error body and aborts the chain.
func Error(ctx *gin.Context, status int, detail string, errs any) ErrorBody {
	if status == 0 {
		status = http.StatusBadRequest
	}
	body := ErrorBody{
		Detail:    detail,
		Status:    status,
		RequestID: ctx.GetString(CtxRequestIDKey),
		Timestamp: time.Now().UTC(),
		Errors:    errs,
	}
	ctx.AbortWithStatusJSON(status, body)
	return body
}

// Unauthorized is Error(401) plus the bearer challenge header.
func Unauthorized(ctx *gin.Context, detail string) ErrorBody {
	ctx.Header("WWW-Authenticate", "Bearer")
	return Error(ctx, http.StatusUnauthorized, detail, nil)
}

func Success[T any](ctx *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}
