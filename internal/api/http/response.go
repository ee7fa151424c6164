package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/manitto-app/manitto-server/internal/domain"
)

// Response is the uniform envelope every endpoint returns. Code mirrors
// the HTTP status.
type Response struct {
	IsSuccess bool   `json:"isSuccess"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Result    any    `json:"result,omitempty"`
}

func respond(ctx *gin.Context, status int, message string, result any) {
	ctx.JSON(status, Response{
		IsSuccess: status >= 200 && status < 300,
		Code:      status,
		Message:   message,
		Result:    result,
	})
}

func respondValidationError(ctx *gin.Context, message string) {
	respond(ctx, http.StatusBadRequest, message, nil)
}

func respondError(ctx *gin.Context, err error) {
	kind := domain.KindOf(err)
	message := err.Error()
	if kind == domain.KindInternal {
		// Internal detail never leaves the process.
		message = "internal server error"
	}
	respond(ctx, statusForKind(kind), message, nil)
}

// statusForKind is the only place domain error kinds meet HTTP.
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindDuplicate:
		return http.StatusConflict
	case domain.KindInsufficientMembers, domain.KindSelfDeletionForbidden:
		return http.StatusBadRequest
	case domain.KindCodeGenerationExhausted,
		domain.KindDerangementUnreachable,
		domain.KindPartialMatchingFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
