package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

type APIError struct {
	Message    string   `json:"message"`
	Code       string   `json:"code,omitempty"`
	Op         string   `json:"op,omitempty"`
	Field      string   `json:"field,omitempty"`
	MissingIDs []string `json:"missingIds,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondRepoError renders a repository error with the status its code maps to.
// Database and unexpected failures never leak their cause to the client.
func RespondRepoError(c *gin.Context, err error) {
	typed, ok := domainagg.As(err)
	if !ok {
		RespondError(c, http.StatusInternalServerError, string(domainagg.CodeUnexpected), nil)
		return
	}
	status := StatusFor(typed.Code)
	body := APIError{
		Message:    typed.Message,
		Code:       string(typed.Code),
		Op:         typed.Op,
		Field:      typed.Field,
		MissingIDs: typed.MissingIDs,
	}
	if status >= http.StatusInternalServerError {
		body.Message = http.StatusText(status)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: body})
}

func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeArgument, domainagg.CodeInvalidOperation:
		return http.StatusBadRequest
	case domainagg.CodeDataValidation, domainagg.CodeReferenceNotFound:
		return http.StatusUnprocessableEntity
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
