package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studio-tracker/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError renders err using its *apierr.Error status and code when it
// carries one. 5xx messages are replaced so backend details do not leak.
func RespondAPIError(c *gin.Context, err error, fallbackCode string) {
	ae := apierr.From(err, fallbackCode)
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	var msgErr error = ae
	if status >= http.StatusInternalServerError {
		msgErr = apierr.New(status, ae.Code, nil)
		_ = c.Error(err)
	}
	RespondError(c, status, ae.Code, msgErr)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
