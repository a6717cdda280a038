package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

const internalMessage = "internal server error"

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindBadRequest, domain.KindInvalidOTP:
		return http.StatusBadRequest
	case domain.KindInvalidCredentials, domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Writer renders the {success:false, message} error envelope. In production
// internal error detail only reaches the log.
type Writer struct {
	production bool
	log        *logrus.Logger
}

func NewWriter(production bool, log *logrus.Logger) *Writer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Writer{production: production, log: log}
}

// Error writes err as a JSON error response and aborts the chain
func (w *Writer) Error(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.Internal(internalMessage, err)
	}

	status := StatusFor(de.Kind)
	body := gin.H{"success": false, "message": de.Message}

	switch {
	case de.Kind == domain.KindValidation:
		details := de.Details
		if details == nil {
			details = []string{}
		}
		body["errors"] = details
	case status == http.StatusInternalServerError:
		w.log.WithError(err).WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"retryable": de.Retryable,
		}).Error("request failed")
		if w.production {
			body["message"] = internalMessage
		} else {
			body["message"] = de.Error()
		}
		if de.Retryable {
			body["retryable"] = true
		}
	}

	c.AbortWithStatusJSON(status, body)
}

// Fail aborts with a fixed status and message
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// BadBody reports a request body that could not be decoded as JSON
func BadBody(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "validation failed",
		"errors":  []string{"body: " + err.Error()},
	})
}
