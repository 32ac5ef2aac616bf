package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/errhandling/errors"
	"github.com/kbukum/errhandling/normalize"
)

// ErrorBody is the JSON body written for a failed request.
type ErrorBody struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Message       string `json:"message"`
	Data          any    `json:"data,omitempty"`
}

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError normalizes err and writes it as an ErrorBody. Errors
// without a usable status are answered with a generic 500 whose message does
// not reveal err.
func RespondWithError(c *gin.Context, err error) {
	_, n := resolve(err)
	writeError(c, n)
}

// resolve picks the error that answers the request. A generic error wrapping
// a framework or transport error yields the first such link in its chain, so
// fmt.Errorf("load: %w", apperrors.NotFound(...)) still answers 404.
func resolve(err error) (error, *normalize.NormalizedError) {
	if link, n := firstHTTPError(err); n != nil {
		return link, n
	}
	n, nerr := normalize.Normalize(err)
	if nerr != nil {
		return err, internalError(err)
	}
	return err, n
}

func firstHTTPError(err error) (error, *normalize.NormalizedError) {
	if err == nil {
		return nil, nil
	}
	if n, nerr := normalize.Normalize(err); nerr == nil && n.Kind != normalize.KindGeneric {
		return err, n
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return firstHTTPError(u.Unwrap())
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if link, n := firstHTTPError(e); n != nil {
				return link, n
			}
		}
	}
	return nil, nil
}

// NewErrorBody builds the response body for n. The status is 500 when n has
// none or one outside 400-599.
func NewErrorBody(n *normalize.NormalizedError) ErrorBody {
	if n.Kind == normalize.KindGeneric {
		n = internalError(n)
	}

	body := ErrorBody{
		StatusCode:    n.StatusCode,
		StatusMessage: n.StatusMessage,
		Message:       n.Message,
		Data:          n.Data,
	}
	if body.StatusCode < 400 || body.StatusCode > 599 {
		body.StatusCode = http.StatusInternalServerError
		body.StatusMessage = ""
	}
	if body.StatusMessage == "" {
		body.StatusMessage = http.StatusText(body.StatusCode)
	}
	return body
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

func writeError(c *gin.Context, n *normalize.NormalizedError) {
	body := NewErrorBody(n)
	c.AbortWithStatusJSON(body.StatusCode, body)
}

// internalError replaces an error that carries no HTTP semantics.
func internalError(cause error) *normalize.NormalizedError {
	appErr := apperrors.Internal(cause)
	return &normalize.NormalizedError{
		Kind:          normalize.KindFramework,
		Name:          normalize.NameFramework,
		Message:       appErr.Message,
		StatusCode:    appErr.StatusCode,
		StatusMessage: http.StatusText(appErr.StatusCode),
		Cause:         cause,
	}
}
