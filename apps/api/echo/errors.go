package echoapi

import (
	"net/http"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
)

// machine-readable error codes
const (
	codeValidation = "validation_error"
	codeForbidden  = "forbidden"
	codeNotFound   = "not_found"
	codeConflict   = "conflict"
	codeInternal   = "internal_error"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Code   string            `json:"code"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	Detail string            `json:"detail,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, resp := errorResponse(err, translator)

		if code == http.StatusInternalServerError {
			msg := http.StatusText(code)
			if p, ok := contextPrincipal(ctx); ok {
				logger.Error(msg, errors.Wrap(err, msg), p)
			} else {
				logger.Error(msg, errors.Wrap(err, msg))
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}
		if ctx.Echo().Debug {
			resp.Detail = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				logger.Error("sending error response", err)
			}
		}
	}
}

// errorResponse maps err to a status code and a body.
func errorResponse(err error, translator ut.Translator) (int, ErrorResponse) {
	switch origErr := errors.Cause(err).(type) {
	case *echo.HTTPError:
		if origErr.Internal != nil {
			if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
				origErr = herr
			}
		}
		msg, ok := origErr.Message.(string)
		if !ok {
			msg = http.StatusText(origErr.Code)
		}
		return origErr.Code, ErrorResponse{Code: httpErrorCode(origErr.Code), Error: msg}

	case validator.ValidationErrors:
		fields := make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			fields[vErr.Field()] = vErr.Translate(translator)
		}
		return http.StatusBadRequest, ErrorResponse{Code: codeValidation, Error: "invalid input", Fields: fields}

	case *core.ValidationError:
		resp := ErrorResponse{Code: codeValidation, Error: origErr.Error()}
		if len(origErr.Fields) > 0 {
			resp.Fields = make(map[string]string, len(origErr.Fields))
			for _, fErr := range origErr.Fields {
				resp.Fields[fErr.Field] = fErr.Error
			}
		}
		return http.StatusBadRequest, resp

	case *core.AuthError:
		code := http.StatusBadRequest
		switch origErr.Code {
		case core.AuthMissingToken:
			code = http.StatusUnauthorized
		case core.AuthInvalidToken:
			code = http.StatusForbidden
		}
		return code, ErrorResponse{Code: origErr.Code, Error: origErr.Message}

	case *core.ForbiddenError:
		return http.StatusForbidden, ErrorResponse{Code: codeForbidden, Error: origErr.Error()}

	case *core.NotFoundError:
		return http.StatusNotFound, ErrorResponse{Code: codeNotFound, Error: origErr.Error()}

	case *core.ConflictError:
		resp := ErrorResponse{Code: codeConflict, Error: origErr.Error()}
		if origErr.Field != "" {
			resp.Fields = map[string]string{origErr.Field: origErr.Message}
		}
		return http.StatusConflict, resp

	default: // any other error is a server error
		return http.StatusInternalServerError, ErrorResponse{Code: codeInternal, Error: http.StatusText(http.StatusInternalServerError)}
	}
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return codeForbidden
	case http.StatusNotFound:
		return codeNotFound
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "payload_too_large"
	}
	if status >= http.StatusInternalServerError {
		return codeInternal
	}
	return "http_error"
}

// errorMessage is the human-readable form of err shown on the dashboard.
func errorMessage(err error, translator ut.Translator) string {
	code, resp := errorResponse(err, translator)
	if code == http.StatusInternalServerError {
		return "Something went wrong, please try again."
	}
	if len(resp.Fields) == 0 {
		return resp.Error
	}
	keys := make([]string, 0, len(resp.Fields))
	for k := range resp.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, resp.Fields[k])
	}
	return strings.Join(msgs, "; ")
}
