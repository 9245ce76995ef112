package http

import (
	"errors"
	"net/http"

	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error kinds reported to clients next to the status code.
const (
	KindEntityNotFound              = "EntityNotFound"
	KindClientNotAuthorized         = "ClientNotAuthorized"
	KindBadCredentials              = "BadCredentials"
	KindInvalidToken                = "InvalidToken"
	KindBadRequest                  = "BadRequest"
	KindDeliveryPartnerNotAvailable = "DeliveryPartnerNotAvailable"
	KindConflict                    = "Conflict"
	KindForbidden                   = "Forbidden"
	KindInternal                    = "Internal"
)

// ErrorBody is written for every failed request.
type ErrorBody struct {
	StatusCode int    `json:"status_code"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
}

// classify maps an application error onto its HTTP status and kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, KindEntityNotFound
	case errors.Is(err, errs.ErrClientNotAuthorized):
		return http.StatusUnauthorized, KindClientNotAuthorized
	case errors.Is(err, errs.ErrBadCredentials):
		return http.StatusUnauthorized, KindBadCredentials
	case errors.Is(err, errs.ErrInvalidToken):
		return http.StatusUnauthorized, KindInvalidToken
	case errors.Is(err, services.ErrDeliveryPartnerNotAvailable):
		return http.StatusBadRequest, KindDeliveryPartnerNotAvailable
	case errors.Is(err, shipment.ErrShipmentAlreadyReviewed),
		errors.Is(err, ports.ErrDuplicateEmail):
		return http.StatusConflict, KindConflict
	case errors.Is(err, errs.ErrBadRequest),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, KindBadRequest
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

// ErrorHandler replaces echo's default so that every error, including the ones raised
// by middleware and the router, leaves in the same shape. Internal errors are logged
// and never echoed to the client.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := errorBody(err)
		if body.StatusCode >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(body.StatusCode)
		} else {
			writeErr = c.JSON(body.StatusCode, body)
		}
		if writeErr != nil {
			logger.Warn("failed to write error response", zap.Error(writeErr))
		}
	}
}

func errorBody(err error) ErrorBody {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		kind := KindBadRequest
		switch he.Code {
		case http.StatusUnauthorized:
			kind = KindInvalidToken
		case http.StatusForbidden:
			kind = KindForbidden
		case http.StatusNotFound:
			kind = KindEntityNotFound
		}
		if he.Code >= http.StatusInternalServerError {
			return ErrorBody{StatusCode: he.Code, Kind: KindInternal, Message: http.StatusText(he.Code)}
		}
		message, ok := he.Message.(string)
		if !ok {
			message = http.StatusText(he.Code)
		}
		return ErrorBody{StatusCode: he.Code, Kind: kind, Message: message}
	}

	code, kind := classify(err)
	if code == http.StatusInternalServerError {
		return ErrorBody{StatusCode: code, Kind: kind, Message: "internal server error"}
	}
	return ErrorBody{StatusCode: code, Kind: kind, Message: err.Error()}
}
