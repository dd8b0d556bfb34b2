package http_server

import (
	"context"
	"errors"
	"net/http"

	"github.com/danthegoodman1/bikeshare/filter"
	"github.com/danthegoodman1/bikeshare/gologger"
	"github.com/danthegoodman1/bikeshare/loader"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type CustomContext struct {
	echo.Context
	RequestID string
}

func CreateReqContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := uuid.NewString()
		ctx := context.WithValue(c.Request().Context(), gologger.ReqIDKey, reqID)
		ctx = logger.WithContext(ctx)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set(echo.HeaderXRequestID, reqID)
		logger := zerolog.Ctx(ctx)
		logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("reqID", reqID)
		})
		cc := &CustomContext{
			Context:   c,
			RequestID: reqID,
		}
		return next(cc)
	}
}

// Casts to custom context for the handler, so this doesn't have to be done per handler
func ccHandler(h func(*CustomContext) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h(c.(*CustomContext))
	}
}

func (c *CustomContext) internalErrorMessage() string {
	return "internal error, request id: " + c.RequestID
}

func (c *CustomContext) InternalError(err error, msg string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		zerolog.Ctx(c.Request().Context()).Warn().CallerSkipFrame(1).Msg(err.Error())
	} else {
		zerolog.Ctx(c.Request().Context()).Error().CallerSkipFrame(1).Err(err).Msg(msg)
	}
	return c.String(http.StatusInternalServerError, c.internalErrorMessage())
}

// QueryError maps user input errors to 4xx and everything else to an internal error.
func (c *CustomContext) QueryError(err error, msg string) error {
	var uce *loader.UnknownCityError
	var ume *filter.UnsupportedMonthError
	switch {
	case errors.As(err, &uce), errors.As(err, &ume),
		errors.Is(err, filter.ErrInvalidMonth), errors.Is(err, filter.ErrInvalidWeekday):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, loader.ErrCityNotConfigured):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return c.InternalError(err, msg)
	}
}
