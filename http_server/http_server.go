package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/danthegoodman1/bikeshare/gologger"
	"github.com/danthegoodman1/bikeshare/loader"
	"github.com/danthegoodman1/bikeshare/metrics"
	"github.com/danthegoodman1/bikeshare/query"
	"github.com/danthegoodman1/bikeshare/utils"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

var logger = gologger.NewLogger()

type HTTPServer struct {
	Echo *echo.Echo

	loader   *loader.Loader
	runner   *query.Runner
	recorder *metrics.PrometheusRecorder
}

type CustomValidator struct {
	validator *validator.Validate
}

// NewHTTPServer builds the router without listening, so it can be driven by httptest.
func NewHTTPServer(l *loader.Loader, rec *metrics.PrometheusRecorder) *HTTPServer {
	s := &HTTPServer{
		Echo:     echo.New(),
		loader:   l,
		runner:   query.NewRunner(l, rec),
		recorder: rec,
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.JSONSerializer = &utils.NoEscapeJSONSerializer{}

	s.Echo.Use(CreateReqContext)
	s.Echo.Use(LoggerMiddleware)
	s.Echo.Use(middleware.CORS())
	s.Echo.Validator = &CustomValidator{validator: validator.New()}

	// technical - no auth
	s.Echo.GET("/hc", s.HealthCheck)
	s.Echo.GET("/metrics", echo.WrapHandler(rec.Handler()))

	s.Echo.GET("/cities", ccHandler(s.ListCities))
	s.Echo.GET("/stats", ccHandler(s.GetStats))
	s.Echo.GET("/trips", ccHandler(s.GetTrips))

	return s
}

// StartHTTPServer serves h2c on port in the background.
func StartHTTPServer(port int, l *loader.Loader, rec *metrics.PrometheusRecorder) (*HTTPServer, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("error creating tcp listener: %w", err)
	}
	s := NewHTTPServer(l, rec)
	s.Echo.Listener = listener
	go func() {
		logger.Info().Msg("starting h2c server on " + listener.Addr().String())
		err := s.Echo.StartH2CServer("", &http2.Server{})
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("failed to start h2c server, exiting")
			os.Exit(1)
		}
	}()

	return s, nil
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func ValidateRequest(c echo.Context, s interface{}) error {
	if err := c.Bind(s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(s); err != nil {
		return err
	}
	return nil
}

func (*HTTPServer) HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

// LoggerMiddleware logs every request, at warn level for server errors.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}
		req := c.Request()
		res := c.Response()

		ev := zerolog.Ctx(req.Context()).Debug()
		if res.Status >= http.StatusInternalServerError {
			ev = zerolog.Ctx(req.Context()).Warn()
		}
		ev.Str("method", req.Method).
			Str("remote_ip", c.RealIP()).
			Str("req_uri", req.RequestURI).
			Str("handler_path", c.Path()).
			Int("status", res.Status).
			Dur("latency", time.Since(start)).
			Str("protocol", req.Proto).
			Int64("bytes_out", res.Size).
			Msg("req received")
		return nil
	}
}
