package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logger writes one structured line per request. Server errors log at
// error level, client errors at warn, everything else at info.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo's error handler set the status before we read it.
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			rid, _ := c.Get("request_id").(string)

			var evt *zerolog.Event
			switch {
			case res.Status >= 500:
				evt = logger.Error().Err(err)
			case res.Status >= 400:
				evt = logger.Warn()
			default:
				evt = logger.Info()
			}

			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("route", c.Path()).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("elapsed", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("http request")

			return nil
		}
	}
}
