// Package logging provides structured logging configuration for activestore.
//
// This package wraps log/slog so the request client, the stores and the CLI
// share one logger setup.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//	logger.Debug("index loaded", "model", "example", "count", 15)
//
// Components accept a *slog.Logger through an option. When none is given they
// fall back to logging.Nop().
package logging
