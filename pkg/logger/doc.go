// Package logger provides structured logging for instarecon.
//
// It wraps zerolog behind a small Logger interface:
//
//	logger.Initialize(&cfg.Logging)
//	logger.WithField("username", "natgeo").Info("Fetching profile")
//	logger.WithError(err).Error("Failed to write report")
//
// Console output is written to stderr with colored levels; when a log file
// is configured, entries are also appended to it. NewNopLogger and
// NewTestLogger are provided for tests.
package logger
