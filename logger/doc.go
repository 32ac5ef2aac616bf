// Package logger provides structured logging backed by zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers with structured fields. Library packages in this
// module accept an optional *Logger and fall back to Nop, so nothing is
// written unless the caller opts in.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("dispatch")
//	log.Debug("handler selected", logger.Fields("status_code", 404))
package logger
