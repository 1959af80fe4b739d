// Package logger provides structured logging for monox using zerolog.
//
// Loggers are created from Config and tagged per component. Run-scoped
// values (run id, trace and span ids) are attached with WithContext.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("analysis")
//	log.Info("run finished", logger.Fields(logger.FieldEvents, 1200))
package logger
