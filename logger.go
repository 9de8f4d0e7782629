package shpsched

// Logger is the logging interface used throughout the engine. It exists
// so that the constraint builder, drivers, validator and patcher never
// import a concrete logging library directly: only the cmd/ binaries
// wire a real implementation in.
type Logger interface {
	Debugf(format string, v ...any)
	Debug(message string)
	Infof(format string, v ...any)
	Info(message string)
	Warnf(format string, v ...any)
	Warn(message string)
}
