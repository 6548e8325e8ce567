package sl

import "log/slog"

// Error wraps an error into a slog attribute.
func Error(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
