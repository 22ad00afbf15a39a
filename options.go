package hwcfilter

import "log/slog"

// Option configures a Manager during creation.
//
// Example:
//
//	// Production pipeline, diagnostics follow the build.
//	m := hwcfilter.NewManager()
//
//	// Validate every pass and log through the host's logger.
//	m := hwcfilter.NewManager(
//	    hwcfilter.WithDiagnostics(true),
//	    hwcfilter.WithLogger(hostLogger),
//	)
type Option func(*options)

// options holds the configuration resolved once by NewManager.
type options struct {
	logger      *slog.Logger
	diagnostics bool
	fatal       func(error)
}

func defaultOptions() options {
	return options{
		logger:      nil, // package logger at call time
		diagnostics: internalBuild,
		fatal:       panicFatal,
	}
}

func panicFatal(err error) { panic(err) }

// WithLogger sets the logger used by the Manager instead of the package
// logger from Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithDiagnostics turns the geometry-change validator and Dump on or off.
// The default is on only in builds tagged hwcinternal.
func WithDiagnostics(enabled bool) Option {
	return func(o *options) {
		o.diagnostics = enabled
	}
}

// WithFatalHandler replaces what happens when the validator finds a
// missing geometry change. The default panics with the
// *GeometryChangeError.
func WithFatalHandler(fn func(error)) Option {
	return func(o *options) {
		if fn == nil {
			fn = panicFatal
		}
		o.fatal = fn
	}
}
