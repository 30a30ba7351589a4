package providers

import "log/slog"

// Option customizes a provider.
type Option func(*settings)

type settings struct {
	baseURL string
	logger  *slog.Logger
}

// WithBaseURL overrides the upstream endpoint, e.g. to point at a test server.
func WithBaseURL(u string) Option {
	return func(s *settings) {
		s.baseURL = u
	}
}

// WithLogger sets the logger used for upstream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func applyOptions(defaultURL string, opts []Option) settings {
	s := settings{baseURL: defaultURL, logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
