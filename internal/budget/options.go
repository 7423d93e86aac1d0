package budget

import (
	"context"
	"log/slog"
	"time"

	"github.com/biweekly-dev/biweekly/internal/activity"
	"github.com/biweekly-dev/biweekly/internal/auth"
	"github.com/biweekly-dev/biweekly/internal/id"
)

// Recorder receives one activity entry per successful change.
type Recorder interface {
	Record(ctx context.Context, e activity.Entry) error
}

// Option configures a Service.
type Option func(*Service)

// WithAuthenticator sets how passwords are stored and checked. Defaults to plaintext.
func WithAuthenticator(a auth.Authenticator) Option {
	return func(s *Service) { s.auth = a }
}

// WithClock sets the source of "now", used for today's date and log timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger. Defaults to one that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithRecorder sets where activity entries go. By default they are dropped.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.rec = r }
}

// WithIDs sets the entry ID and Family Code generator.
func WithIDs(g id.Generator) Option {
	return func(s *Service) { s.ids = g }
}
