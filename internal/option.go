package internal

import (
	"io"
	"os"

	"github.com/starford/notion2hugo/internal/publish"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	source publish.Source
	logOut io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithSource replaces the Notion client, e.g. with a fixture in tests.
func WithSource(src publish.Source) Option {
	return func(a *application) {
		a.source = src
	}
}

// WithLogOutput redirects the JSON log stream (stdout by default).
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

func newApplication(opts []Option) *application {
	app := &application{logOut: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	return app
}
