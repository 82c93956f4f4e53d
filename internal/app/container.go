package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ochronus/gozipline/internal/config"
	"github.com/ochronus/gozipline/internal/services/zipline"
	"github.com/sirupsen/logrus"
)

// verifyTimeout bounds the token check done while building the container.
const verifyTimeout = 15 * time.Second

// Container centralizes the core dependencies used across the application.
type Container struct {
	Config       *config.Config
	Logger       *logrus.Logger
	Client       zipline.ClientAPI
	VerifyServer bool
}

// Option allows customizing the container during construction.
type Option func(*Container) error

// WithLogger overrides the default logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Container) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithClient overrides the default Zipline client.
func WithClient(client zipline.ClientAPI) Option {
	return func(c *Container) error {
		if client == nil {
			return fmt.Errorf("zipline client cannot be nil")
		}
		c.Client = client
		return nil
	}
}

// WithServerVerification enables or disables the token check against the server (default: disabled).
func WithServerVerification(verify bool) Option {
	return func(c *Container) error {
		c.VerifyServer = verify
		return nil
	}
}

// NewContainer builds a Container with sensible defaults derived from cfg.
// Options can be supplied to override specific dependencies (useful in tests).
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	container := &Container{
		Config: cfg,
		Logger: BuildLogger(cfg.Loglevel),
	}

	// Apply options early so tests can inject mocks before defaults are created.
	for _, opt := range opts {
		if err := opt(container); err != nil {
			return nil, err
		}
	}

	if container.Client == nil {
		client, err := zipline.NewClient(cfg.Server, cfg.Token,
			zipline.WithTimeout(time.Duration(cfg.Timeout)*time.Second),
			zipline.WithLogger(container.Logger),
		)
		if err != nil {
			return nil, err
		}
		container.Client = client
	}

	if container.VerifyServer {
		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()
		user, err := container.Client.GetSelf(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to verify zipline token: %w", err)
		}
		container.Logger.Debugf("authenticated as %s (%s)", user.Username, user.Role)
	}

	return container, nil
}

// Close releases the client's transport.
func (c *Container) Close() {
	if c.Client != nil {
		c.Client.Close()
	}
}

// BuildLogger returns the application logger at levelStr, falling back to info.
func BuildLogger(levelStr string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
