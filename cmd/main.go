package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/ochronus/gozipline/internal/app"
	"github.com/ochronus/gozipline/internal/config"
	"github.com/ochronus/gozipline/internal/services/zipline"
	"github.com/ochronus/gozipline/internal/utils"
	"github.com/spf13/cobra"
)

// Process exit codes
const (
	exitOK       = 0
	exitFailure  = 1
	exitAuthFail = 77
)

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// exitCode maps a command error to the process exit code
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if zipline.IsAuthError(err) {
		return exitAuthFail
	}
	return exitFailure
}

// errorMessage turns an error into the line shown to the user
func errorMessage(err error) string {
	var apiErr *zipline.APIError
	switch {
	case zipline.IsAuthError(err):
		return fmt.Sprintf("authentication failed, check the server and token: %v", err)
	case errors.Is(err, zipline.ErrRateLimited) && errors.As(err, &apiErr) && apiErr.RetryAfter > 0:
		return fmt.Sprintf("%v (retry after %s)", err, apiErr.RetryAfter)
	default:
		return err.Error()
	}
}

// cli holds the global flags and streams shared by every command
type cli struct {
	configPath string
	verbose    bool
	server     string
	token      string

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func main() {
	// Values from .env only fill variables that are not already set
	_ = godotenv.Load()

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the exit code
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{in: in, out: out, errOut: errOut}
	rootCmd := c.rootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(errOut, color.New(color.FgRed, color.OpBold).Render("Error: ")+errorMessage(err))
	}
	return exitCode(err)
}

func (c *cli) rootCommand() *cobra.Command {
	// Get default config path
	defaultConfigPath, err := config.DefaultConfigPath()
	if err != nil {
		defaultConfigPath = "./config.toml"
	}

	rootCmd := &cobra.Command{
		Use:           "gozipline",
		Short:         "Zipline command line client",
		Long:          "Upload files, shorten URLs and manage a Zipline server from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", defaultConfigPath, "Path to config file")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Log debug output")
	flags.StringVarP(&c.server, "server", "s", "", "Zipline server URL (env ZIPLINE_SERVER)")
	flags.StringVarP(&c.token, "token", "t", "", "Zipline API token (env ZIPLINE_TOKEN)")

	rootCmd.AddCommand(c.uploadCommand())
	rootCmd.AddCommand(c.shortenCommand())
	rootCmd.AddCommand(c.filesCommand())
	rootCmd.AddCommand(c.foldersCommand())
	rootCmd.AddCommand(c.importCommand())
	rootCmd.AddCommand(c.watchCommand())
	rootCmd.AddCommand(c.serveCommand())
	rootCmd.AddCommand(c.generateConfigCommand())
	rootCmd.AddCommand(c.versionCommand())

	return rootCmd
}

// loadConfig reads the config file and environment, then applies the flags
func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.server != "" {
		cfg.Server = c.server
	}
	if c.token != "" {
		cfg.Token = c.token
	}
	if c.verbose {
		cfg.Loglevel = "debug"
	}
	return cfg, nil
}

// connect builds a container, prompting for whichever credential is still missing
func (c *cli) connect(opts ...app.Option) (*app.Container, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.Server == "" || cfg.Token == "" {
		prompter := utils.NewPrompter(c.in, c.errOut)
		if cfg.Server, cfg.Token, err = utils.PromptCredentials(prompter, cfg.Server, cfg.Token); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &exitError{code: exitFailure, err: fmt.Errorf("invalid configuration: %w", err)}
	}

	logger := app.BuildLogger(cfg.Loglevel)
	logger.SetOutput(c.errOut)

	container, err := app.NewContainer(cfg, append([]app.Option{app.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to build container: %w", err)
	}
	return container, nil
}
