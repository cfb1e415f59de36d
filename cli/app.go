// Package cli wires configuration, logging and the model provider into the
// smartchat commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Build information, set from main.
var (
	Version = "dev"
	License = "Apache-2.0"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	envFile  string
	dataDir  string
	provider string
	logLevel string
	jsonLogs bool
	debug    bool
}

// App is the smartchat command tree.
type App struct {
	root   *cobra.Command
	opts   globalOptions
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdin:  os.Stdin,
	}

	app.root = &cobra.Command{
		Use:   "smartchat",
		Short: "Chat with Gemini about text, images and CSV data",
		Long: `smartchat is a multi-purpose chat app. Ask questions, attach an image for
the vision model, or load a CSV file and ask for a histogram or bar chart of
its columns.

Run "smartchat serve" for the browser shell or "smartchat chat" for the
terminal shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := app.root.PersistentFlags()
	flags.StringVar(&app.opts.envFile, "env-file", ".env", "File of KEY=value pairs loaded into the environment")
	flags.StringVar(&app.opts.dataDir, "data-dir", "", "Data directory (overrides settings.toml and SMARTCHAT_DATA_DIR)")
	flags.StringVar(&app.opts.provider, "provider", "", `Model provider: "gemini" or "offline"`)
	flags.StringVar(&app.opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVar(&app.opts.jsonLogs, "json-logs", false, "Write logs as JSON instead of console text")
	flags.BoolVar(&app.opts.debug, "debug", false, "Enable debug logging")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newServeCmd(),
		app.newChatCmd(),
		app.newAskCmd(),
		app.newConfigCmd(),
	)
	return app
}

// WithIO sets custom streams, mainly for tests.
func (a *App) WithIO(stdin io.Reader, stdout, stderr io.Writer) *App {
	a.stdin = stdin
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetIn(stdin)
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the command tree until it finishes or the process is
// interrupted.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "smartchat %s (%s)\n", Version, License)
		},
	}
}
