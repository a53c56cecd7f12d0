// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/poruru-code/fndeploy/internal/config"
)

// Dependencies holds all injected dependencies required for CLI command execution.
// Runtime is built after settings are loaded so .env values are visible to it.
type Dependencies struct {
	Out          io.Writer
	ErrOut       io.Writer
	ProjectDir   string
	LoadSettings func() config.Settings
	NewRuntime   RuntimeFactory
	Now          func() time.Time
}

// CLI defines the command-line interface structure parsed by Kong.
// It contains global flags and all subcommand definitions.
type CLI struct {
	Config   string      `short:"c" name:"config" help:"Path to the service configuration (default: serverless.yml)"`
	Stage    string      `short:"s" help:"Stage name"`
	Org      string      `help:"Console org (overrides the configured org)"`
	EnvFile  string      `name:"env-file" help:"Path to .env file"`
	NoEmoji  bool        `name:"no-emoji" help:"Disable emoji output"`
	Package  PackageCmd  `cmd:"" help:"Package the service without deploying"`
	Deploy   DeployCmd   `cmd:"" help:"Deploy the service, a pre-built package or a single function"`
	Rollback RollbackCmd `cmd:"" help:"List deployments or roll back to one"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

type (
	// PackageCmd defines the package command flags.
	PackageCmd struct {
		Output string `short:"p" name:"package" help:"Output directory for the package (default: .serverless)"`
	}

	// DeployCmd defines the deploy command flags. "deploy function" selects a
	// single-function update.
	DeployCmd struct {
		Target   string `arg:"" optional:"" help:"Use 'function' to deploy a single function"`
		Package  string `short:"p" name:"package" help:"Deploy a pre-built package directory"`
		Function string `short:"f" name:"function" help:"Function to deploy with 'deploy function'"`
	}

	// RollbackCmd defines the rollback command flags.
	RollbackCmd struct {
		Timestamp string `short:"t" name:"timestamp" help:"Deployment timestamp to roll back to"`
	}

	VersionCmd struct{}
)

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.LoadSettings == nil {
		deps.LoadSettings = config.LoadSettings
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	if len(args) == 0 {
		return runNoArgs(out)
	}

	cli := CLI{}
	parser, err := kong.New(&cli, kong.Name(cliName()), kong.Writers(out, deps.ErrOut))
	if err != nil {
		return exitWithError(out, err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(err, out)
	}

	ui := newUI(out, false)
	// Load environment file if provided or if .env exists in the project directory
	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			ui.Warn(fmt.Sprintf("Warning: failed to load env file %s: %v", cli.EnvFile, err))
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			ui.Warn(fmt.Sprintf("Warning: failed to load .env: %v", err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command := kctx.Command()
	if exitCode, handled := dispatchCommand(ctx, command, cli, deps, out); handled {
		return exitCode
	}

	ui.Warn("unknown command")
	return 1
}

type commandHandler func(context.Context, CLI, Dependencies, io.Writer) int

func dispatchCommand(ctx context.Context, command string, cli CLI, deps Dependencies, out io.Writer) (int, bool) {
	handlers := map[string]commandHandler{
		"package":  runPackage,
		"deploy":   runDeploy,
		"rollback": runRollback,
		"version":  func(_ context.Context, _ CLI, _ Dependencies, out io.Writer) int { return runVersion(out) },
	}

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return 1, false
	}
	if handler, ok := handlers[fields[0]]; ok {
		return handler(ctx, cli, deps, out), true
	}
	return 1, false
}

// runNoArgs prints a short usage hint when the CLI is invoked without arguments.
func runNoArgs(out io.Writer) int {
	ui := newUI(out, false)
	cmd := cliName()
	ui.Info("Usage:")
	ui.Info(fmt.Sprintf("  %s package [--package <dir>] [--stage <name>]", cmd))
	ui.Info(fmt.Sprintf("  %s deploy [--package <dir>] [--stage <name>] [--org <name>]", cmd))
	ui.Info(fmt.Sprintf("  %s deploy function -f <name>", cmd))
	ui.Info(fmt.Sprintf("  %s rollback [-t <timestamp>]", cmd))
	ui.Info("")
	ui.Info(fmt.Sprintf("Try: %s --help", cmd))
	return 0
}

// handleParseError provides user-friendly error messages for parse failures.
func handleParseError(err error, out io.Writer) int {
	msg := err.Error()
	if strings.Contains(msg, "expected string value") {
		ui := newUI(out, false)
		cmd := cliName()
		switch {
		case strings.Contains(msg, "--function"):
			ui.Warn("`-f/--function` expects a function name.")
			ui.Info(fmt.Sprintf("Example: %s deploy function -f hello", cmd))
			return 1
		case strings.Contains(msg, "--package"):
			ui.Warn("`-p/--package` expects a directory.")
			ui.Info(fmt.Sprintf("Example: %s deploy --package .serverless", cmd))
			return 1
		case strings.Contains(msg, "--env-file"):
			ui.Warn("`--env-file` expects a value. Provide a file path.")
			ui.Info(fmt.Sprintf("Example: %s deploy --env-file .env.prod", cmd))
			return 1
		}
	}
	return exitWithError(out, err)
}
