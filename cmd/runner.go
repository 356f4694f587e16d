package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"spext/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, runCommand, reportCommand, genresCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig loads the config file at path, falling back to defaults
// when it is absent or unparseable.
func (r *Runner) loadConfig(path string) *shared.Config {
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err == nil {
			return config
		}
		r.logger.Warn("failed to load config, using defaults", "error", err)
	}
	return shared.DefaultConfig()
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
