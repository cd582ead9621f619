// beangen regenerates the accessor, equality, dispatch and meta-bean code of
// annotated Go structs inside a marker-delimited region of their own file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"beangen/internal/config"
	"beangen/internal/runner"
)

const examples = `  # Regenerate every annotated struct below the current directory
  beangen

  # Only the models package, indented with four spaces
  beangen "models/**/*.go" --indent 4

  # Fail in CI when a generated region is out of date
  beangen --check

  # Exclude specific files
  beangen -X "legacy/**,**/*_gen.go"

  # Regenerate on every save
  beangen --watch -v`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "beangen [patterns...]",
		Short: "Generate bean code into annotated Go source files",
		Long: `beangen finds structs annotated with //beangen:bean and rewrites the
generated region at the end of their file. Code outside the region is never
touched. Patterns are doublestar globs relative to --root and replace the
configured include patterns.`,
		Example:       examples,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(cmd.Context(), v, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Config file (YAML/JSON)")
	flags.StringP("root", "r", ".", "Directory to process")
	flags.String("indent", "", `Indentation of generated code: "tab" or a number of spaces`)
	flags.String("prefix", "", "Prefix of the generated property map field")
	flags.String("runtime", "", "Import name of the beans runtime package")
	flags.String("import", "", "Import path of the beans runtime package")
	flags.StringP("exclude", "X", "", "Exclude these patterns (comma-separated)")
	flags.IntP("workers", "j", 0, "Units processed in parallel (default: number of CPUs)")
	flags.Bool("check", false, "Report out-of-date units and fail instead of writing")
	flags.Bool("dry-run", false, "Process units without writing them")
	flags.BoolP("watch", "w", false, "Keep running and regenerate units as they change")
	flags.Bool("no-lock", false, "Do not lock units while writing them")
	flags.BoolP("verbose", "v", false, "Verbose output")

	bindFlags(v, flags)
	return cmd
}

// bindFlags makes every flag readable through v, falling back to BEANGEN_*
// environment variables when the flag is not given.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
	v.SetEnvPrefix("BEANGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

func generate(ctx context.Context, v *viper.Viper, patterns []string, stdout, stderr io.Writer) error {
	// Load configuration
	cfg := config.New()
	if configFile := v.GetString("config"); configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	applyOverrides(cfg, v, patterns)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(stderr, v.GetBool("verbose"))
	defer func() { _ = logger.Sync() }()

	r, err := runner.New(cfg, runner.WithLogger(logger))
	if err != nil {
		return err
	}
	root := v.GetString("root")
	if cfg.Options.Watch {
		return r.Watch(ctx, root)
	}

	report, err := r.Run(ctx, root)
	if report != nil && cfg.Options.Check {
		for _, path := range report.Changed {
			fmt.Fprintf(stdout, "out of date: %s\n", path)
		}
	}
	if report != nil && cfg.Options.DryRun {
		for _, path := range report.Changed {
			fmt.Fprintf(stdout, "would regenerate: %s\n", path)
		}
	}
	if errors.Is(err, runner.ErrPendingChanges) {
		return fmt.Errorf("%d unit(s) out of date", len(report.Changed))
	}
	return err
}

// applyOverrides layers flags and BEANGEN_* variables over the loaded configuration.
func applyOverrides(cfg *config.Config, v *viper.Viper, patterns []string) {
	if indent := v.GetString("indent"); indent != "" {
		cfg.Generator.Indent = indent
	}
	if prefix := v.GetString("prefix"); prefix != "" {
		cfg.Generator.Prefix = prefix
	}
	if runtime := v.GetString("runtime"); runtime != "" {
		cfg.Generator.Runtime = runtime
	}
	if importPath := v.GetString("import"); importPath != "" {
		cfg.Generator.Import = importPath
	}
	if len(patterns) > 0 {
		cfg.Options.Include = patterns
	}
	if exclude := v.GetString("exclude"); exclude != "" {
		cfg.Options.Exclude = append(cfg.Options.Exclude, parseCommaSeparated(exclude)...)
	}
	if workers := v.GetInt("workers"); workers > 0 {
		cfg.Options.Workers = workers
	}
	if v.GetBool("check") {
		cfg.Options.Check = true
	}
	if v.GetBool("dry-run") {
		cfg.Options.DryRun = true
	}
	if v.GetBool("watch") {
		cfg.Options.Watch = true
	}
	if v.GetBool("no-lock") {
		cfg.Options.NoLock = true
	}
}

// newLogger builds a console logger, at debug level when verbose.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// parseCommaSeparated splits a comma-separated string into a slice of trimmed strings.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
