package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tonglang/tong/pkg/ioctx"
	"github.com/tonglang/tong/pkg/tong"
	"github.com/tonglang/tong/pkg/tongmod"
)

// Config holds the application configuration
type Config struct {
	Debug bool
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "tong [flags] [file] [args...]",
		Short: "Tong language interpreter",
		Long: `Tong is a small expression language with data constructors,
first-match pattern dispatch, and partial application.`,
		Example: `  # Run a tong script
  tong script.tong

  # Run a script with arguments (exposed via import("args"))
  tong script.tong a b c

  # Start interactive REPL
  tong

  # Run with debug logging enabled
  tong --debug script.tong`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cfg.Debug)
			if len(args) >= 1 {
				return runFile(cmd.Context(), args[0], args[1:])
			}
			return runREPL(cmd.Context())
		},
	}

	rootCmd.Flags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")

	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	ctx = ioctx.StderrToContext(ctx, os.Stderr)
	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func runFile(ctx context.Context, path string, scriptArgs []string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	slog.Debug("running script", "path", path, "args", scriptArgs)

	interp := tong.NewInterp()
	tongmod.RegisterAll(interp, scriptArgs)
	interp.SetArgs(scriptArgs)

	if _, err := interp.RunScript(ctx, string(src), path); err != nil {
		return errors.Wrapf(err, "%s", path)
	}
	return nil
}
