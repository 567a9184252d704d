package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cpt/cmd/cpt/globals"
	"cpt/internal/components/telemetry"
	"cpt/internal/config"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	timeout  time.Duration
	dumpHttp string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every request and response.")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Give up on a command after this long.")
	rootCmd.PersistentFlags().StringVar(&dumpHttp, "dump-http", "", "Write every http exchange to a file in this directory.")
}

var rootCmd = &cobra.Command{
	Use:   "cpt",
	Short: "cpt fetches problems from competitive programming sites and sets up workspaces to solve them in.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		if dumpHttp != "" {
			out, err := telemetry.NewFilesystemOutput(dumpHttp)
			if err != nil {
				return fmt.Errorf("dump http: %w", err)
			}
			telemetry.SetMessageOutput(out)
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		otel, err := telemetry.SetupOtel(cmd.Context(), "cpt", cfg.Otlp)
		if err != nil {
			slog.Warn("failed to setup otel, continuing without it", "err", err)
		}
		atExit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err := otel.Shutdown(ctx)
			if err != nil {
				slog.Warn("failed to flush otel", "err", err)
			}
		})

		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
			Config:  cfg,
			Tel:     telemetry.SlogAPI{},
			Otel:    otel,
			Timeout: timeout,
		}))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runExitHooks()
	},
	SilenceUsage: true,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		runExitHooks()
		fmt.Fprintln(os.Stderr, err)
		exit(1)
	}
}

var (
	exit      = os.Exit
	exitHooks []func()
)

// atExit registers fn to run when the command finishes, Fatal included.
// Hooks run in reverse order of registration.
func atExit(fn func()) {
	exitHooks = append(exitHooks, fn)
}

func runExitHooks() {
	hooks := exitHooks
	exitHooks = nil
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// Fatal logs the failed operation, releases clients, flushes telemetry and
// exits.
func Fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	runExitHooks()
	exit(1)
}

// requestContext bounds a command's requests by --timeout.
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), globals.Get(cmd.Context()).Timeout)
}

func writePlan(kind, identifier, root string, write func(root string) (string, error)) {
	dir, err := write(root)
	if err != nil {
		Fatal(fmt.Sprintf("%s clone %s", kind, identifier), err)
	}
	slog.Info("cloned", "site", kind, "problem", identifier, "path", dir)
}
