package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tinytelemetry/scrollspy/internal/model"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configPath string

	cmd := &cobra.Command{
		Use:   "scrollspy [flags] FILE",
		Short: "Read a markdown document with a sidebar that follows scrolling",
		Long: `scrollspy opens a markdown document in the terminal. The sidebar lists
the document's sections and highlights the one being read; selecting a
section scrolls to it and holds the highlight until scrolling settles.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return run(cmd.Context(), cfg, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/scrollspy/config.yml)")
	flags.Int("dead-zone-top", model.DefaultDeadZoneTop, "rows at the top of the viewport excluded from section tracking")
	flags.Float64("dead-zone-bottom", model.DefaultDeadZoneBottom, "fraction of the viewport height excluded at the bottom")
	flags.Duration("suppress-duration", model.DefaultSuppressDuration, "how long the highlight is held after jumping to a section")
	flags.Int("scroll-offset", model.DefaultDeadZoneTop, "rows left above a section when jumping to it")
	flags.Bool("smooth-scroll", true, "animate jumps to a section")
	flags.Int("smooth-frames", model.DefaultSmoothFrames, "frames per animated jump")
	flags.Bool("reverse-scroll-wheel", false, "reverse mouse wheel direction")
	flags.Int("heading-level", model.DefaultHeadingLevel, "deepest heading level that starts a section")
	flags.String("code-style", model.DefaultCodeStyle, "chroma style for fenced code blocks")
	flags.Bool("watch", false, "reload the document when the file changes")
	flags.Bool("api-enabled", false, "serve the local control API")
	flags.String("api-addr", defaultAPIAddr, "control API listen address")
	flags.String("log-file", "", "log file (default is $HOME/.local/state/scrollspy/scrollspy.log)")
	flags.String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		_ = v.BindPFlag(f.Name, f)
	})

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "scrollspy - terminal document reader\n")
			fmt.Fprintf(out, "  Version:    %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Built:      %s\n", buildTime)
			fmt.Fprintf(out, "  Go version: %s\n", goVersion)
		},
	}
}
