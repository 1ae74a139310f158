package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd wires the subcommands. Flag defaults come from the environment,
// so flags override FLOWCODE_* variables.
func newRootCmd() *cobra.Command {
	cfg := LoadConfig()

	rootCmd := &cobra.Command{
		Use:          "flowbench",
		Short:        "Generate and time flowcode index codes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cfg.Color {
			case "on":
				color.NoColor = false
			case "off":
				color.NoColor = true
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&cfg.Radix, "radix", "r", cfg.Radix, "numeral radix")
	flags.BoolVar(&cfg.HumanReadable, "human", cfg.HumanReadable, "drop I and O from the tier alphabet")
	flags.IntVarP(&cfg.Length, "length", "l", cfg.Length, "nominal code length")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text|json)")
	flags.StringVar(&cfg.Color, "color", cfg.Color, "colorize output (auto|on|off)")

	rootCmd.AddCommand(newBenchCmd(&cfg))
	rootCmd.AddCommand(newFormatCmd(&cfg))
	rootCmd.AddCommand(newParseCmd(&cfg))
	return rootCmd
}
