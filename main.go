package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "zakat-tax",
		Short:         "Zakat and Pakistan income tax calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if cfgFile == "" {
				return nil
			}

			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")

	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(serveCmd(v))
	rootCmd.AddCommand(zakatCmd())
	rootCmd.AddCommand(taxCmd())
	rootCmd.AddCommand(slabsCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(viper.New()).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "zakat-tax %s\n", version)
		},
	}
}
