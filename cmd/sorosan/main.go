// Command sorosan inspects Soroban contracts and prices or simulates calls
// against a Stellar RPC endpoint.
package main

import (
	"fmt"
	"io"
	"os"

	sorosan "github.com/branched-services/go-sorosan"
	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	ConfigFile string
	Network    string
	RPCURL     string
	LogLevel   string
	LogFile    string
	Output     string
}

var (
	flags  globalFlags
	cfg    sorosan.Config
	logger log.Logger
	logOut io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "sorosan",
	Short:         "Soroban contract client",
	Long:          "sorosan decodes contract specs, prices calls and runs read-only simulations against a Stellar RPC endpoint.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, logOut, err = newLogger(cfg.Log.Level, cfg.Log.File, os.Stderr)
		if err != nil {
			return err
		}
		log.SetDefault(logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logOut != nil {
			return logOut.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&flags.Network, "network", "n", sorosan.NetworkTestnet, "network: testnet|mainnet|futurenet|custom")
	rootCmd.PersistentFlags().StringVar(&flags.RPCURL, "rpc-url", "", "RPC endpoint, overrides the config")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "log level: trace|debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flags.LogFile, "log-file", "", "write logs to a rotated file instead of stderr")
	rootCmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", "table", "output format: table|json")

	rootCmd.AddCommand(abiCmd)
	rootCmd.AddCommand(decompileCmd)
	rootCmd.AddCommand(decodeSpecCmd)
	rootCmd.AddCommand(wasmIDCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(txStatusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads --config if given, otherwise the defaults of --network,
// then applies the remaining flags.
func loadConfig(cmd *cobra.Command) (sorosan.Config, error) {
	var c sorosan.Config
	if flags.ConfigFile != "" {
		var err error
		if c, err = sorosan.LoadConfig(flags.ConfigFile); err != nil {
			return c, err
		}
		if cmd.Flags().Changed("network") && flags.Network != c.Network {
			return c, fmt.Errorf("--network %s conflicts with config network %s", flags.Network, c.Network)
		}
	} else {
		c = sorosan.DefaultConfig(flags.Network)
	}
	if flags.RPCURL != "" {
		c.RPCURL = flags.RPCURL
	}
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}
	if flags.LogFile != "" {
		c.Log.File = flags.LogFile
	}
	return c, c.Validate()
}

// newLogger builds a terminal logger on stderr, or a JSON logger on a
// rotated file. The returned closer is nil for stderr.
func newLogger(level, file string, stderr io.Writer) (log.Logger, io.Closer, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := log.LvlFromString(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if file == "" {
		return log.NewLogger(log.NewTerminalHandlerWithLevel(stderr, lvl, false)), nil, nil
	}
	out := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return log.NewLogger(log.JSONHandlerWithLevel(out, lvl)), out, nil
}

// newClient dials the configured endpoint.
func newClient() (*sorosan.Client, error) {
	return sorosan.Dial(cfg, sorosan.WithLogger(logger))
}
