// Package main is the entry point for the crypto-binding-cli application.
// It registers the provider, random and script command groups and executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/MGTheTrain/crypto-binding/cmd/crypto-binding-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "crypto-binding-cli",
		Short: "Scripting binding for the cryptographic provider",
		Long: `crypto-binding-cli exposes the cryptographic provider from the command line and runs
Starlark scripts with the "openssl" module predeclared.

Configuration is read from the YAML file named by CONFIG_PATH; without it defaults apply.
The seed file defaults to $RANDFILE, else $HOME/.rnd.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this address while the command runs")

	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	session := commands.NewSession()

	if err := commands.InitProviderCommands(rootCmd, session); err != nil {
		return fmt.Errorf("failed to initialize provider commands: %w", err)
	}

	if err := commands.InitRandCommands(rootCmd, session); err != nil {
		return fmt.Errorf("failed to initialize random commands: %w", err)
	}

	if err := commands.InitScriptCommands(rootCmd, session); err != nil {
		return fmt.Errorf("failed to initialize script commands: %w", err)
	}

	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
