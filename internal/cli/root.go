package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/osse101/ashfall/internal/bootstrap"
	"github.com/osse101/ashfall/internal/config"
)

var (
	// Global flags
	configPath string
	dataDir    string
	asJSON     bool

	// set by PersistentPreRunE
	appConfig *config.Config
	logFile   *os.File
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ashfall",
		Short: "Ashfall crafting core",
		Long: `Ashfall loads item, recipe and trap definitions and drives crafting,
disassembly and trap resolution for a roguelike world.

Configuration comes from ASHFALL_* environment variables, an optional .env
file and an optional config.yaml, in that order of priority.

Examples:
  ashfall serve
  ashfall recipes check
  ashfall recipes list --category weapon
  ashfall recipes show frame
  ashfall craft torch --item stick --item rag
  ashfall traps fire tr_beartrap --victim you
  ashfall events dead-letters`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			f, err := bootstrap.SetupLogger(cfg)
			if err != nil {
				return err
			}
			appConfig, logFile = cfg, f
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				_ = logFile.Close()
				logFile = nil
			}
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a config file (default: ./config.yaml or ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"Directory holding items.json, recipes.json and traps.json (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false,
		"Print results as JSON")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewRecipesCommand())
	rootCmd.AddCommand(NewCraftCommand())
	rootCmd.AddCommand(NewDisassembleCommand())
	rootCmd.AddCommand(NewTrapsCommand())
	rootCmd.AddCommand(NewEventsCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
