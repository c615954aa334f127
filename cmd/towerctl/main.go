// Command towerctl allocates a roster file offline and checks roster files
// before they are imported.
package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/tower-roster-api/pkg/config"
	"github.com/arnavshah/tower-roster-api/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	rosterFile string
	policyFile string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "towerctl",
	Short: "Allocate tower event rosters from the command line",
	Long: `towerctl runs the hub and tower allocation on a roster file (JSON or CSV)
without a server or database, and checks roster files before import.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()
		level := "warn"
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = logging.New(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&rosterFile, "file", "f", "", "Roster file (.json or .csv)")
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "Allocation policy YAML file")
	_ = rootCmd.MarkPersistentFlagRequired("file")

	distributeCmd.Flags().IntVar(&chunkLimit, "chunk", 0, "Split the report into messages of at most this many characters")

	rootCmd.AddCommand(distributeCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
