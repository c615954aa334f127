package main

import (
	"fmt"
	"strings"

	"github.com/arnavshah/tower-roster-api/pkg/report"
	"github.com/arnavshah/tower-roster-api/pkg/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ChunkSeparator is printed between report chunks
const ChunkSeparator = "\n\f\n"

var chunkLimit int

var distributeCmd = &cobra.Command{
	Use:   "distribute",
	Short: "Print the hub and tower allocation of a roster file",
	Args:  cobra.NoArgs,
	RunE:  runDistribute,
}

func runDistribute(cmd *cobra.Command, args []string) error {
	roster, err := loadRoster(rosterFile)
	if err != nil {
		return err
	}
	pf, err := loadPolicy(policyFile)
	if err != nil {
		return err
	}

	dist := scheduler.Distribute(roster, pf.Policy)
	text := report.Format(dist)
	logger.Debug("distribution generated",
		zap.String("file", rosterFile),
		zap.Int("players", dist.Players),
		zap.Int("shifts", len(dist.Shifts)),
	)

	if chunkLimit > 0 {
		text = strings.Join(report.Chunk(text, chunkLimit), ChunkSeparator)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
