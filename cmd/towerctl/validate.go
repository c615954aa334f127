package main

import (
	"errors"
	"fmt"

	"github.com/arnavshah/tower-roster-api/pkg/normalize"
	"github.com/spf13/cobra"
)

var errInvalidRoster = errors.New("roster has problems")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every record of a roster file",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	roster, err := loadRoster(rosterFile)
	if err != nil {
		return err
	}
	pf, err := loadPolicy(policyFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(roster) == 0 {
		fmt.Fprintln(out, "roster is empty")
		return errInvalidRoster
	}

	issues := normalize.CheckRoster(roster, pf.MinCaptainPower)
	for _, issue := range issues {
		for _, p := range issue.Problems {
			fmt.Fprintf(out, "record %d (%s): %s\n", issue.Index+1, issue.Nickname, p)
		}
	}
	if len(issues) > 0 {
		return fmt.Errorf("%w: %d of %d records", errInvalidRoster, len(issues), len(roster))
	}
	fmt.Fprintf(out, "ok: %d players\n", len(roster))
	return nil
}
