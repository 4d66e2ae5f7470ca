package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/songsort/pkg/io"
	"github.com/matzehuels/songsort/pkg/pref"
)

func (c *CLI) orderCommand() *cobra.Command {
	var reduce bool

	cmd := &cobra.Command{
		Use:   "order <decisions>",
		Short: "Print the order implied by a decision file",
		Long: `Order the songs of a text or JSON decision file topologically, most
preferred first.

Contradicting decisions are reported and the songs caught in them are listed
last. With --reduce the minimal set of decisions implying the same order is
printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decisions, err := loadDecisions(args[0])
			if err != nil {
				return err
			}
			if reduce {
				reduced, err := pref.TransitiveReduction(decisions, false)
				if err != nil {
					return err
				}
				loggerFromContext(cmd.Context()).Debug("reduced", "from", len(decisions), "to", len(reduced))
				return io.WriteText(cmd.OutOrStdout(), reduced)
			}

			ranking, err := pref.TopologicalSortItems(decisions)
			var cycle *pref.CycleWarning
			switch {
			case errors.As(err, &cycle):
				printWarning("%s", cycle.Error())
				ranking = append(ranking, cycle.Remaining...)
			case err != nil:
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rankingTable(ranking))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reduce, "reduce", false, "print the transitive reduction instead of the order")
	return cmd
}

// loadDecisions reads a decision file, choosing JSON or text by extension.
func loadDecisions(path string) ([]pref.Decision, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		res, err := io.ImportJSON(path)
		if err != nil {
			return nil, err
		}
		return res.Decisions, nil
	}

	pairs, report, err := readPairs(path, nil)
	if err != nil {
		return nil, err
	}
	for _, le := range report.Invalid {
		printDetail("%s: %s", path, le)
	}
	decisions := make([]pref.Decision, len(pairs))
	for i, p := range pairs {
		decisions[i] = pref.Decision{Chosen: p.Chosen, Rejected: p.Rejected, Kind: pref.Imported}
	}
	return decisions, nil
}
