package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"photodup/internal/store"
)

func newGroupsCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Show the duplicate groups from the latest scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			latest, err := st.LatestScan(cmd.Context())
			if err != nil {
				if errors.Is(err, store.ErrNoScans) {
					fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded yet; run 'photodup scan' first.")
					return nil
				}
				return err
			}

			if jsonFlag {
				return writeJSON(cmd, storedScanView(latest))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Latest scan %s (%s tier, %s assets, finished %s):\n",
				latest.UUID, latest.Tier, formatCount(latest.AssetCount),
				latest.FinishedAt.Local().Format("2006-01-02 15:04:05"))
			if len(latest.Groups) == 0 {
				fmt.Fprintln(out, "No duplicates found.")
				return nil
			}
			fmt.Fprintln(out, renderGroupsTable(groupRowsFromScan(latest)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit groups as JSON")
	return cmd
}
