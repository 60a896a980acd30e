package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"photodup/internal/scanner"
	"photodup/internal/services"
	"photodup/internal/store"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the library for duplicate photos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := ctx.newScanService()
			if err != nil {
				return err
			}

			lock, err := scanner.AcquireScanLock(cfg.Paths.DataDir)
			if err != nil {
				if errors.Is(err, services.ErrScanActive) {
					fmt.Fprintln(cmd.OutOrStdout(), "A scan is already running; nothing to do.")
					return nil
				}
				return err
			}
			defer func() { _ = lock.Release() }()

			result, err := svc.FindDuplicates(cmd.Context())
			if err != nil {
				if errors.Is(err, services.ErrScanActive) {
					fmt.Fprintln(cmd.OutOrStdout(), "A scan is already running; nothing to do.")
					return nil
				}
				return err
			}

			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			if err := st.SaveScan(cmd.Context(), result); err != nil {
				return err
			}

			if jsonFlag {
				return writeJSON(cmd, scanResultView(result))
			}
			printScanSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the scan result as JSON")
	return cmd
}

func printScanSummary(cmd *cobra.Command, result *scanner.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanned %s assets at the %s tier in %s.\n",
		formatCount(result.AssetCount), result.Tier, result.FinishedAt.Sub(result.StartedAt).Round(timeRounding))
	if result.FailedFetches > 0 {
		fmt.Fprintf(out, "%s assets could not be fetched and were excluded.\n", formatCount(result.FailedFetches))
	}
	if len(result.Groups) == 0 {
		fmt.Fprintln(out, "No duplicates found.")
		return
	}
	fmt.Fprintf(out, "Found %s duplicate groups:\n", formatCount(len(result.Groups)))
	fmt.Fprintln(out, renderGroupsTable(groupRowsFromResult(result)))
	fmt.Fprintln(out, "Run 'photodup delete <group>' to remove a group.")
}
