package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"photodup/internal/diskstat"
	"photodup/internal/store"
)

type statusReport struct {
	LibraryDir    string `json:"library_dir"`
	HistoryDB     string `json:"history_db"`
	LatestScan    string `json:"latest_scan,omitempty"`
	GroupCount    int    `json:"group_count"`
	AssetCount    int    `json:"asset_count"`
	DiskTotal     uint64 `json:"disk_total_bytes"`
	DiskFree      uint64 `json:"disk_free_bytes"`
	ProcessMemory uint64 `json:"process_rss_bytes"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the latest scan, library disk usage, and process memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			report := statusReport{LibraryDir: cfg.Paths.LibraryDir}

			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			report.HistoryDB = st.Path()

			latest, err := st.LatestScan(cmd.Context())
			switch {
			case errors.Is(err, store.ErrNoScans):
				// Status still works before the first scan.
			case err != nil:
				return err
			default:
				report.LatestScan = latest.UUID
				report.GroupCount = len(latest.Groups)
				report.AssetCount = latest.AssetCount
			}

			if fs, err := diskstat.Stat(cfg.Paths.LibraryDir); err == nil {
				report.DiskTotal = fs.TotalBytes
				report.DiskFree = fs.FreeBytes
			}
			if rss, err := diskstat.ProcessRSS(); err == nil {
				report.ProcessMemory = rss
			}

			if jsonFlag {
				return writeJSON(cmd, report)
			}

			rows := [][]string{
				{"Library", report.LibraryDir},
				{"History", report.HistoryDB},
			}
			if report.LatestScan == "" {
				rows = append(rows, []string{"Latest scan", "none"})
			} else {
				rows = append(rows,
					[]string{"Latest scan", report.LatestScan},
					[]string{"Assets", formatCount(report.AssetCount)},
					[]string{"Duplicate groups", formatCount(report.GroupCount)},
				)
			}
			if report.DiskTotal > 0 {
				rows = append(rows,
					[]string{"Disk total", formatBytes(report.DiskTotal)},
					[]string{"Disk free", formatBytes(report.DiskFree)},
				)
			}
			if report.ProcessMemory > 0 {
				rows = append(rows, []string{"Process memory", formatBytes(report.ProcessMemory)})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit status as JSON")
	return cmd
}
