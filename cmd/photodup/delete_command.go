package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"photodup/internal/scanner"
	"photodup/internal/store"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "delete <group>",
		Short: "Delete a duplicate group from the latest scan",
		Long: `Delete a duplicate group from the latest scan.

The group is named by its digest (or an unambiguous prefix of at least 8
characters) as shown by 'photodup groups'. Which members are removed is
controlled by deletion.survivor in the configuration; the default removes
every member of the group. A successful deletion runs a fresh scan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := ctx.newScanService()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			stored, err := st.FindGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			group, err := stored.AsScannerGroup()
			if err != nil {
				return err
			}

			if !yesFlag {
				confirmed, err := confirmDeletion(cmd, group, cfg.Deletion.Survivor)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted; nothing deleted.")
					return nil
				}
			}

			lock, err := scanner.AcquireScanLock(cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			// A nil outcome means the deletion itself failed; the
			// library's message comes back verbatim and no re-scan ran.
			outcome, err := svc.DeleteGroup(cmd.Context(), group)
			if outcome == nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Deleted %s assets", formatCount(len(outcome.Deleted)))
			if len(outcome.Kept) > 0 {
				fmt.Fprintf(out, ", kept %s (%s survivor policy)", outcome.Kept[0].ID, cfg.Deletion.Survivor)
			}
			fmt.Fprintln(out, ".")

			if outcome.Rescan == nil {
				return fmt.Errorf("deletion succeeded but the follow-up scan failed: %w", err)
			}
			if saveErr := st.SaveScan(cmd.Context(), outcome.Rescan); saveErr != nil {
				return saveErr
			}
			fmt.Fprintf(out, "Re-scan complete: %s duplicate groups remain.\n", formatCount(len(outcome.Rescan.Groups)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirmDeletion lists what is about to be removed and asks the user.
// Refuses to guess when stdin is not a terminal.
func confirmDeletion(cmd *cobra.Command, group scanner.Group, survivor string) (bool, error) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Group %s has %d members:\n", shortDigest(group.ID()), len(group.Members))
	for _, member := range group.Members {
		fmt.Fprintf(out, "  %s\n", member.ID)
	}
	if survivor == "none" {
		fmt.Fprintln(out, "Every member will be deleted, including the last copy.")
	} else {
		fmt.Fprintf(out, "One member will be kept (%s survivor policy).\n", survivor)
	}

	stdin, isFile := cmd.InOrStdin().(*os.File)
	if isFile && !isatty.IsTerminal(stdin.Fd()) {
		return false, errors.New("refusing to delete without confirmation on a non-interactive stdin (use --yes)")
	}

	fmt.Fprint(out, "Proceed? [y/N] ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
