package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/startpage/internal/sources"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

var (
	importFormat  string
	importReplace bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import bookmarks into the local document",
	Long: `Import a browser bookmark export (netscape) or a homepage services.yaml
(homepage) into the local document. Run "startpage push" afterwards to save
the result to the remote.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := sources.ParseFormat(importFormat)
		if err != nil {
			return err
		}
		mode := sources.ModeAppend
		if importReplace {
			mode = sources.ModeReplace
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer utils.Close(f)

		core, err := openCore(cmd.Context())
		if err != nil {
			return err
		}
		defer utils.Close(core)

		n, err := core.Dashboard.Import(cmd.Context(), f, format, mode)
		if err != nil {
			return fmt.Errorf("importing %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d categories (%s, %s)\n", n, format, mode)
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Merge the remote document into the local one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := openCore(cmd.Context())
		if err != nil {
			return err
		}
		defer utils.Close(core)

		stats, err := core.Dashboard.Sync(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "From local:  %d\n", stats.FromLocal)
		fmt.Fprintf(out, "Local only:  %d\n", stats.LocalOnly)
		fmt.Fprintf(out, "Remote only: %d\n", stats.RemoteOnly)
		fmt.Fprintf(out, "State:       %s\n", core.Dashboard.Status().SyncState)
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Save the local document to the remote",
	Long: `Save the local document to the remote. When the remote changed since the
last pull the save is refused: pull first, then push again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := openCore(cmd.Context())
		if err != nil {
			return err
		}
		defer utils.Close(core)

		// Hydration alone does not learn the remote revision.
		if _, err := core.Dashboard.Sync(cmd.Context()); err != nil {
			return fmt.Errorf("sync before save failed: %w", err)
		}
		if err := core.Dashboard.Save(cmd.Context()); err != nil {
			return fmt.Errorf("save failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local document and remote status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := openCore(cmd.Context())
		if err != nil {
			return err
		}
		defer utils.Close(core)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(core.Dashboard.Status())
	},
}

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "netscape", "input format: netscape or homepage")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "drop existing categories first")
}
