// internal/cli/sync.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/portix/pkg/index"
	"github.com/arc-language/portix/pkg/registry"
)

var syncQuiet bool

var syncCmd = &cobra.Command{
	Use:   "sync [overlay...]",
	Short: "Clone or update overlays",
	Long: `Clone or pull every overlay with a sync_uri, or only the named ones.
Overlays without a sync_uri are maintained by hand and skipped.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVarP(&syncQuiet, "quiet", "q", false, "hide git progress")
}

func runSync(cmd *cobra.Command, args []string) error {
	reg := registry.New(config.ReposDir)

	var entries []*registry.Entry
	if len(args) == 0 {
		all, err := reg.List()
		if err != nil {
			return err
		}
		entries = all
	}
	for _, name := range args {
		entry, err := reg.Load(name)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No overlays configured in %s\n", reg.Dir())
		return nil
	}

	s := &index.Syncer{Logger: logger}
	if !syncQuiet {
		s.Progress = cmd.ErrOrStderr()
	}
	return s.SyncAll(cmd.Context(), entries)
}
