// internal/cli/list.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/portix/pkg/platform"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List repositories",
	Long:  `List the main repository and every overlay with its id and cache method.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	// Detect platform
	plat, err := platform.Detect()
	if err != nil {
		return fmt.Errorf("detecting platform: %w", err)
	}

	ix, err := openIndex(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Platform: %s\n\n", plat)
	fmt.Fprintf(out, "Repositories:\n")
	for _, o := range ix.Overlays() {
		fmt.Fprintf(out, "  %s %s %s (%s)\n",
			overlayStyle.Render(fmt.Sprintf("[%d]", o.ID)), nameStyle.Render(o.Name), o.Path, o.Method)
	}
	fmt.Fprintf(out, "\n%d packages in %d categories\n", ix.Tree().Len(), len(ix.Tree().Categories()))

	return nil
}
