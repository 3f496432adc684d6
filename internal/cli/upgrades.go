// internal/cli/upgrades.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var upgradesCmd = &cobra.Command{
	Use:   "upgrades",
	Short: "List installed packages that should be upgraded or downgraded",
	Long: `Compare the installed package database with the best acceptable
version of every slot. Installed packages missing from the tree are
skipped.`,
	Args: cobra.NoArgs,
	RunE: runUpgrades,
}

func runUpgrades(cmd *cobra.Command, args []string) error {
	ix, err := openIndex(cmd.Context())
	if err != nil {
		return err
	}

	ups, err := ix.Upgrades(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, u := range ups {
		tag := unstableStyle.Render("[U]")
		if u.Downgrade && !u.Upgrade {
			tag = maskedStyle.Render("[D]")
		} else if u.Downgrade {
			tag = maskedStyle.Render("[UD]")
		}

		installed := make([]string, len(u.Installed))
		for i, iv := range u.Installed {
			installed[i] = iv.String()
		}
		best := make([]string, len(u.Best))
		for i, v := range u.Best {
			best[i] = renderVersion(v)
		}
		fmt.Fprintf(out, "%s %s %s -> %s\n", tag, nameStyle.Render(u.Package.FullName()),
			strings.Join(installed, " "), strings.Join(best, " "))
	}
	if len(ups) == 0 {
		fmt.Fprintln(out, "All installed packages are current.")
	}
	return nil
}
