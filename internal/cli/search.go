// internal/cli/search.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/portix"
)

var (
	searchDescription bool
	searchCategory    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [pattern]",
	Short: "Search packages by name",
	Long: `Search the index. Patterns containing *, ? or [ are globs matched
against the whole field; other patterns match any substring. Matching
ignores case.

Examples:
  portix search python
  portix search --category 'dev-python/*'
  portix search --description 'package manager'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVarP(&searchDescription, "description", "S", false, "also match descriptions")
	searchCmd.Flags().BoolVarP(&searchCategory, "category", "C", false, "match category/name instead of name")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ix, err := openIndex(cmd.Context())
	if err != nil {
		return err
	}

	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}
	match := portix.MatchName
	if searchCategory {
		match = portix.MatchCategory
	}
	if searchDescription {
		match |= portix.MatchDescription
	}

	pkgs, err := ix.Search(pattern, match)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range pkgs {
		fmt.Fprintf(out, "%s %s\n", marker(ix, p), nameStyle.Render(p.FullName()))
		fmt.Fprintf(out, "     %s %s\n", labelStyle.Render("Available versions:"), renderVersions(p))
		if p.Homepage != "" {
			fmt.Fprintf(out, "     %s %s\n", labelStyle.Render("Homepage:"), p.Homepage)
		}
		if p.Desc != "" {
			fmt.Fprintf(out, "     %s %s\n", labelStyle.Render("Description:"), p.Desc)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Found %d matches\n", len(pkgs))
	return nil
}

// marker is [U] or [D] when an installed package should change, [I]
// when it is installed and current, and * otherwise.
func marker(ix *portix.Index, p *portix.Package) string {
	db := ix.VarDB()
	inst, err := db.InstalledVersions(p)
	if err != nil || len(inst) == 0 {
		return "*  "
	}
	switch {
	case p.CanUpgrade(db, true, true):
		return unstableStyle.Render("[U]")
	case p.MustDowngrade(db, true):
		return maskedStyle.Render("[D]")
	}
	return stableStyle.Render("[I]")
}
