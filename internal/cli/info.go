// internal/cli/info.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arc-language/portix/pkg/portage"
)

var infoCmd = &cobra.Command{
	Use:   "info [package]",
	Short: "Show information about a package",
	Long:  `Display versions, slots, masks and metadata of one package, given as category/name or as a unique name.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	ix, err := openIndex(cmd.Context())
	if err != nil {
		return err
	}

	p, err := ix.Package(args[0])
	if err != nil {
		return err
	}

	// Display info
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", marker(ix, p), nameStyle.Render(p.FullName()))
	fmt.Fprintf(out, "Versions:    %s\n", renderVersions(p))
	if best := p.Best(false); best != nil {
		fmt.Fprintf(out, "Best:        %s\n", best)
	}
	if best := p.Best(true); best != nil {
		fmt.Fprintf(out, "Best (~):    %s\n", best)
	}
	if inst, err := ix.VarDB().InstalledVersions(p); err == nil && len(inst) > 0 {
		names := make([]string, len(inst))
		for i, iv := range inst {
			names[i] = iv.String()
			if slot := p.GuessSlotName(iv); slot != "0" {
				names[i] += "(" + slot + ")"
			}
		}
		fmt.Fprintf(out, "Installed:   %s\n", strings.Join(names, " "))
	}
	if p.Desc != "" {
		fmt.Fprintf(out, "Description: %s\n", p.Desc)
	}
	if p.Homepage != "" {
		fmt.Fprintf(out, "Homepage:    %s\n", p.Homepage)
	}
	if p.Licenses != "" {
		fmt.Fprintf(out, "License:     %s\n", p.Licenses)
	}
	if iuse := p.CollIUSE(); iuse != "" {
		fmt.Fprintf(out, "USE flags:   %s\n", iuse)
	}
	if p.IsSystemPackage {
		fmt.Fprintf(out, "System:      yes\n")
	}
	if p.HaveDuplicateVersions != portage.DupNone {
		fmt.Fprintf(out, "Duplicates:  %s\n", p.HaveDuplicateVersions)
	}

	return nil
}
