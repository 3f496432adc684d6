// internal/cli/profile.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the resolved profile",
	Long:  `Print the files of the cascading profile in reading order, the system set and the masks it defines.`,
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	ix, err := openIndex(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	prof := ix.Profile()
	fmt.Fprintln(out, labelStyle.Render("Profile files:"))
	for _, f := range ix.ProfileFiles() {
		fmt.Fprintf(out, "  %s\n", f)
	}

	fmt.Fprintf(out, "%s %v\n", labelStyle.Render("ACCEPT_KEYWORDS:"), ix.AcceptKeywords())
	if use := ix.Settings().Get("USE"); use != "" {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("USE:"), use)
	}

	fmt.Fprintln(out, labelStyle.Render("System packages:"))
	for _, m := range prof.SystemPackages().Masks() {
		fmt.Fprintf(out, "  %s\n", m)
	}
	if n := prof.AllowedPackages().Len(); n > 0 {
		fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Allowed packages:"), n)
	}
	fmt.Fprintln(out, labelStyle.Render("Masked:"))
	for _, m := range prof.PackageMasks().Masks() {
		fmt.Fprintf(out, "  %s\n", maskedStyle.Render(m.String()))
	}
	return nil
}
