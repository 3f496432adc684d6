package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arc-language/portix/pkg/portage"
)

var (
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	stableStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	unstableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	maskedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	overlayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// versionMarker returns the one-character state of v: [M] hard masked,
// ~ unstable, - minus keyword, ? missing keyword, blank when stable.
func versionMarker(v *portage.Version) string {
	switch {
	case v.IsHardMasked():
		return "M"
	case v.IsStable():
		return " "
	case v.KeyFlags.IsUnstable():
		return "~"
	case v.KeyFlags.IsMinusKeyword():
		return "-"
	}
	return "?"
}

// renderVersion formats v with its state and, for overlays, its id.
func renderVersion(v *portage.Version) string {
	text := v.String()
	if v.Overlay != 0 {
		text += overlayStyle.Render("[" + strconv.Itoa(int(v.Overlay)) + "]")
	}
	marker := versionMarker(v)
	switch marker {
	case "M":
		return maskedStyle.Render("[M]" + text)
	case " ":
		return stableStyle.Render(text)
	}
	return unstableStyle.Render("(" + marker + ")" + text)
}

// renderVersions lists the versions of p grouped by slot.
func renderVersions(p *portage.Package) string {
	var b strings.Builder
	slots := p.SlotList()
	for i, s := range slots {
		if i > 0 {
			b.WriteString("\n")
		}
		if len(slots) > 1 || s.Name != "0" {
			b.WriteString(labelStyle.Render("(" + s.Name + ") "))
		}
		for j, v := range s.Versions {
			if j > 0 {
				b.WriteString(" ")
			}
			b.WriteString(renderVersion(v))
		}
	}
	return b.String()
}
