package mappings

import (
	"fmt"
	"strings"

	"github.com/aretw0/recolor/pkg/domain"
)

// Markdown renders the tables as a markdown document for terminal display.
func Markdown(tables domain.Tables) string {
	var sb strings.Builder
	sb.WriteString("# Color mappings\n\n")

	writeTable(&sb, "Styles", tables.Styles)
	writeTable(&sb, "Variables", tables.Variables)
	writeTable(&sb, "Colors", tables.Colors)

	sb.WriteString("## Advanced rules\n\n")
	if len(tables.Advanced) == 0 {
		sb.WriteString("_none_\n")
		return sb.String()
	}
	sb.WriteString("| ID | Type | Target | Key | Mapped key | Enabled |\n")
	sb.WriteString("|----|------|--------|-----|------------|---------|\n")
	for _, r := range tables.Advanced {
		enabled := ""
		if r.Enabled {
			enabled = "yes"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s | `%s` | `%s` | %s |\n", r.ID, r.Kind, r.Target, r.Key, r.MappedKey, enabled)
	}
	for _, r := range tables.Advanced {
		if r.Label != "" {
			fmt.Fprintf(&sb, "\n- `%s`: %s", r.ID, escape(r.Label))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func writeTable(sb *strings.Builder, title string, entries []domain.MappingEntry) {
	fmt.Fprintf(sb, "## %s\n\n", title)
	if len(entries) == 0 {
		sb.WriteString("_none_\n\n")
		return
	}
	sb.WriteString("| Key | Name | Mapped key |\n")
	sb.WriteString("|-----|------|------------|\n")
	for _, e := range entries {
		mapped := "_inert_"
		if e.Active() {
			mapped = "`" + e.MappedKey + "`"
		}
		fmt.Fprintf(sb, "| `%s` | %s | %s |\n", e.Key, escape(e.Name), mapped)
	}
	sb.WriteString("\n")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
