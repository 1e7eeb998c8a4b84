package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/agentkit/internal/presentation/tui"
	"github.com/aretw0/agentkit/pkg/domain"
)

// PrintActions writes the catalog as JSON, or as markdown rendered for the
// terminal when w is one.
func PrintActions(w io.Writer, entries []domain.ActionEntry, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	doc := tui.CatalogMarkdown(entries)
	if !tui.IsTerminal(w) {
		_, err := io.WriteString(w, doc)
		return err
	}
	render, err := tui.NewRenderer(tui.Width(w))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := render(doc)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
