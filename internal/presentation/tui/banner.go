package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the agentkit banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.NewOutput(w).ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                          _   _    _ _   ", "#34d399"},
		{"   __ _  __ _  ___ _ __ | |_| | _(_) |_ ", "#2dd4bf"},
		{"  / _` |/ _` |/ _ \\ '_ \\| __| |/ / | __|", "#22d3ee"},
		{" | (_| | (_| |  __/ | | | |_|   <| | |_ ", "#38bdf8"},
		{"  \\__,_|\\__, |\\___|_| |_|\\__|_|\\_\\_|\\__|", "#60a5fa"},
		{"        |___/                           ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  version "+version).Faint())
	fmt.Fprintln(w)
}
