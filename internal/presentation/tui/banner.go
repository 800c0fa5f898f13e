package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the recolor banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"                       _", "#818cf8"},
		{"  _ __ ___  ___ ___ | | ___  _ __", "#a78bfa"},
		{" | '__/ _ \\/ __/ _ \\| |/ _ \\| '__|", "#c084fc"},
		{" | | |  __/ (_| (_) | | (_) | |", "#e879f9"},
		{" |_|  \\___|\\___\\___/|_|\\___/|_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
