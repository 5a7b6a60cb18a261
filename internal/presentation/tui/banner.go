package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"  _____ _   _ ___ ____ __  __    _    ",
	" | ____| \\ | |_ _/ ___|  \\/  |  / \\   ",
	" |  _| |  \\| || | |  _| |\\/| | / _ \\  ",
	" | |___| |\\  || | |_| | |  | |/ ___ \\ ",
	" |_____|_| \\_|___\\____|_|  |_/_/   \\_\\",
}

// Gradient from amber to red, one color per line.
var bannerColors = []string{"#fbbf24", "#f59e0b", "#f97316", "#ef4444", "#dc2626"}

// PrintBanner writes the ENIGMA banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i])))
	}
	fmt.Fprintln(w)
}
