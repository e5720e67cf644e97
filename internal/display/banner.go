package display

import (
	"fmt"
	"io"

	"github.com/psiborg/namedrop/internal/config"
	"github.com/psiborg/namedrop/internal/term"
)

// PrintBanner prints the ASCII art banner and version; uses Magenta if
// colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, ` _   _                      ____
| \ | | __ _ _ __ ___   ___|  _ \ _ __ ___  _ __
|  \| |/ _`+"`"+` | '_ `+"`"+` _ \ / _ \ | | | '__/ _ \| '_ \
| |\  | (_| | | | | | |  __/ |_| | | | (_) | |_) |
|_| \_|\__,_|_| |_| |_|\___|____/|_|  \___/| .__/
                                           |_|
`)
	fmt.Fprint(w, term.NC)
	fmt.Fprintf(w, "%sv%s%s\n\n", term.Dim, config.Version, term.NC)
}
