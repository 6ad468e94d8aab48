package display

import (
	"fmt"
	"io"

	"github.com/backmassage/framecast/internal/term"
)

const banner = `  __                                         _
 / _|_ __ __ _ _ __ ___   ___  ___ __ _ ___| |_
| |_| '__/ _` + "`" + ` | '_ ` + "`" + ` _ \ / _ \/ __/ _` + "`" + ` / __| __|
|  _| | | (_| | | | | | |  __/ (_| (_| \__ \ |_
|_| |_|  \__,_|_| |_| |_|\___|\___\__,_|___/\__|
`

// PrintBanner prints the ASCII art banner, magenta when color is on.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Paint(term.Magenta, banner))
	if term.Enabled() {
		fmt.Fprintln(w)
	}
}
