package diag

import (
	"fmt"
	"io"
	"os"

	"src.optscan.sh/pkg/sys"
)

// ShowError writes an error to w. When w is a terminal and the error
// implements Shower, the Show method is used; otherwise the plain message is
// written.
func ShowError(w io.Writer, err error) {
	if shower, ok := err.(Shower); ok && isTerminal(w) {
		fmt.Fprintln(w, shower.Show(""))
	} else {
		fmt.Fprintln(w, err.Error())
	}
}

// Complain writes a message to w, in bold and red if w is a terminal.
func Complain(w io.Writer, msg string) {
	if isTerminal(w) {
		fmt.Fprintf(w, "\033[31;1m%s\033[m\n", msg)
	} else {
		fmt.Fprintln(w, msg)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && sys.IsATTY(f.Fd())
}
