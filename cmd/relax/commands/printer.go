package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// red is disabled by fatih/color when NO_COLOR is set or stdout is not a
// terminal.
var red = color.New(color.FgRed, color.Bold)

// printedError is an error whose details have already been printed.
type printedError struct{ title string }

func (e *printedError) Error() string { return e.title }

// printError prints a title in red followed by an explanation to w, and
// returns a plain error with the title for Cobra, which does not print
// it again.
func printError(w io.Writer, title string, explanation string) error {
	red.Fprintf(w, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(w, "%s\n", explanation)
	}
	return &printedError{title}
}
