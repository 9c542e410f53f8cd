package notify

import (
	"fmt"
	"io"
)

// Report prints the plain text dashboard to w.
func Report(w io.Writer, msg *RenderedMessage, outputPath string) {
	fmt.Fprintln(w, "\n===========================================")
	fmt.Fprint(w, msg.Text)
	fmt.Fprintln(w, "\n===========================================")
	if outputPath != "" {
		fmt.Fprintf(w, "Dashboard written to %s.\n", outputPath)
		fmt.Fprintln(w, "===========================================")
	}
}
