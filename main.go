// logsend - sends RFC 5424 test records to a syslog receiver.
package main

import (
	"context"
	"fmt"
	"os"

	"logsend/cmd"
)

// No signal handling: an interrupted replay simply stops where it is.
func main() {
	if err := cmd.Execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "logsend: %v\n", err)
		os.Exit(1)
	}
}
