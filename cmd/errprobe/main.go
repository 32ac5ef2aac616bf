// Command errprobe inspects how error payloads normalize and how failed
// requests are routed to status handlers.
//
//	errprobe normalize payload.json
//	errprobe fetch https://api.example.com/items/42
//	errprobe serve
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
)

// errReported marks a failure a handler already printed.
var errReported = errors.New("reported")

func main() {
	a := &app{}
	if err := a.execute(context.Background(), newRootCmd(a)); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		}
		os.Exit(1)
	}
}
