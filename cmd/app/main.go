package main

import (
	"context"
	"fmt"
	"os"

	"fastship/cmd"
)

func main() {
	if err := cmd.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "fastship:", err)
		os.Exit(1)
	}
}
