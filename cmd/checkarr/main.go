package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"checkarr/internal/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	err := newRootCommand().Execute()
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return 1
	}
	fmt.Fprintf(os.Stderr, "checkarr: %v\n", err)
	if services.IsFatal(err) {
		return 2
	}
	return 1
}
