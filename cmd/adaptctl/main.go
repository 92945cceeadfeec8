package main

import (
	"fmt"
	"os"

	"adaptd/internal/adaptctl"
)

func main() {
	if err := adaptctl.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
