package main

import (
	"fmt"
	"os"

	"asciify/internal/config"
	"asciify/internal/pkg/errors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if setting, ok := errors.GetFields(err)["setting"]; ok {
			fmt.Fprintf(os.Stderr, "hint: check %v\n", setting)
		}
		os.Exit(1)
	}
}
