package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/paldeploy/cmd/paldeploy"
	"github.com/arthur-debert/paldeploy/internal/version"
)

func main() {
	rootCmd := paldeploy.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "PALDEPLOY",
		Section: "1",
		Source:  "paldeploy " + version.Version,
		Manual:  "paldeploy manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
