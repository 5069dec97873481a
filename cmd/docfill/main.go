package main

import (
	"fmt"
	"os"

	uierrs "github.com/cppforlife/go-cli-ui/errors"

	"github.com/docfill/go-docfill/pkg/cmd"
)

func main() {
	command := cmd.NewDefaultDocfillCmd()

	err := command.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "docfill: Error: %s\n", uierrs.NewMultiLineError(err))
		os.Exit(1)
	}
}
