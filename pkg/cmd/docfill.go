package cmd

import (
	"github.com/cppforlife/cobrautil"
	"github.com/spf13/cobra"

	cmdcompile "github.com/docfill/go-docfill/pkg/cmd/compile"
	"github.com/docfill/go-docfill/pkg/version"
)

type DocfillOptions struct{}

func NewDefaultDocfillOptions() *DocfillOptions {
	return &DocfillOptions{}
}

func NewDefaultDocfillCmd() *cobra.Command {
	return NewDocfillCmd(NewDefaultDocfillOptions())
}

func NewDocfillCmd(o *DocfillOptions) *cobra.Command {
	cmd := cmdcompile.NewCmd(cmdcompile.NewOptions())

	cmd.Use = "docfill"
	cmd.Aliases = nil
	cmd.Version = version.Version
	cmd.Short = "docfill fills Word document templates"
	cmd.Long = `docfill fills Word document templates.

Tokens like @name, @company.city, @logo!img, and @rows!tbl in the template
are replaced with values loaded from data files or flags.`

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	// Disable docs header
	cmd.DisableAutoGenTag = true

	cmd.AddCommand(NewVersionCmd(NewVersionOptions()))
	cmd.AddCommand(cmdcompile.NewCmd(cmdcompile.NewOptions()))

	// Reconfigure Commands
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.DisallowExtraArgs, cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}
