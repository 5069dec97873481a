package compile

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	cmdcore "github.com/docfill/go-docfill/pkg/cmd/core"
	"github.com/docfill/go-docfill/pkg/docfill"
)

type CompileOptions struct {
	InputPath  string
	OutputPath string
	Debug      bool

	DataFlags DataFlags
}

func NewOptions() *CompileOptions {
	return &CompileOptions{}
}

func NewCmd(o *CompileOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "compile",
		Aliases: []string{"c"},
		Short:   "Compile a .docx template with data values",
		RunE:    func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVarP(&o.InputPath, "input", "i", "", "Template .docx to compile")
	cmd.Flags().StringVarP(&o.OutputPath, "output", "o", "", "Path for the compiled .docx")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	o.DataFlags.Set(cmd)
	return cmd
}

func (o *CompileOptions) Run() error {
	ui := cmdcore.NewPlainUI(o.Debug)
	t1 := time.Now()

	defer func() {
		ui.Debugf("total: %s\n", time.Now().Sub(t1))
	}()

	if o.InputPath == "" {
		return fmt.Errorf("Expected input template path (specify via -i)")
	}
	if o.OutputPath == "" {
		return fmt.Errorf("Expected output path (specify via -o)")
	}

	if o.Debug {
		cfg := docfill.GetGlobalConfig()
		cfg.LogLevel = "debug"
		err := docfill.SetGlobalConfig(cfg)
		if err != nil {
			return err
		}
	}

	data, err := o.DataFlags.Values()
	if err != nil {
		return err
	}

	tmpl, err := docfill.PrepareFile(o.InputPath)
	if err != nil {
		return err
	}

	ui.Debugf("header part: %q, footer part: %q\n", tmpl.HeaderPart(), tmpl.FooterPart())

	out, err := tmpl.Compile(data)
	if err != nil {
		return err
	}

	err = os.WriteFile(o.OutputPath, out, 0644)
	if err != nil {
		return fmt.Errorf("Writing output: %s", err)
	}

	ui.Debugf("wrote %d bytes to %s\n", len(out), o.OutputPath)

	return nil
}
