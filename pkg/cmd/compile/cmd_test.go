package compile_test

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	cmdcompile "github.com/docfill/go-docfill/pkg/cmd/compile"
	"github.com/docfill/go-docfill/pkg/docfill"
)

func readZipPart(t *testing.T, archive []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatalf("part %s not found in archive", name)
	return ""
}

func TestCompileCmd_flags(t *testing.T) {
	opts := cmdcompile.NewOptions()
	cmd := cmdcompile.NewCmd(opts)

	require.NoError(t, cmd.ParseFlags([]string{
		"-i", "in.docx", "-o", "out.docx",
		"--data-file", "values.toml", "-d", "name=Ann", "--debug",
	}))
	require.Equal(t, "in.docx", opts.InputPath)
	require.Equal(t, "out.docx", opts.OutputPath)
	require.Equal(t, []string{"values.toml"}, opts.DataFlags.FromFiles)
	require.Equal(t, []string{"name=Ann"}, opts.DataFlags.KVs)
	require.True(t, opts.Debug)
}

func TestCompileCmd_requires_paths(t *testing.T) {
	opts := cmdcompile.NewOptions()
	err := opts.Run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "input template path")

	opts.InputPath = "in.docx"
	err = opts.Run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "output path")
}

func TestCompileCmd_run(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "template.docx")
	outPath := filepath.Join(dir, "out.docx")
	dataPath := filepath.Join(dir, "values.toml")

	template := docfill.NewDocxBuilder().WithParagraphs("Dear @name from @city").Bytes()
	require.NoError(t, os.WriteFile(inPath, template, 0644))
	require.NoError(t, os.WriteFile(dataPath, []byte(`name = "Ann"`), 0644))

	opts := cmdcompile.NewOptions()
	opts.InputPath = inPath
	opts.OutputPath = outPath
	opts.DataFlags = cmdcompile.DataFlags{
		FromFiles: []string{dataPath},
		KVs:       []string{"city=Berlin"},
	}
	require.NoError(t, opts.Run())

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	docXML := readZipPart(t, out, "word/document.xml")
	require.Contains(t, docXML, "Dear Ann from Berlin")
}
