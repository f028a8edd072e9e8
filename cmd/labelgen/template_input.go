package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"labelgen/internal/batch"
)

const maxTemplateBytes = 1 << 20

type templateFlags struct {
	inline string
	file   string
}

func (f *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.inline, "template", "t", "", "ZPL template text")
	cmd.Flags().StringVarP(&f.file, "template-file", "f", "", "Read the ZPL template from a file (- for stdin)")
	cmd.MarkFlagsMutuallyExclusive("template", "template-file")
}

// read resolves the template from --template, --template-file, or piped
// stdin, in that order, and trims surrounding whitespace. An empty result is
// left to request validation.
func (f *templateFlags) read(cmd *cobra.Command) (string, error) {
	text, err := f.resolve(cmd)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (f *templateFlags) resolve(cmd *cobra.Command) (string, error) {
	switch {
	case f.inline != "":
		return f.inline, nil
	case f.file == "-":
		return readTemplate(cmd.InOrStdin(), "stdin")
	case f.file != "":
		file, err := os.Open(f.file)
		if err != nil {
			return "", fmt.Errorf("%w: open template: %w", batch.ErrValidation, err)
		}
		defer file.Close()
		return readTemplate(file, f.file)
	}
	in := cmd.InOrStdin()
	if file, ok := in.(*os.File); ok && (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())) {
		return "", nil
	}
	return readTemplate(in, "stdin")
}

func readTemplate(r io.Reader, source string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxTemplateBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read template from %s: %w", batch.ErrValidation, source, err)
	}
	if len(data) > maxTemplateBytes {
		return "", fmt.Errorf("%w: template from %s exceeds %d bytes", batch.ErrValidation, source, maxTemplateBytes)
	}
	return string(data), nil
}
