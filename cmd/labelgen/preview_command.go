package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"labelgen/internal/batch"
	"labelgen/internal/zpl"
)

func newPreviewCommand() *cobra.Command {
	var (
		value    int64
		template templateFlags
	)

	cmd := &cobra.Command{
		Use:         "preview",
		Short:       "Show the document generated for one label number",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := template.read(cmd)
			if err != nil {
				return err
			}
			if tpl == "" {
				return fmt.Errorf("%w: ZPL template cannot be empty", batch.ErrValidation)
			}

			out := cmd.OutOrStdout()
			form := zpl.Classify(tpl)
			markers := zpl.Markers(tpl)
			fmt.Fprintf(out, "Template form: %s (%d marker(s))\n", form, len(markers))
			switch form {
			case zpl.FormUnmarked:
				fmt.Fprintf(out, "No %s field found; %s will be appended\n", zpl.StartToken, zpl.Marker{Payload: fmt.Sprint(value)})
			case zpl.FormBare:
				fmt.Fprintf(out, "Template has %s without digits; it will be sent unchanged for every label\n", zpl.StartToken)
			}
			fmt.Fprintln(out, zpl.Substitute(tpl, value))
			return nil
		},
	}

	cmd.Flags().Int64Var(&value, "value", 1, "Label number to substitute")
	template.register(cmd)
	return cmd
}
