package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"glsllayout/glsl"
	"glsllayout/internal/report"
)

func newTypeCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type <name>...",
		Short: "Show alignment, size and format of GLSL types",
		Long:  "Show the alignment under every rule, the size and the Vulkan format of each named GLSL type.",
		Example: `  glsllayout type vec3 mat4
  glsllayout type --format json dvec2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types := make([]glsl.Type, 0, len(args))
			var errs []error
			for _, name := range args {
				t, err := glsl.ParseType(name)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				types = append(types, t)
			}
			if err := errors.Join(errs...); err != nil {
				return err
			}
			return st.writeTypes(cmd, types)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func newTableCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "List every GLSL value type with its layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			types := glsl.ValueTypes()
			withOpaque, err := cmd.Flags().GetBool("opaque")
			if err != nil {
				return err
			}
			if withOpaque {
				types = append(types, glsl.OpaqueTypes()...)
			}
			return st.writeTypes(cmd, types)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("opaque", false, "include opaque types (samplers, images, blocks)")
	return cmd
}

func (st *cliState) writeTypes(cmd *cobra.Command, types []glsl.Type) error {
	format, err := st.resolveFormat(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if format == formatJSON {
		return report.WriteTypesJSON(out, types)
	}
	return report.WriteTypes(out, types, report.Options{Color: st.useColor, Width: terminalWidth(os.Stdout)})
}
