package options

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// WriteJSON prints v as indented JSON on color.Output.
func (o *OutputOptions) WriteJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(color.Output, string(b))
	return err
}

// HandleError reports err as a JSON object in JSON mode and returns it
// untouched otherwise.
func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		if werr := o.WriteJSON(map[string]string{"error": err.Error()}); werr != nil {
			return werr
		}
		return nil
	}
	return err
}
