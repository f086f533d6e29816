package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/dfac/internal/flow"
)

var buildCmd = &cobra.Command{
	Use:   "build <path>",
	Short: "Recompose a flow directory and print the DSL",
	Long: `Recomposes a decomposed flow directory into a single workflow DSL
document and prints it to stdout. Purely local: no console connection,
no credentials needed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := flow.Compose(args[0])
		if err != nil {
			return handleError(errorCode(err, "fetch"), err, "")
		}

		dsl, err := flow.Marshal(doc)
		if err != nil {
			return handleError(ErrIntegrityError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{
				"app": doc.App.Name,
				"dsl": string(dsl),
			})
			return nil
		}

		fmt.Print(string(dsl))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
