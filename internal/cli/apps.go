package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/dfac/internal/registry"
	"github.com/aidanlsb/dfac/internal/ui"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List registered apps and their flow directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := registry.Load(getConfig().AppsFile)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		apps := store.Apps()

		if isJSONOutput() {
			outputSuccess(apps)
			return nil
		}

		if len(apps) == 0 {
			fmt.Println(ui.Hint("no apps registered; run 'dfac pull <app-id>' to add one"))
			return nil
		}

		fmt.Println(ui.Header("registered apps"))
		for _, app := range apps {
			fmt.Printf("  %s  %s  %s\n", ui.AppName(app.Name), ui.FilePath(app.Dir), ui.Hint(app.ID))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(appsCmd)
}
