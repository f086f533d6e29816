package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/dfac/internal/console"
	"github.com/aidanlsb/dfac/internal/flow"
	"github.com/aidanlsb/dfac/internal/registry"
	"github.com/aidanlsb/dfac/internal/ui"
)

var pushCreateNew bool

var pushCmd = &cobra.Command{
	Use:   "push <app> [--create-new]",
	Short: "Recompose a flow directory and send it to the Dify console",
	Long: `Recomposes the decomposed flow for an app back into a single DSL
document and imports it into the Dify console, updating the app in
place.

With --create-new the console creates a new app from the DSL instead
of updating an existing one; the app may then be given as a plain
flow directory name that has no registry entry yet.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := args[0]
		cfg := getConfig()

		if err := cfg.RequireCredentials(); err != nil {
			return handleError(ErrConfigInvalid, err, "add email/password to dfac.toml or export DIFY_CONSOLE_EMAIL and DIFY_CONSOLE_PASSWORD")
		}

		store, err := registry.Load(cfg.AppsFile)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		var id, dir string
		if resolved, resolveErr := store.Resolve(token); resolveErr == nil {
			id = resolved
			dir, err = store.DirFor(id)
			if err != nil {
				return handleError(ErrUnknownApp, err, "")
			}
		} else if pushCreateNew {
			// An unregistered token is acceptable for create-new pushes:
			// treat it as a literal directory name under the flows dir.
			dir = token
		} else {
			return handleError(ErrUnknownApp, resolveErr, "use --create-new to push a flow directory that has no registry entry")
		}

		source := filepath.Join(cfg.FlowsDir, dir)
		if _, statErr := os.Stat(source); os.IsNotExist(statErr) {
			return handleError(ErrUnknownApp, fmt.Errorf("flow directory %s does not exist", source), "")
		}

		doc, err := flow.Compose(source)
		if err != nil {
			return handleError(errorCode(err, "push"), err, "")
		}
		dsl, err := flow.Marshal(doc)
		if err != nil {
			return handleError(ErrIntegrityError, err, "")
		}

		client, err := console.NewClient(cfg.BaseURL)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "set base_url in dfac.toml or DIFY_BASE_URL")
		}
		ctx := cmd.Context()

		if err := client.Login(ctx, cfg.Email, cfg.Password); err != nil {
			return handleError(errorCode(err, "push"), err, "")
		}

		importID := id
		if pushCreateNew {
			importID = ""
		}
		if err := client.ImportDSL(ctx, string(dsl), importID); err != nil {
			return handleError(errorCode(err, "push"), err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]any{
				"app":        doc.App.Name,
				"dir":        dir,
				"create_new": pushCreateNew,
			})
			return nil
		}

		if pushCreateNew {
			fmt.Println(ui.Successf("pushed %s as a new app", ui.AppName(doc.App.Name)))
		} else {
			fmt.Println(ui.Successf("pushed %s", ui.AppName(doc.App.Name)))
		}
		return nil
	},
}

func init() {
	pushCmd.Flags().BoolVar(&pushCreateNew, "create-new", false, "Create a new app instead of updating an existing one")
	rootCmd.AddCommand(pushCmd)
}
