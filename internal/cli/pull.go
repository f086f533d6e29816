package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/dfac/internal/console"
	"github.com/aidanlsb/dfac/internal/flow"
	"github.com/aidanlsb/dfac/internal/registry"
	"github.com/aidanlsb/dfac/internal/ui"
)

var pullCmd = &cobra.Command{
	Use:   "pull <app>",
	Short: "Fetch an app's workflow and decompose it into the flows directory",
	Long: `Fetches the workflow DSL for an app from the Dify console and
decomposes it into a directory of linked files under the flows
directory.

The app may be given as a console app id, or as the directory or
display name of an app already in the registry. The first pull of a
new app allocates a registry entry and a collision-free directory
derived from the app's display name; later pulls reuse it.`,
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

		id, err := store.Resolve(token)
		if err != nil {
			return handleError(ErrUnknownApp, err, "pass the console app id for apps that have not been pulled yet")
		}

		client, err := console.NewClient(cfg.BaseURL)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "set base_url in dfac.toml or DIFY_BASE_URL")
		}
		ctx := cmd.Context()

		if err := client.Login(ctx, cfg.Email, cfg.Password); err != nil {
			return handleError(errorCode(err, "fetch"), err, "")
		}

		dsl, err := client.ExportDSL(ctx, id)
		if err != nil {
			return handleError(errorCode(err, "fetch"), err, "")
		}

		doc, err := flow.Parse([]byte(dsl))
		if err != nil {
			return handleError(ErrIntegrityError, err, "")
		}

		// Reuse the app's directory when it is already registered;
		// allocate one from the display name on first pull.
		var dir string
		if app, ok := store.Lookup(id); ok {
			dir = app.Dir
		} else {
			dir, err = store.Allocate(doc.App.Name, id)
			if err != nil {
				return handleError(ErrInternal, err, "")
			}
		}

		target := filepath.Join(cfg.FlowsDir, dir)
		if err := flow.Decompose(doc, target); err != nil {
			return handleError(errorCode(err, "fetch"), err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{
				"app":  doc.App.Name,
				"id":   id,
				"dir":  dir,
				"path": target,
			})
			return nil
		}

		fmt.Println(ui.Successf("pulled %s into %s", ui.AppName(doc.App.Name), ui.FilePath(target)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
