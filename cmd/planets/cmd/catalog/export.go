package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/planets/cmd/application"
	"github.com/agentstation/planets/pkg/constants"
	"github.com/agentstation/planets/pkg/planets"
)

func newExportCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the catalog as a seed file",
		Long: `Write the current catalog in the seed file format accepted by
catalog.file. The format follows the file extension (.json for JSON,
anything else YAML). Without a file the catalog is written to stdout as YAML
unless --format json is given.`,
		Example: `  planets export planets.yaml
  PLANETS_CATALOG_FILE=planets.yaml planets serve`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}
			all, err := svc.GetAllPlanets(cmd.Context())
			if err != nil {
				return err
			}

			format := "yaml"
			if len(args) == 1 && strings.EqualFold(filepath.Ext(args[0]), ".json") {
				format = "json"
			} else if len(args) == 0 && strings.EqualFold(app.OutputFormat(), "json") {
				format = "json"
			}

			data, err := planets.EncodeCatalog(all, format)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(args[0], data, constants.FilePermissions)
		},
	}
	return cmd
}
