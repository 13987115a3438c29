package catalog

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/planets/cmd/application"
	"github.com/agentstation/planets/internal/cmd/output"
	"github.com/agentstation/planets/pkg/planets"
)

func newCreateCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Add a planet to the catalog",
		Long: `Add a planet to the catalog.

Changes only outlive the process with the sqlite storage driver.`,
		Example: `  planets create ceres --radius 473 --distance-to-sun 413.7`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := planetFromFlags(cmd, args[0])
			if err != nil {
				return err
			}
			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.CreatePlanet(cmd.Context(), input)
			if err != nil {
				return err
			}
			return write(cmd, app, output.PlanetTable{created})
		},
	}
	addPlanetFlags(cmd)
	return cmd
}

func newUpdateCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Replace a planet's data, optionally renaming it",
		Long: `Replace a planet's radius and distance to the sun.

Both values are replaced, so both flags are required. Use --rename to move
the record to a new name.`,
		Example: `  planets update mars --radius 3390 --distance-to-sun 228
  planets update ceres --rename vesta --radius 262.7 --distance-to-sun 353.3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rename, err := cmd.Flags().GetString("rename")
			if err != nil {
				return err
			}
			input, err := planetFromFlags(cmd, rename)
			if err != nil {
				return err
			}
			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}
			updated, err := svc.UpdatePlanet(cmd.Context(), input, args[0])
			if err != nil {
				return err
			}
			return write(cmd, app, output.PlanetTable{updated})
		},
	}
	addPlanetFlags(cmd)
	cmd.Flags().String("rename", "", "new name for the planet")
	_ = cmd.MarkFlagRequired("radius")
	_ = cmd.MarkFlagRequired("distance-to-sun")
	return cmd
}

func newDeleteCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a planet from the catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.DeletePlanet(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planet %s deleted\n", planets.NormalizeName(args[0]))
			return nil
		},
	}
}
