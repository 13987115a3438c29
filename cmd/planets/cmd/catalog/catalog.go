// Package catalog provides the commands that query and edit the planet
// catalog directly, without going through the HTTP server.
package catalog

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/agentstation/planets/cmd/application"
	"github.com/agentstation/planets/internal/cmd/output"
	"github.com/agentstation/planets/pkg/planets"
)

// NewCommands returns every catalog command bound to app.
func NewCommands(app application.Application) []*cobra.Command {
	return []*cobra.Command{
		newListCommand(app),
		newGetCommand(app),
		newSortCommand(app),
		newDistanceCommand(app),
		newCreateCommand(app),
		newUpdateCommand(app),
		newDeleteCommand(app),
		newExportCommand(app),
	}
}

// write renders v in the format selected by --format, or by terminal
// detection when none was given.
func write(cmd *cobra.Command, app application.Application, v any) error {
	format := output.DetectFormat(app.OutputFormat())
	return output.Write(cmd.OutOrStdout(), format, v)
}

// addPlanetFlags registers the radius and distance flags shared by create
// and update.
func addPlanetFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("radius", 0, "mean radius in km")
	cmd.Flags().Float64("distance-to-sun", 0, "mean distance to the sun in millions of km")
}

// planetFromFlags builds a planet from the name argument and flags.
func planetFromFlags(cmd *cobra.Command, name string) (planets.Planet, error) {
	radius, err := cmd.Flags().GetFloat64("radius")
	if err != nil {
		return planets.Planet{}, err
	}
	distance, err := cmd.Flags().GetFloat64("distance-to-sun")
	if err != nil {
		return planets.Planet{}, err
	}
	return planets.Planet{Name: name, Radius: radius, DistanceToSun: distance}, nil
}

// parseDirection resolves --desc into the ascending flag used by queries.
func parseDirection(cmd *cobra.Command) (bool, error) {
	desc, err := cmd.Flags().GetBool("desc")
	if err != nil {
		return false, err
	}
	return !desc, nil
}

// errUsage returns msg as an error after printing the command usage.
func errUsage(cmd *cobra.Command, msg string) error {
	_ = cmd.Usage()
	return errors.New(msg)
}
