package catalog

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/planets/cmd/application"
	"github.com/agentstation/planets/internal/cmd/output"
	"github.com/agentstation/planets/pkg/planets"
	"github.com/agentstation/planets/pkg/query"
)

// Sort keys accepted by the sort command.
const (
	SortByRadius   = "radius"
	SortBySun      = "sun"
	SortByDistance = "planet"
)

func newListCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all planets in catalog order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}
			all, err := svc.GetAllPlanets(cmd.Context())
			if err != nil {
				return err
			}
			return write(cmd, app, output.PlanetTable(all))
		},
	}
}

func newGetCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show a single planet",
		Long:  "Show a single planet. Names are case-insensitive.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}
			p, err := svc.GetPlanet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return write(cmd, app, output.PlanetTable{p})
		},
	}
}

func newSortCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort <radius|sun|planet> [reference]",
		Short: "List planets ordered by radius or distance",
		Long: `List planets ordered by a numeric key.

  radius           mean radius
  sun              distance to the sun
  planet <name>    distance to the named reference planet

Ascending order is the default; use --desc to reverse it.`,
		Example: `  planets sort radius
  planets sort sun --desc
  planets sort planet earth`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{SortByRadius, SortBySun, SortByDistance},
		RunE: func(cmd *cobra.Command, args []string) error {
			ascending, err := parseDirection(cmd)
			if err != nil {
				return err
			}
			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}
			sorted, err := sortPlanets(cmd, svc, args, ascending)
			if err != nil {
				return err
			}
			return write(cmd, app, output.PlanetTable(sorted))
		},
	}
	cmd.Flags().Bool("desc", false, "sort in descending order")
	return cmd
}

func sortPlanets(cmd *cobra.Command, svc *query.Service, args []string, ascending bool) ([]planets.Planet, error) {
	ctx := cmd.Context()
	key := args[0]

	if key != SortByDistance && len(args) > 1 {
		return nil, errUsage(cmd, "sort "+key+" takes no reference planet")
	}

	switch key {
	case SortByRadius:
		return svc.SortByRadius(ctx, ascending)
	case SortBySun:
		return svc.SortByDistanceToSun(ctx, ascending)
	case SortByDistance:
		if len(args) < 2 {
			return nil, errUsage(cmd, "sort planet requires a reference planet name")
		}
		return svc.SortByDistanceToPlanet(ctx, args[1], ascending)
	default:
		return nil, errUsage(cmd, "unknown sort key "+key+", must be one of: radius, sun, planet")
	}
}

func newDistanceCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "distance <name1> <name2>",
		Short: "Show the distance between two planets",
		Long: `Show the distance between two planets, computed as the absolute
difference of their distances to the sun.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}
			d, err := svc.GetDistanceBetweenPlanets(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return write(cmd, app, output.DistanceResult{
				From:     planets.NormalizeName(args[0]),
				To:       planets.NormalizeName(args[1]),
				Distance: d,
			})
		},
	}
}
