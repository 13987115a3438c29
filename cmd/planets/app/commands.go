package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/planets/cmd/planets/cmd/catalog"
	"github.com/agentstation/planets/cmd/planets/cmd/serve"
	"github.com/agentstation/planets/internal/server"
)

// CreateServeCommand creates the serve command with app dependencies.
// Flag defaults are resolved from configuration when the command runs.
func (a *App) CreateServeCommand() *cobra.Command {
	cmd := serve.NewCommand(a, func() server.Config {
		return a.config.ServerConfig()
	})
	cmd.GroupID = "core"
	return cmd
}

// CreateCatalogCommands creates the query and edit commands.
func (a *App) CreateCatalogCommands() []*cobra.Command {
	cmds := catalog.NewCommands(a)
	for _, cmd := range cmds {
		cmd.GroupID = "catalog"
	}
	return cmds
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "planets version %s\n", a.version)
			fmt.Fprintf(w, "commit: %s\n", a.commit)
			fmt.Fprintf(w, "built: %s\n", a.date)
			fmt.Fprintf(w, "built by: %s\n", a.builtBy)
			fmt.Fprintf(w, "go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
