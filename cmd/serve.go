package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/slidedeck/internal/mcp"
)

var serveRemote bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing tools to list presentations, read slide text and edit slide fields.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := openStore(cmd.Context(), cfg, serveRemote)
		if err != nil {
			return err
		}
		defer s.Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		source := string(cfg.Storage.Backend)
		if serveRemote {
			source = cfg.API.BaseURL
		}
		fmt.Fprintf(os.Stderr, "slidedeck MCP server started on stdio (store=%s)\n", source)

		return mcpserver.NewServer(s).Serve()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveRemote, "remote", false, "use the server at api.base_url instead of local storage")
	rootCmd.AddCommand(serveCmd)
}
