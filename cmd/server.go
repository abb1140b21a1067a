package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slidedeck/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the presentation server",
	Long:  `Starts the slidedeck server with the REST API, the browser viewer and live follow mode over websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serverPort > 0 {
			cfg.Server.Port = serverPort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := openStore(ctx, cfg, false)
		if err != nil {
			return err
		}
		defer s.Close()

		srv := server.New(cfg, s, nil)

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "slidedeck server %s starting on %s\n", Version, cfg.Addr())
		fmt.Fprintf(os.Stderr, "  Storage: %s\n", cfg.Storage.Backend)
		if cfg.Export.PDF {
			fmt.Fprintf(os.Stderr, "  PDF export: %s paper\n", cfg.Export.Paper)
		}

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
