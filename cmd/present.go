package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slidedeck/internal/live"
	"github.com/ziadkadry99/slidedeck/internal/notifications"
	"github.com/ziadkadry99/slidedeck/internal/presenter"
	"github.com/ziadkadry99/slidedeck/internal/tui"
)

var (
	presentRemote bool
	presentLive   bool
	presentStart  int
)

var presentCmd = &cobra.Command{
	Use:   "present [presentation-id]",
	Short: "Present a deck in the terminal",
	Long: `Opens the terminal presenter. Navigate with the arrow keys, space,
PageUp/PageDown, Home and End. Ctrl+F enters fullscreen and Esc leaves it;
e toggles edit mode, d shows fit diagnostics and q quits.

With --live the presenter's position is broadcast through the server at
api.base_url, so browsers viewing /view/<id> follow along.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		id := presentationID(args)

		// The alternate screen owns stdout; log lines would tear it.
		if verbose {
			f, err := os.OpenFile("slidedeck-present.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer f.Close()
			log.SetOutput(f)
		} else {
			log.SetOutput(io.Discard)
		}

		s, err := openStore(ctx, cfg, presentRemote)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := []presenter.Option{
			presenter.WithNotifier(notifications.NewDispatcher(cfg.Notifications.WebhookURL)),
		}
		if presentLive {
			pub, err := live.Dial(ctx, cfg.API.BaseURL, id)
			if err != nil {
				return fmt.Errorf("connecting live mode: %w", err)
			}
			defer pub.Close()
			opts = append(opts, presenter.WithObserver(pub.Observer(func(err error) {
				log.Printf("present: live: %v", err)
			})))
		}

		ctrl, err := presenter.Load(ctx, s, id, s, opts...)
		if err != nil {
			return fmt.Errorf("loading presentation %s: %w", id, err)
		}
		if presentStart > 1 {
			ctrl.GoTo(presentStart - 1)
		}

		m := tui.New(ctx, ctrl, cfg.Fit.Options())
		defer m.Close()

		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		ctrl.Wait()
		if err != nil {
			return fmt.Errorf("running presenter: %w", err)
		}
		return nil
	},
}

func init() {
	presentCmd.Flags().BoolVar(&presentRemote, "remote", false, "load and save through the server at api.base_url")
	presentCmd.Flags().BoolVar(&presentLive, "live", false, "broadcast navigation to followers through the server")
	presentCmd.Flags().IntVar(&presentStart, "start", 1, "slide number to start on")
	rootCmd.AddCommand(presentCmd)
}
