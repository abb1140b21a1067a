package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slidedeck/internal/notifications"
	"github.com/ziadkadry99/slidedeck/internal/presenter"
	"github.com/ziadkadry99/slidedeck/internal/progress"
)

var (
	exportRemote bool
	exportPDF    bool
	exportOpen   bool
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [presentation-id]",
	Short: "Export a presentation as printable HTML or PDF",
	Long: `Renders one page per slide into a standalone HTML document. With --pdf
the page is printed to PDF by a headless Chromium. With --open the HTML is
opened in the system browser, which shows the print dialog.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportPDF && exportOpen {
			return fmt.Errorf("--pdf and --open cannot be combined")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		id := presentationID(args)

		s, err := openStore(ctx, cfg, exportRemote)
		if err != nil {
			return err
		}
		defer s.Close()

		notices := notifications.NewDispatcher(cfg.Notifications.WebhookURL)
		ctrl, err := presenter.Load(ctx, s, id, s, presenter.WithNotifier(notices))
		if err != nil {
			return fmt.Errorf("loading presentation %s: %w", id, err)
		}
		exporter := presenter.NewExporter(nil, progress.NewReporter("Exporting slides"))

		if exportOpen {
			if err := ctrl.Print(ctx, exporter, presenter.BrowserSurface{}); err != nil {
				for _, n := range notices.Recent() {
					fmt.Fprintf(os.Stderr, "%s: %s\n", n.Title, n.Message)
				}
				return err
			}
			fmt.Println("Opened printable presentation in the browser.")
			return nil
		}

		doc, err := ctrl.ExportToPrintable(exporter)
		if err != nil {
			return fmt.Errorf("exporting presentation: %w", err)
		}
		if exportPDF {
			doc, err = presenter.ExportPDF(ctx, doc, pdfOptions(cfg))
			if errors.Is(err, presenter.ErrPDFDependencyMissing) {
				return fmt.Errorf("%w\nInstall Chromium or export HTML and print it from a browser", err)
			}
			if err != nil {
				return fmt.Errorf("exporting pdf: %w", err)
			}
		}

		out := exportOut
		if out == "" {
			out = doc.Filename
		}
		if out == "-" {
			_, err := os.Stdout.Write(doc.Data)
			return err
		}
		if err := os.WriteFile(out, doc.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%d slides)\n", out, ctrl.Len())
		return nil
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportRemote, "remote", false, "read from the server at api.base_url")
	exportCmd.Flags().BoolVar(&exportPDF, "pdf", false, "print to PDF with headless Chromium")
	exportCmd.Flags().BoolVar(&exportOpen, "open", false, "open the printable page in the browser")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default derived from the title, - for stdout)")
	rootCmd.AddCommand(exportCmd)
}
