package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slidedeck/internal/auth"
	"github.com/ziadkadry99/slidedeck/internal/client"
	"github.com/ziadkadry99/slidedeck/internal/config"
	"github.com/ziadkadry99/slidedeck/internal/notifications"
	"github.com/ziadkadry99/slidedeck/internal/presenter"
	"github.com/ziadkadry99/slidedeck/internal/render"
)

var (
	adminRemote bool
	adminSlide  int
	adminField  string
	adminValue  string
)

var adminCmd = &cobra.Command{
	Use:   "admin [presentation-id]",
	Short: "Edit slide fields behind the admin passphrase",
	Long: `Asks for the admin passphrase and then lets you pick a slide and one of its
editable fields to change. The full slide list is saved after each edit.

--slide, --field and --value perform a single edit without prompts. With
--remote the passphrase is checked by the server and remembered in
~/.slidedeck/credentials.json; SLIDEDECK_ADMIN_PASSPHRASE overrides it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		id := presentationID(args)

		if err := adminLogin(ctx, cfg); err != nil {
			return err
		}

		s, err := openStore(ctx, cfg, adminRemote)
		if err != nil {
			return err
		}
		defer s.Close()

		notices := notifications.NewDispatcher(cfg.Notifications.WebhookURL)
		ctrl, err := presenter.Load(ctx, s, id, s, presenter.WithNotifier(notices))
		if err != nil {
			return fmt.Errorf("loading presentation %s: %w", id, err)
		}
		ctrl.ToggleEditMode()

		if adminField != "" {
			if !ctrl.GoTo(adminSlide-1) && adminSlide-1 != ctrl.Index() {
				return fmt.Errorf("slide %d out of range (1-%d)", adminSlide, ctrl.Len())
			}
			return adminEdit(ctx, ctrl, notices, adminField, adminValue)
		}

		for {
			if err := adminEditInteractive(ctx, ctrl, notices); err != nil {
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
					return nil
				}
				return err
			}
			again := promptui.Select{Label: "Editar outro campo?", Items: []string{"Sim", "Não"}}
			idx, _, err := again.Run()
			if err != nil || idx == 1 {
				return nil
			}
		}
	},
}

var adminLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the remembered admin passphrase",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := auth.Forget(cfg.API.BaseURL); err != nil {
			return err
		}
		fmt.Printf("Forgot passphrase for %s\n", cfg.API.BaseURL)
		return nil
	},
}

// adminLogin checks the passphrase locally, or against the server when
// running remote, where a rejected remembered passphrase is asked again.
func adminLogin(ctx context.Context, cfg *config.Config) error {
	if !adminRemote {
		pass, err := askPassphrase()
		if err != nil {
			return err
		}
		if !auth.NewGate(cfg.Admin.Passphrase).Check(pass) {
			return errors.New("Senha incorreta")
		}
		return nil
	}

	c := client.New(cfg.API.BaseURL)
	pass := auth.Passphrase(cfg.API.BaseURL)
	if pass != "" {
		if err := c.VerifyAdmin(ctx, pass); err == nil {
			return nil
		} else if !errors.Is(err, client.ErrUnauthorized) {
			return err
		}
	}

	pass, err := askPassphrase()
	if err != nil {
		return err
	}
	if err := c.VerifyAdmin(ctx, pass); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return errors.New("Senha incorreta")
		}
		return err
	}
	return auth.Remember(cfg.API.BaseURL, pass)
}

func askPassphrase() (string, error) {
	p := promptui.Prompt{Label: "Senha de administrador", Mask: '*'}
	pass, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("passphrase: %w", err)
	}
	return pass, nil
}

func adminEditInteractive(ctx context.Context, ctrl *presenter.Controller, notices *notifications.Dispatcher) error {
	p := ctrl.Presentation()
	items := make([]string, len(p.Slides))
	for i, s := range p.Slides {
		items[i] = fmt.Sprintf("%d. %s (%s)", i+1, s.Title, s.Kind.Label())
	}
	slidePrompt := promptui.Select{Label: "Slide", Items: items, Size: 12, CursorPos: ctrl.Index()}
	idx, _, err := slidePrompt.Run()
	if err != nil {
		return err
	}
	ctrl.GoTo(idx)

	node, ok := ctrl.View()
	if !ok {
		return presenter.ErrNoSlides
	}
	var paths, labels []string
	current := map[string]string{}
	node.Walk(func(n render.Node) {
		if n.Editable && n.Path != "" {
			paths = append(paths, n.Path)
			labels = append(labels, fmt.Sprintf("%s: %s", n.Path, n.Text))
			current[n.Path] = n.Text
		}
	})
	if len(paths) == 0 {
		fmt.Println("Este slide não tem campos editáveis.")
		return nil
	}

	fieldPrompt := promptui.Select{Label: "Campo", Items: labels, Size: 12}
	fidx, _, err := fieldPrompt.Run()
	if err != nil {
		return err
	}

	valuePrompt := promptui.Prompt{Label: paths[fidx], Default: current[paths[fidx]], AllowEdit: true}
	value, err := valuePrompt.Run()
	if err != nil {
		return err
	}
	return adminEdit(ctx, ctrl, notices, paths[fidx], value)
}

// adminEdit applies one edit and waits for the save to report back.
func adminEdit(ctx context.Context, ctrl *presenter.Controller, notices *notifications.Dispatcher, path, value string) error {
	ch, unsubscribe := notices.Subscribe(4)
	defer unsubscribe()

	if err := ctrl.Edit(ctx, path, value); err != nil {
		return fmt.Errorf("editing %s: %w", path, err)
	}
	ctrl.Wait()

	select {
	case n := <-ch:
		fmt.Printf("%s: %s\n", n.Title, n.Message)
		if n.Severity == notifications.SeverityError {
			return errors.New(n.Message)
		}
	default:
	}
	return nil
}

func init() {
	adminCmd.Flags().BoolVar(&adminRemote, "remote", false, "edit through the server at api.base_url")
	adminCmd.Flags().IntVar(&adminSlide, "slide", 1, "slide number for a non-interactive edit")
	adminCmd.Flags().StringVar(&adminField, "field", "", "field path for a non-interactive edit, e.g. title or sections.0.title")
	adminCmd.Flags().StringVar(&adminValue, "value", "", "new value for a non-interactive edit")
	adminCmd.AddCommand(adminLogoutCmd)
	rootCmd.AddCommand(adminCmd)
}
