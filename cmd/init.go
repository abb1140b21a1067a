package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slidedeck/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize slidedeck configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the storage backend, server port, admin passphrase and export options, and writes a .slidedeck.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
