package main

import (
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:    "man",
	Short:  "Generate man pages",
	Args:   cobra.NoArgs,
	Hidden: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		manPage, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return err
		}

		manPage = manPage.WithSection("Environment",
			"orgsvc reads its settings from config.yaml in the data directory "+
				"and from ORGSVC_ prefixed environment variables, which take precedence.\n"+
				"ORGSVC_DATA_PATH sets the data directory and ORGSVC_CONFIG_LOCATION the config file.")
		cmd.Println(manPage.Build(roff.NewDocument()))
		return nil
	},
}
