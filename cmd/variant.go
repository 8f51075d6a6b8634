package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Raptacon/Robot-2020/app"
)

var variantCmd = &cobra.Command{
	Use:   "variant",
	Short: "Print the variant the robot would boot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		v, err := app.SelectVariant(cfg, variantOverride(), nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(variantCmd)
}
