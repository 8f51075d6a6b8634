package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Raptacon/Robot-2020/app"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Build every variant in the index and report the active components",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	results, err := app.Check(cfg, app.Options{})
	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "%-10s FAIL\n", r.Variant)
			continue
		}
		fmt.Fprintf(out, "%-10s ok   %d item(s); active: %s; disabled: %s\n",
			r.Variant, r.Items, strings.Join(r.Active, ", "), strings.Join(r.Disabled, ", "))
	}
	return err
}
