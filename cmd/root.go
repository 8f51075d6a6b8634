package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Raptacon/Robot-2020/app"
	"github.com/Raptacon/Robot-2020/config"
	"github.com/Raptacon/Robot-2020/infra/logger"
)

// VariantEnv overrides the marker file, like --variant.
const VariantEnv = "ROBOT_VARIANT"

var (
	cfgPath     string
	variantFlag string
)

var rootCmd = &cobra.Command{
	Use:          "robot",
	Short:        "Configuration driven robot runtime",
	RunE:         run,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Boot the selected variant and run the control loop",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&variantFlag, "variant", "V", "", "variant to boot instead of the marker file (env "+VariantEnv+")")
	rootCmd.AddCommand(runCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Configure(cfg.Logging.Level, nil); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return cfg, nil
}

func variantOverride() string {
	if variantFlag != "" {
		return variantFlag
	}
	return os.Getenv(VariantEnv)
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	robot, err := app.Boot(cfg, app.Options{Variant: variantOverride()})
	if err != nil {
		return err
	}
	return robot.Run(ctx)
}
