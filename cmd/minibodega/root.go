package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Rock1274/MiniBodegaWeb/internal/config"
	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
)

type rootOpts struct {
	configPath string
	envFile    string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	o := &rootOpts{}

	root := &cobra.Command{
		Use:           "minibodega",
		Short:         "Login y recuperación de contraseña de MiniBodega",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env es opcional; el entorno real tiene prioridad
			if err := godotenv.Load(o.envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load %s: %w", o.envFile, err)
			}
			cfg, err := config.Load(o.configPath)
			if err != nil {
				return err
			}
			o.cfg = cfg

			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.Log.Level,
				ServiceName: cfg.App.Name,
				Version:     os.Getenv("VERSION"),
			})
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&o.configPath, "config", envOr("CONFIG_PATH", ""), "YAML de configuración (env CONFIG_PATH)")
	root.PersistentFlags().StringVar(&o.envFile, "env-file", ".env", "archivo .env a cargar si existe")

	root.AddCommand(
		newServeCmd(o),
		newMigrateCmd(o),
		newSecretCmd(),
		newMailCmd(o),
	)
	return root
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
