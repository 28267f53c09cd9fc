package main

import (
	"github.com/spf13/cobra"

	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
	"github.com/Rock1274/MiniBodegaWeb/internal/store/pg"
)

func newMigrateCmd(o *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Aplica o revierte las migraciones de la base",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			cfg := o.cfg
			st, err := pg.Connect(cmd.Context(), pg.Options{
				DSN:             cfg.Storage.DSN,
				MaxConns:        2,
				MinConns:        1,
				ConnMaxLifetime: cfg.Storage.ConnMaxLifetime,
			})
			if err != nil {
				return err
			}
			defer st.Close()

			return pg.Migrate(cmd.Context(), st.Pool(), command, logger.Named("migrate"))
		},
	}
}
