package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rock1274/MiniBodegaWeb/internal/email"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/server"
	"github.com/Rock1274/MiniBodegaWeb/internal/security/code"
)

func newMailCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Utilidades de correo",
	}

	var name string
	test := &cobra.Command{
		Use:   "test <destino>",
		Short: "Envía un código de prueba con la configuración SMTP actual",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := server.BuildDispatcher(o.cfg)
			if err != nil {
				return err
			}
			c, err := code.Generate(o.cfg.Reset.CodeLength)
			if err != nil {
				return err
			}
			err = d.Send(cmd.Context(), args[0], email.CodeMessage{
				Code:        c,
				DisplayName: name,
				TTL:         o.cfg.Reset.CodeTTL,
			})
			if err != nil {
				diag := email.DiagnoseSMTP(err)
				return fmt.Errorf("envío fallido (%s): %w", diag.Code, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "enviado a %s (código %s)\n", args[0], c)
			return err
		},
	}
	test.Flags().StringVar(&name, "name", "", "nombre para el saludo")

	cmd.AddCommand(test)
	return cmd
}
