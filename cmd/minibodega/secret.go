package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rock1274/MiniBodegaWeb/internal/security/secret"
)

// newSecretCmd expone la codificación de contraseñas que usa la tabla de
// usuarios, para cargar o revisar filas a mano.
func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Codifica o decodifica contraseñas como las guarda la base",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "encode <contraseña>",
			Args:  cobra.ExactArgs(1),
			Short: "Codifica una contraseña",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), secret.Encode(args[0]))
				return err
			},
		},
		&cobra.Command{
			Use:   "decode <codificada>",
			Args:  cobra.ExactArgs(1),
			Short: "Decodifica un valor de la columna de contraseña",
			RunE: func(cmd *cobra.Command, args []string) error {
				plain, err := secret.Decode(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), plain)
				return err
			},
		},
	)
	return cmd
}
