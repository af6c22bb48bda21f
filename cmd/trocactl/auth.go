package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trocagames/internal/domain/entity"
)

func (c *cli) loginCmd() *cobra.Command {
	var credentials entity.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Entra com email e senha",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			session, err := c.app.auth.SignIn(ctx, credentials)
			if err != nil {
				return err
			}

			// Only the new identity stays stored.
			stored, err := c.app.sessions.Hydrate(ctx)
			if err != nil {
				return err
			}
			for _, other := range stored {
				if other.ID == session.ID {
					continue
				}
				if err := c.app.auth.SignOut(ctx, other.ID); err != nil {
					return err
				}
			}

			fmt.Fprintf(c.app.out, "Bem-vindo, %s!\n", session.User.FullName())
			return nil
		},
	}

	cmd.Flags().StringVar(&credentials.Email, "email", "", "email da conta")
	cmd.Flags().StringVar(&credentials.Senha, "senha", "", "senha da conta")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("senha")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Encerra a sessão salva",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.signOutAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.app.out, "Sessão encerrada.")
			return nil
		},
	}
}

func (c *cli) registerCmd() *cobra.Command {
	var registration entity.Registration

	cmd := &cobra.Command{
		Use:   "cadastro",
		Short: "Cria uma conta",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.auth.Register(cmd.Context(), registration); err != nil {
				return err
			}
			fmt.Fprintln(c.app.out, "Cadastro realizado com sucesso! Faça login para continuar.")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&registration.Nome, "nome", "", "nome")
	flags.StringVar(&registration.Sobrenome, "sobrenome", "", "sobrenome")
	flags.StringVar(&registration.Email, "email", "", "email")
	flags.StringVar(&registration.Celular, "celular", "", "celular")
	flags.StringVar(&registration.Cep, "cep", "", "CEP")
	flags.StringVar(&registration.Senha, "senha", "", "senha")
	flags.StringVar(&registration.ConfirmarSenha, "confirmar-senha", "", "confirmação da senha")
	return cmd
}
