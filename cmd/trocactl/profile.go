package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"trocagames/internal/domain/entity"
	"trocagames/pkg/errors"
)

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perfil",
		Short: "Mostra o perfil da conta logada",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := c.app.current(ctx)
			if err != nil {
				return err
			}

			user, err := c.app.users.GetProfile(ctx, session)
			if err != nil {
				return err
			}
			c.printUser(user)
			return nil
		},
	}
	cmd.AddCommand(c.updateProfileCmd())
	return cmd
}

func (c *cli) updateProfileCmd() *cobra.Command {
	var (
		nome, sobrenome, celular, cep string
		foto                          string
	)

	cmd := &cobra.Command{
		Use:   "editar",
		Short: "Altera dados ou foto do perfil",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := c.app.current(ctx)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var patch entity.ProfilePatch
			if flags.Changed("nome") {
				patch.Nome = &nome
			}
			if flags.Changed("sobrenome") {
				patch.Sobrenome = &sobrenome
			}
			if flags.Changed("celular") {
				patch.Celular = &celular
			}
			if flags.Changed("cep") {
				patch.Cep = &cep
			}

			photo, err := readUpload(foto)
			if err != nil {
				return err
			}

			user, err := c.app.users.UpdateProfile(ctx, session, patch, photo)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.app.out, "Perfil atualizado.")
			c.printUser(user)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&nome, "nome", "", "nome")
	flags.StringVar(&sobrenome, "sobrenome", "", "sobrenome")
	flags.StringVar(&celular, "celular", "", "celular")
	flags.StringVar(&cep, "cep", "", "CEP")
	flags.StringVar(&foto, "foto", "", "caminho de uma imagem")
	return cmd
}

func (c *cli) printUser(user *entity.User) {
	fmt.Fprintf(c.app.out, "%s <%s>\n", user.FullName(), user.Email)
	if user.Celular != "" {
		fmt.Fprintf(c.app.out, "Celular: %s\n", user.Celular)
	}
	if user.Cep != "" {
		fmt.Fprintf(c.app.out, "CEP: %s\n", user.Cep)
	}
	if user.FotoURL != "" {
		fmt.Fprintf(c.app.out, "Foto: %s\n", user.FotoURL)
	}
}

// readUpload loads a photo from disk; an empty path means no photo.
func readUpload(path string) (*entity.Upload, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.BadRequest(fmt.Sprintf("Não foi possível ler %s", path), err)
	}
	return &entity.Upload{Filename: filepath.Base(path), Content: content}, nil
}
