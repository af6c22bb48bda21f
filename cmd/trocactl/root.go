package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"trocagames/pkg/config"
	"trocagames/pkg/errors"
	"trocagames/pkg/logger"
)

// cli carries the app built by the root command to its subcommands.
type cli struct {
	app     *app
	verbose bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "trocactl",
		Short:         "Cliente de terminal do TrocaGames",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !c.verbose {
				logger.Quiet(io.Discard)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.app, err = newApp(cfg, cmd.OutOrStdout())
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.app.notifications.Shutdown()
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "mostra os logs")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.registerCmd(),
		c.profileCmd(),
		c.listingsCmd(),
		c.createListingCmd(),
		c.updateListingCmd(),
		c.deleteListingCmd(),
		c.proposeCmd(),
		c.dashboardCmd(),
		c.transitionCmd("aceitar", "Aceita uma proposta recebida"),
		c.transitionCmd("recusar", "Recusa uma proposta recebida"),
		c.transitionCmd("finalizar", "Finaliza uma negociação"),
		c.rateCmd(),
		c.notificationsCmd(),
	)
	return root
}

// execute runs the CLI with args and reports a failure on errOut.
func execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(errOut, describe(err))
	}
	return err
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest(fmt.Sprintf("ID inválido: %s", arg), err)
	}
	return id, nil
}
