package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"trocagames/internal/domain/entity"
	"trocagames/internal/usecase"
)

func (c *cli) proposeCmd() *cobra.Command {
	var (
		mensagem string
		valor    float64
	)

	cmd := &cobra.Command{
		Use:   "propor ANUNCIO_ID",
		Short: "Envia uma proposta para um anúncio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listingID, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			session, err := c.app.current(ctx)
			if err != nil {
				return err
			}

			input := entity.ProposalInput{AnuncioID: listingID, Mensagem: mensagem}
			if cmd.Flags().Changed("valor") {
				input.Valor = &valor
			}

			if _, err := c.app.proposals.Create(ctx, session, input); err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "Proposta enviada para o anúncio #%d.\n", listingID)
			return nil
		},
	}

	cmd.Flags().StringVar(&mensagem, "mensagem", "", "mensagem para o anunciante")
	cmd.Flags().Float64Var(&valor, "valor", 0, "valor oferecido")
	return cmd
}

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "propostas",
		Aliases: []string{"dashboard"},
		Short:   "Mostra propostas enviadas e recebidas",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := c.app.current(ctx)
			if err != nil {
				return err
			}

			dashboard, err := c.app.ratings.Dashboard(ctx, session)
			if err != nil {
				return err
			}
			c.printDashboard(dashboard)
			return nil
		},
	}
}

func (c *cli) transitionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " PROPOSTA_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			session, err := c.app.current(ctx)
			if err != nil {
				return err
			}

			result, err := c.app.ratings.Apply(ctx, session, id, entity.ProposalAction(action))
			if err != nil {
				return err
			}

			if result.Dashboard != nil {
				c.app.printNotices(result.Dashboard.Notices)
			}
			if result.Proposal != nil {
				fmt.Fprintf(c.app.out, "Proposta #%d: %s\n", id, result.Proposal.Status)
			}
			if result.Listing != nil {
				fmt.Fprintf(c.app.out, "Anúncio #%d: %s\n", result.Listing.ID, result.Listing.Status)
			}
			return nil
		},
	}
}

func (c *cli) rateCmd() *cobra.Command {
	var input usecase.RateInput

	cmd := &cobra.Command{
		Use:   "avaliar PROPOSTA_ID",
		Short: "Avalia o anunciante de uma negociação fechada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			session, err := c.app.current(ctx)
			if err != nil {
				return err
			}

			if _, err := c.app.ratings.Rate(ctx, session, id, input); err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "Avaliação registrada: %s\n", strings.Repeat("★", input.Estrelas))
			return nil
		},
	}

	cmd.Flags().IntVar(&input.Estrelas, "estrelas", 0, "nota de 1 a 5")
	cmd.Flags().StringVar(&input.Comentario, "comentario", "", "comentário opcional")
	return cmd
}

func actionNames(actions []entity.ProposalAction) string {
	if len(actions) == 0 {
		return "-"
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ",")
}

func (c *cli) printDashboard(dashboard *usecase.Dashboard) {
	c.app.printNotices(dashboard.Notices)
	if len(dashboard.Proposals) == 0 {
		fmt.Fprintln(c.app.out, "Nenhuma proposta.")
		return
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tANÚNCIO\tDIREÇÃO\tSTATUS\tAÇÕES\tAVALIAR")
	for _, p := range dashboard.Proposals {
		title := fmt.Sprintf("#%d", p.AnuncioID)
		if p.Anuncio != nil && p.Anuncio.Titulo != "" {
			title = p.Anuncio.Titulo
		}
		rate := ""
		if p.CanRate {
			rate = "sim"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, title, p.Direction, p.Status, actionNames(p.Actions), rate)
	}
	w.Flush()
}
