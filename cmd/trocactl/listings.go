package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"trocagames/internal/domain/entity"
	"trocagames/internal/usecase"
)

var listingFilterFlags = []string{"titulo", "descricao", "status", "console", "tipo", "valor-min", "valor-max", "avaliacao-min"}

func (c *cli) listingsCmd() *cobra.Command {
	var (
		filter             entity.ListingFilter
		status, tipo       string
		console            int
		valorMin, valorMax float64
		mine               bool
	)

	cmd := &cobra.Command{
		Use:   "anuncios",
		Short: "Lista anúncios; com filtros faz uma busca",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			var (
				result *usecase.ListingResult
				err    error
			)
			if mine {
				session, err := c.app.current(ctx)
				if err != nil {
					return err
				}
				result, err = c.app.listings.Mine(ctx, session)
				if err != nil {
					return err
				}
				c.printListings(result)
				return nil
			}

			session, err := c.app.optionalSession(ctx)
			if err != nil {
				return err
			}

			searching := false
			for _, name := range listingFilterFlags {
				if flags.Changed(name) {
					searching = true
					break
				}
			}

			if searching {
				filter.Status = entity.ListingStatus(status)
				filter.Tipo = entity.ListingType(tipo)
				filter.ConsoleID = entity.Console(console)
				if flags.Changed("valor-min") {
					filter.ValorMin = &valorMin
				}
				if flags.Changed("valor-max") {
					filter.ValorMax = &valorMax
				}
				result, err = c.app.listings.Search(ctx, session, filter)
			} else {
				result, err = c.app.listings.Feed(ctx, session)
			}
			if err != nil {
				return err
			}

			c.printListings(result)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&filter.Titulo, "titulo", "", "parte do título")
	flags.StringVar(&filter.Descricao, "descricao", "", "parte da descrição")
	flags.StringVar(&status, "status", "", "aberto, negociando ou fechado")
	flags.IntVar(&console, "console", 0, "id do console (1=PS1 ... 8=XBOX_SERIES)")
	flags.StringVar(&tipo, "tipo", "", "venda, troca ou ambos")
	flags.Float64Var(&valorMin, "valor-min", 0, "preço mínimo")
	flags.Float64Var(&valorMax, "valor-max", 0, "preço máximo")
	flags.IntVar(&filter.AvaliacaoMin, "avaliacao-min", 0, "avaliação mínima do anunciante")
	flags.BoolVar(&mine, "meus", false, "lista os seus anúncios, inclusive fechados")
	return cmd
}

func (c *cli) createListingCmd() *cobra.Command {
	var (
		input   entity.ListingInput
		console int
		foto    string
	)

	cmd := &cobra.Command{
		Use:   "anunciar",
		Short: "Publica um anúncio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := c.app.current(ctx)
			if err != nil {
				return err
			}

			input.ConsoleID = entity.Console(console)
			if input.Foto, err = readUpload(foto); err != nil {
				return err
			}

			listing, err := c.app.listings.Create(ctx, session, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "Anúncio #%d publicado: %s\n", listing.ID, listing.Titulo)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Titulo, "titulo", "", "título")
	flags.StringVar(&input.Descricao, "descricao", "", "descrição")
	flags.Float64Var(&input.Valor, "valor", 0, "preço")
	flags.IntVar(&console, "console", 0, "id do console (1=PS1 ... 8=XBOX_SERIES)")
	flags.BoolVar(&input.Venda, "venda", false, "aceita venda")
	flags.BoolVar(&input.Troca, "troca", false, "aceita troca")
	flags.StringVar(&foto, "foto", "", "caminho de uma imagem")
	return cmd
}

func (c *cli) updateListingCmd() *cobra.Command {
	var (
		titulo, descricao string
		valor             float64
		console           int
		venda, troca      bool
		foto              string
	)

	cmd := &cobra.Command{
		Use:   "editar-anuncio ID",
		Short: "Altera um anúncio aberto",
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

			flags := cmd.Flags()
			var patch entity.ListingPatch
			if flags.Changed("titulo") {
				patch.Titulo = &titulo
			}
			if flags.Changed("descricao") {
				patch.Descricao = &descricao
			}
			if flags.Changed("valor") {
				patch.Valor = &valor
			}
			if flags.Changed("console") {
				consoleID := entity.Console(console)
				patch.ConsoleID = &consoleID
			}
			if flags.Changed("venda") {
				patch.Venda = &venda
			}
			if flags.Changed("troca") {
				patch.Troca = &troca
			}
			if patch.Foto, err = readUpload(foto); err != nil {
				return err
			}

			if _, err := c.app.listings.Update(ctx, session, id, patch); err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "Anúncio #%d atualizado.\n", id)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&titulo, "titulo", "", "título")
	flags.StringVar(&descricao, "descricao", "", "descrição")
	flags.Float64Var(&valor, "valor", 0, "preço")
	flags.IntVar(&console, "console", 0, "id do console")
	flags.BoolVar(&venda, "venda", false, "aceita venda")
	flags.BoolVar(&troca, "troca", false, "aceita troca")
	flags.StringVar(&foto, "foto", "", "caminho de uma imagem")
	return cmd
}

func (c *cli) deleteListingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "excluir-anuncio ID",
		Short: "Exclui um anúncio aberto",
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

			if err := c.app.listings.Delete(ctx, session, id); err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "Anúncio #%d excluído.\n", id)
			return nil
		},
	}
}

func listingKind(l entity.Listing) string {
	switch {
	case l.Venda && l.Troca:
		return string(entity.TypeBoth)
	case l.Troca:
		return string(entity.TypeTrade)
	default:
		return string(entity.TypeSale)
	}
}

func (c *cli) printListings(result *usecase.ListingResult) {
	c.app.printNotices(result.Notices)
	if len(result.Listings) == 0 {
		fmt.Fprintln(c.app.out, "Nenhum anúncio encontrado.")
		return
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTÍTULO\tCONSOLE\tVALOR\tTIPO\tSTATUS")
	for _, l := range result.Listings {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.Titulo, l.ConsoleID, strconv.FormatFloat(l.Valor, 'f', 2, 64), listingKind(l), l.Status)
	}
	w.Flush()
}
