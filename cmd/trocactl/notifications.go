package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trocagames/internal/domain/entity"
	"trocagames/internal/usecase"
	"trocagames/pkg/errors"
)

func (c *cli) notificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notificacoes",
		Short: "Acompanha as notificações em tempo real até Ctrl+C",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := c.app.current(ctx)
			if err != nil {
				return err
			}
			if c.app.cfg.NotificationURL == "" {
				return errors.BadRequest("NOTIFICATION_URL não configurada.", nil)
			}

			live := usecase.NewNotificationUseCase(c.app.cfg.NotificationURL)
			defer live.Shutdown()

			live.Start(session)
			updates, cancel := live.Feed(session.ID).Subscribe()
			defer cancel()

			fmt.Fprintln(c.app.out, "Aguardando notificações... (Ctrl+C para sair)")
			for {
				select {
				case <-ctx.Done():
					return nil
				case n, ok := <-updates:
					if !ok {
						return nil
					}
					c.printNotification(n)
				}
			}
		},
	}
}

func (c *cli) printNotification(n entity.Notification) {
	title := n.Title
	if n.TitleGame != "" {
		title = fmt.Sprintf("%s (%s)", title, n.TitleGame)
	}
	fmt.Fprintf(c.app.out, "[%s] %s: %s\n", n.Timestamp.Format("02/01 15:04"), title, n.Message)
}
