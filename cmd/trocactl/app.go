package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"trocagames/internal/adapter/gateway"
	"trocagames/internal/adapter/repository"
	"trocagames/internal/domain/entity"
	"trocagames/internal/usecase"
	"trocagames/pkg/config"
	"trocagames/pkg/errors"
)

// app is the use case graph of one CLI invocation. Sessions live in files under
// cfg.CLISessionDir, so consecutive commands share the signed-in identity.
type app struct {
	cfg *config.Config
	out io.Writer

	sessions      *usecase.SessionStore
	notifications *usecase.NotificationUseCase
	auth          *usecase.AuthUseCase
	users         *usecase.UserUseCase
	listings      *usecase.ListingUseCase
	proposals     *usecase.ProposalUseCase
	ratings       *usecase.RatingUseCase
}

func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	repo, err := repository.NewFileSessionRepository(cfg.CLISessionDir)
	if err != nil {
		return nil, err
	}

	client := gateway.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	listingGateway := gateway.NewListingGateway(client)

	sessions := usecase.NewSessionStore(repo)
	// Commands are one-shot; only "notificacoes" opens its own live channel.
	notifications := usecase.NewNotificationUseCase("")
	proposals := usecase.NewProposalUseCase(gateway.NewProposalGateway(client), listingGateway, sessions)

	return &app{
		cfg:           cfg,
		out:           out,
		sessions:      sessions,
		notifications: notifications,
		auth:          usecase.NewAuthUseCase(gateway.NewAuthGateway(client), sessions, notifications),
		users:         usecase.NewUserUseCase(gateway.NewUserGateway(client), sessions),
		listings:      usecase.NewListingUseCase(listingGateway, sessions),
		proposals:     proposals,
		ratings:       usecase.NewRatingUseCase(gateway.NewRatingGateway(client), proposals, sessions),
	}, nil
}

var errNotSignedIn = errors.Unauthorized("Você não está logado. Use: trocactl login", nil)

// current returns the most recently used stored session.
func (a *app) current(ctx context.Context) (*entity.Session, error) {
	sessions, err := a.sessions.Hydrate(ctx)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, errNotSignedIn
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions[0], nil
}

// optionalSession is current without the signed-in requirement.
func (a *app) optionalSession(ctx context.Context) (*entity.Session, error) {
	session, err := a.current(ctx)
	if err == errNotSignedIn {
		return nil, nil
	}
	return session, err
}

// signOutAll closes every stored session; the CLI keeps a single identity.
func (a *app) signOutAll(ctx context.Context) error {
	sessions, err := a.sessions.Hydrate(ctx)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if err := a.auth.SignOut(ctx, session.ID); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) printNotices(notices []string) {
	for _, notice := range notices {
		fmt.Fprintf(a.out, "! %s\n", notice)
	}
}

// describe turns err into the line shown to the user.
func describe(err error) string {
	switch {
	case errors.IsSessionExpired(err):
		return "Sua sessão expirou. Faça login novamente: trocactl login"
	default:
		return errors.MessageOf(err, err.Error())
	}
}
