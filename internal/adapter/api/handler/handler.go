package handler

import (
	"trocagames/internal/adapter/api/middleware"
	"trocagames/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	listingHandler      *ListingHandler
	proposalHandler     *ProposalHandler
	notificationHandler *NotificationHandler
)

func Setup(
	sessionMiddleware *middleware.SessionMiddleware,
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	listingUseCase *usecase.ListingUseCase,
	proposalUseCase *usecase.ProposalUseCase,
	ratingUseCase *usecase.RatingUseCase,
	notificationUseCase *usecase.NotificationUseCase,
) {
	authHandler = NewAuthHandler(authUseCase, sessionMiddleware)
	userHandler = NewUserHandler(userUseCase, sessionMiddleware)
	listingHandler = NewListingHandler(listingUseCase, sessionMiddleware)
	proposalHandler = NewProposalHandler(proposalUseCase, ratingUseCase, sessionMiddleware)
	notificationHandler = NewNotificationHandler(notificationUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetProposalHandler() *ProposalHandler {
	return proposalHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}
