package handler

import (
	"github.com/labstack/echo/v4"

	"trocagames/internal/adapter/api/middleware"
	"trocagames/internal/domain/entity"
	"trocagames/internal/usecase"
	"trocagames/pkg/response"
	"trocagames/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

type notificationsResponse struct {
	Items  []entity.Notification `json:"items"`
	Unread int                   `json:"unread"`
	Total  int                   `json:"total"`
	utils.PaginationParams
}

func (h *NotificationHandler) page(c echo.Context, sessionID string) notificationsResponse {
	items, unread := h.notificationUseCase.List(sessionID)
	params := utils.GetPaginationParams(c)

	return notificationsResponse{
		Items:            utils.Paginate(items, params),
		Unread:           unread,
		Total:            len(items),
		PaginationParams: params,
	}
}

// List returns notifications in arrival order, paginated with ?page and ?limit.
func (h *NotificationHandler) List(c echo.Context) error {
	return response.Success(c, h.page(c, middleware.SessionFrom(c).ID))
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	sessionID := middleware.SessionFrom(c).ID
	h.notificationUseCase.MarkRead(sessionID)
	return response.Success(c, h.page(c, sessionID))
}
