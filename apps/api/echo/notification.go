package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core/notification"
)

type notificationApi struct {
	svc *notification.Service
}

func registerNotificationAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *notification.Service) {
	api := notificationApi{svc: svc}

	ng := g.Group("/notifications", authed)
	ng.GET("", api.query)
	ng.POST("/:id/read", api.markRead)
}

func (api *notificationApi) query(ctx echo.Context) error {
	ns, err := api.svc.List(ctx.Request().Context(), principal(ctx))
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ctx.JSON(http.StatusOK, ns)
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "notification")
	if err != nil {
		return err
	}
	res, err := api.svc.MarkRead(ctx.Request().Context(), principal(ctx), id)
	if err != nil {
		return errors.Wrap(err, "marking notification as read")
	}
	return ctx.JSON(http.StatusOK, res)
}
