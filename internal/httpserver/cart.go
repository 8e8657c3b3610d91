package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/verdora/plantmarket/internal/logging"
	"github.com/verdora/plantmarket/internal/mykafka"
	"github.com/verdora/plantmarket/internal/service"
	"github.com/verdora/plantmarket/internal/service/token"
	"github.com/verdora/plantmarket/internal/transport"
)

type CartHTTP struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return serviceError(c, l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body"})
	}

	items, err := h.Svc.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return serviceError(c, l, "add_to_cart_error", err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, userID, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  req.Quantity,
	})

	return c.JSON(http.StatusCreated, items)
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_quantity_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body"})
	}

	items, err := h.Svc.SetQuantity(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return serviceError(c, l, "set_quantity_error", err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, userID, map[string]any{
		"type":      "cart_quantity_set",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  req.Quantity,
	})

	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req transport.RemoveCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body"})
	}

	items, err := h.Svc.RemoveItem(ctx, userID, req.ProductID)
	if err != nil {
		return serviceError(c, l, "remove_from_cart_error", err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, userID, map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": req.ProductID,
	})

	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Clear(ctx, userID); err != nil {
		return serviceError(c, l, "clear_cart_error", err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, userID, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "cart cleared"})
}
