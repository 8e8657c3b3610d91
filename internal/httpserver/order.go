package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/verdora/plantmarket/internal/logging"
	"github.com/verdora/plantmarket/internal/models"
	"github.com/verdora/plantmarket/internal/mykafka"
	"github.com/verdora/plantmarket/internal/service"
	"github.com/verdora/plantmarket/internal/service/token"
	"github.com/verdora/plantmarket/internal/transport"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

// CreateOrder converts the caller's cart into an order. The optional
// Idempotency-Key header guards against double submission.
func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body"})
	}

	idemKey := c.Request().Header.Get("Idempotency-Key")

	order, err := h.Svc.CreateOrderFromCart(ctx, userID, req.ShippingAddress, idemKey)
	if err != nil {
		return serviceError(c, l, "create_order_error", err)
	}

	publish(c, h.Producer, mykafka.TopicOrderEvents, userID, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"total":   order.Total,
	})

	l.Info("create_order_success", "order_id", order.ID, "total", order.Total)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_mine")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListMyOrders(ctx, userID)
	if err != nil {
		return serviceError(c, l, "list_my_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) ListSellerOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_seller")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListSellerOrders(ctx, userID)
	if err != nil {
		return serviceError(c, l, "list_seller_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) ListAllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_all")

	orders, err := h.Svc.ListAllOrders(ctx)
	if err != nil {
		return serviceError(c, l, "list_all_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder exposes a single order to its owner, a seller with an item in it,
// or an admin. Everyone else gets a 404 rather than confirmation the order
// exists.
func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := paramID(c)
	if err != nil {
		return err
	}
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return serviceError(c, l, "get_order_error", err)
	}

	if !canSeeOrder(order, userID, token.Role(c)) {
		l.Warn("get_order_error", "status", 404, "reason", "not visible", "order_id", id)
		return c.JSON(http.StatusNotFound, transport.ErrorResponse{Message: "order not found"})
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body"})
	}

	order, err := h.Svc.UpdateStatus(ctx, id, models.Status(req.Status))
	if err != nil {
		return serviceError(c, l, "update_status_error", err)
	}

	publish(c, h.Producer, mykafka.TopicOrderEvents, order.UserID, map[string]any{
		"type":    "order_status_updated",
		"orderID": order.ID,
		"status":  order.Status,
	})

	l.Info("update_status_success", "order_id", order.ID, "new_status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func canSeeOrder(order *models.Order, callerID uint, role string) bool {
	if role == "admin" || order.UserID == callerID {
		return true
	}
	for _, it := range order.Items {
		if it.SellerID == callerID {
			return true
		}
	}
	return false
}
