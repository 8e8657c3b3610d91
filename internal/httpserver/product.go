package httpserver

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/verdora/plantmarket/internal/logging"
	"github.com/verdora/plantmarket/internal/models"
	"github.com/verdora/plantmarket/internal/mykafka"
	"github.com/verdora/plantmarket/internal/service"
	"github.com/verdora/plantmarket/internal/service/search"
	"github.com/verdora/plantmarket/internal/service/token"
	"github.com/verdora/plantmarket/internal/transport"
	"github.com/verdora/plantmarket/internal/util"
)

type ProductHTTP struct {
	Svc      *service.CatalogService
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := paramID(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return serviceError(c, l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetProducts(ctx, offset, limit)
	if err != nil {
		return serviceError(c, l, "list_products_error", err)
	}

	return c.JSON(http.StatusOK, transport.ProductListResponse{
		Data: items,
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	sellerID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body"})
	}

	prod, err := h.Svc.CreateProduct(ctx, sellerID, req)
	if err != nil {
		return serviceError(c, l, "create_product_error", err)
	}

	h.indexProduct(c, prod)
	publish(c, h.Producer, mykafka.TopicProductEvents, sellerID, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := paramID(c)
	if err != nil {
		return err
	}
	callerID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body"})
	}

	prod, err := h.Svc.PatchProduct(ctx, callerID, token.Role(c), id, req)
	if err != nil {
		return serviceError(c, l, "patch_product_error", err)
	}

	h.indexProduct(c, prod)
	publish(c, h.Producer, mykafka.TopicProductEvents, callerID, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := paramID(c)
	if err != nil {
		return err
	}
	callerID, err := token.UserID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteProduct(ctx, callerID, token.Role(c), id); err != nil {
		return serviceError(c, l, "delete_product_error", err)
	}

	publish(c, h.Producer, mykafka.TopicProductEvents, callerID, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, products, err := search.Search(ctx, h.ES, h.ESIndex, q, from, limit)
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Message: "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}

// indexProduct mirrors a catalog write into the search index, best effort.
func (h *ProductHTTP) indexProduct(c echo.Context, prod *models.Product) {
	if h.ES == nil {
		return
	}
	ctx := c.Request().Context()
	if err := search.IndexProduct(ctx, h.ES, h.ESIndex, prod); err != nil {
		logging.FromContext(ctx).Error("es index error", "product_id", prod.ID, "error", err)
	}
}
