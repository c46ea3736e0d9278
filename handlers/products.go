package handlers

import (
	"errors"
	"net/http"

	"funnel-svc/cache"
	"funnel-svc/database"
	"funnel-svc/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductHandler serves catalog reads for the landing pages, with a Redis
// cache in front of Postgres.
type ProductHandler struct {
	products ProductStore
	cache    *cache.ProductCache
	logger   *zap.Logger
}

func NewProductHandler(products ProductStore, c *cache.ProductCache, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, cache: c, logger: logger}
}

// GetProducts handles GET /products.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if p, ok := h.cache.Get(ctx, id); ok {
		c.JSON(http.StatusOK, p)
		return
	}

	p, err := h.products.GetByID(ctx, id)
	if errors.Is(err, database.ErrProductNotFound) {
		writeError(c, http.StatusNotFound, "product_not_found", "")
		return
	}
	if err != nil {
		h.logger.Error("Failed to load product", zap.String("product_id", id), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "")
		return
	}

	h.cache.Set(ctx, p)
	c.JSON(http.StatusOK, p)
}
