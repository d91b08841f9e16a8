package handler

import (
	"net/http"
	"strconv"
	"time"

	"tinytreats/internal/model"
	"tinytreats/pkg/cache"
	"tinytreats/pkg/logger"
	"tinytreats/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Stock       int     `json:"stock"`
	Unit        string  `json:"unit"`
	IsActive    bool    `json:"is_active"`
}

// ProductHandler serves the catalog CRUD endpoints
type ProductHandler struct {
	DB    *gorm.DB
	Cache *cache.ProductCache
}

// ListProducts handles retrieving the full catalog
func (h *ProductHandler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	ctx := c.Request().Context()
	if products, ok := h.Cache.Get(ctx); ok {
		log.Info("Products served from cache", zap.Int("count", len(products)))
		return c.JSON(http.StatusOK, products)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var products []model.Product
	result := h.DB.Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve products",
		})
	}

	if err := h.Cache.Set(ctx, products); err != nil {
		log.Warn("Failed to populate product cache", zap.Error(err))
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// CreateProduct handles creating a new product
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	product := model.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Unit:        req.Unit,
		IsActive:    req.IsActive,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	result := h.DB.Create(&product)
	if result.Error != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create product",
		})
	}

	h.invalidateCache(c)
	prometheus.RecordProductOperation("create")
	prometheus.UpdateProductInventory(strconv.FormatUint(uint64(product.ID), 10), product.Name, float64(product.Stock))

	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	// Find existing product
	var product model.Product
	result := h.DB.First(&product, id)
	if result.Error != nil {
		log.Error("Product not found for update",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	oldPrice := product.Price

	// Update fields
	product.Name = req.Name
	product.Price = req.Price
	product.Description = req.Description
	product.ImageURL = req.ImageURL
	product.Stock = req.Stock
	product.Unit = req.Unit
	product.IsActive = req.IsActive

	defer prometheus.TrackDBOperation("update")(time.Now())
	result = h.DB.Save(&product)
	if result.Error != nil {
		log.Error("Failed to update product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update product",
		})
	}

	h.invalidateCache(c)
	prometheus.RecordProductOperation("update")
	prometheus.UpdateProductInventory(id, product.Name, float64(product.Stock))

	log.Info("Product updated successfully",
		zap.String("product_id", id),
		zap.String("name", product.Name),
		zap.Float64("old_price", oldPrice),
		zap.Float64("new_price", product.Price))
	return c.JSON(http.StatusOK, product)
}

// UpdateStock handles the dedicated stock-only partial update
func (h *ProductHandler) UpdateStock(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	stock, err := strconv.Atoi(c.QueryParam("stock"))
	if err != nil {
		log.Warn("Invalid stock parameter",
			zap.String("product_id", id),
			zap.String("value", c.QueryParam("stock")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid stock value",
		})
	}

	var product model.Product
	result := h.DB.First(&product, id)
	if result.Error != nil {
		log.Error("Product not found for stock update",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	product.Stock = stock

	defer prometheus.TrackDBOperation("update")(time.Now())
	result = h.DB.Save(&product)
	if result.Error != nil {
		log.Error("Failed to update stock",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update stock",
		})
	}

	h.invalidateCache(c)
	prometheus.RecordProductOperation("stock_update")
	prometheus.UpdateProductInventory(id, product.Name, float64(product.Stock))

	log.Info("Stock updated successfully",
		zap.String("product_id", id),
		zap.Int("stock", stock))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := h.DB.Delete(&model.Product{}, id)
	if result.Error != nil {
		log.Error("Failed to delete product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete product",
		})
	}

	if result.RowsAffected == 0 {
		log.Warn("Product not found for deletion",
			zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	h.invalidateCache(c)
	prometheus.RecordProductOperation("delete")

	log.Info("Product deleted successfully", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted",
	})
}

func (h *ProductHandler) invalidateCache(c echo.Context) {
	if err := h.Cache.Invalidate(c.Request().Context()); err != nil {
		logger.FromContext(c).Warn("Failed to invalidate product cache", zap.Error(err))
	}
}
