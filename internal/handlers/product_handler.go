package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"dessertlab/internal/middleware"
	"dessertlab/internal/models"
	"dessertlab/internal/services"
)

// ProductHandler handles catalog browsing and admin product management.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", h.HandleBrowse)
	products.Get("/:id", h.HandleGetByID)

	admin := products.Group("", middleware.AdminRequired())
	admin.Post("/", h.HandleCreate)
	admin.Patch("/:id", h.HandleUpdate)
	admin.Delete("/:id", h.HandleDelete)
}

// HandleBrowse serves the search/sort/paginate catalog view.
func (h *ProductHandler) HandleBrowse(c *fiber.Ctx) error {
	query := services.CatalogQuery{
		Search:   c.Query("search"),
		Sort:     c.Query("sort", services.SortByName),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("limit", services.DefaultPageSize),
	}

	page, err := h.service.Browse(query)
	if err != nil {
		log.Printf("Error browsing products: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Something went wrong while fetching products",
		})
	}
	return c.JSON(page)
}

// HandleGetByID serves a single product.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	product, err := h.service.GetProductByID(id)
	if err != nil {
		log.Printf("Error getting product %s: %v", id, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", id),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
		})
	}
	return c.JSON(product)
}

// HandleCreate adds a product to the catalog (admin).
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate patches an existing product (admin).
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = c.Params("id")

	if err := h.validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if err := h.service.UpdateProduct(&product); err != nil {
		log.Printf("Error updating product %s: %v", product.ID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", product.ID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
		})
	}
	return c.JSON(product)
}

// HandleDelete removes a product (admin).
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(id); err != nil {
		log.Printf("Error deleting product %s: %v", id, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", id),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// validationMessages flattens validator errors into a field->message map.
func validationMessages(err error) map[string]string {
	out := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, e := range validationErrors {
		out[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' rule", e.Field(), e.Tag())
	}
	return out
}
