package handlers

import (
	"phonexchange_backend/storage"
	"phonexchange_backend/utils"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the trade-in reference data.
type CatalogHandler struct {
	Store storage.Store
}

func NewCatalogHandler(store storage.Store) *CatalogHandler {
	return &CatalogHandler{Store: store}
}

// GetBrands - GET /api/brands
func (h *CatalogHandler) GetBrands(c *fiber.Ctx) error {
	brands, err := h.Store.ListBrands(c.UserContext())
	if err != nil {
		return utils.NewStoreUnavailableError("list_brands", err)
	}
	return c.JSON(brands)
}

// GetModels - GET /api/models/:brand_id
//
// An unknown brand yields an empty list.
func (h *CatalogHandler) GetModels(c *fiber.Ctx) error {
	phoneModels, err := h.Store.ListModelsByBrand(c.UserContext(), c.Params("brand_id"))
	if err != nil {
		return utils.NewStoreUnavailableError("list_models", err)
	}
	return c.JSON(phoneModels)
}

// GetQuestions - GET /api/questions
func (h *CatalogHandler) GetQuestions(c *fiber.Ctx) error {
	questions, err := h.Store.ListQuestions(c.UserContext())
	if err != nil {
		return utils.NewStoreUnavailableError("list_questions", err)
	}
	return c.JSON(questions)
}
