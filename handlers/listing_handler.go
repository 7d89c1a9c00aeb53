package handlers

import (
	"errors"
	"strconv"

	"phonexchange_backend/models"
	"phonexchange_backend/storage"
	"phonexchange_backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ListingHandler struct {
	Store storage.Store
}

func NewListingHandler(store storage.Store) *ListingHandler {
	return &ListingHandler{Store: store}
}

// GetPhonesForSale - GET /api/phones-for-sale?brand=&min_price=&max_price=
func (h *ListingHandler) GetPhonesForSale(c *fiber.Ctx) error {
	filter := models.ListingFilter{Brand: c.Query("brand")}

	// Filter by price range, bounds inclusive
	var err error
	if filter.MinPrice, err = priceParam(c, "min_price"); err != nil {
		return err
	}
	if filter.MaxPrice, err = priceParam(c, "max_price"); err != nil {
		return err
	}

	listings, err := h.Store.ListListings(c.UserContext(), filter)
	if err != nil {
		return utils.NewStoreUnavailableError("list_listings", err)
	}
	return c.JSON(listings)
}

// GetPhoneForSale - GET /api/phones-for-sale/:id
func (h *ListingHandler) GetPhoneForSale(c *fiber.Ctx) error {
	id := c.Params("id")
	listing, err := h.Store.GetListing(c.UserContext(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return utils.NewNotFoundError("Phone not found", "id: "+id)
	}
	if err != nil {
		return utils.NewStoreUnavailableError("get_listing", err)
	}
	return c.JSON(listing)
}

func priceParam(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, invalidField(name, "must be an integer")
	}
	return &v, nil
}
