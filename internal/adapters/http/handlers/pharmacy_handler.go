package handlers

import (
	"errors"
	"strconv"

	"pharmasave/internal/core/services"
	"pharmasave/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PharmacyHandler handles pharmacy endpoints
type PharmacyHandler struct {
	pharmacyService *services.PharmacyService
}

// NewPharmacyHandler creates a new pharmacy handler
func NewPharmacyHandler(pharmacyService *services.PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{
		pharmacyService: pharmacyService,
	}
}

// CreatePharmacyRequest represents create pharmacy request
type CreatePharmacyRequest struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Create creates a pharmacy for the caller
// @Summary Create pharmacy
// @Description Register the caller's pharmacy with its location
// @Tags Pharmacies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePharmacyRequest true "Pharmacy data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /pharmacies [post]
func (h *PharmacyHandler) Create(c *fiber.Ctx) error {
	var req CreatePharmacyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" || req.Address == "" || req.Latitude == nil || req.Longitude == nil {
		return response.BadRequest(c, "Name, address, latitude and longitude are required")
	}

	userID, _ := c.Locals("userID").(uint)

	pharmacy, err := h.pharmacyService.Create(c.Context(), userID, &services.CreatePharmacyInput{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to create pharmacy")
	}

	return response.Created(c, "Pharmacy created successfully", fiber.Map{
		"pharmacy": pharmacy,
	})
}

// Nearby returns pharmacies near a point
// @Summary Nearby pharmacies
// @Description Pharmacies within a radius of the point, nearest first
// @Tags Pharmacies
// @Accept json
// @Produce json
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Param distance query int false "Radius in meters" default(5000)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /pharmacies/nearby [get]
func (h *PharmacyHandler) Nearby(c *fiber.Ctx) error {
	latRaw := c.Query("latitude")
	lngRaw := c.Query("longitude")
	if latRaw == "" || lngRaw == "" {
		return response.BadRequest(c, "Latitude and longitude are required")
	}

	latitude, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid latitude")
	}
	longitude, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid longitude")
	}

	distance, _ := strconv.ParseFloat(c.Query("distance", "5000"), 64)

	pharmacies, err := h.pharmacyService.FindNearby(c.Context(), latitude, longitude, distance)
	if err != nil {
		return response.InternalServerError(c, "Failed to find nearby pharmacies")
	}

	return response.Success(c, "Pharmacies retrieved successfully", fiber.Map{
		"pharmacies": pharmacies,
	})
}

// My returns the caller's pharmacy
// @Summary My pharmacy
// @Description The pharmacy owned by the authenticated user
// @Tags Pharmacies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pharmacies/my [get]
func (h *PharmacyHandler) My(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	pharmacy, err := h.pharmacyService.FindByOwner(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrPharmacyNotLinked) {
			return response.NotFound(c, "Pharmacy not linked to this account")
		}
		return response.InternalServerError(c, "Failed to get pharmacy")
	}

	return response.Success(c, "Pharmacy retrieved successfully", fiber.Map{
		"pharmacy": pharmacy,
	})
}

// GetByID gets one pharmacy
// @Summary Get pharmacy by ID
// @Description One pharmacy record
// @Tags Pharmacies
// @Accept json
// @Produce json
// @Param id path int true "Pharmacy ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pharmacies/{id} [get]
func (h *PharmacyHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid pharmacy ID")
	}

	pharmacy, err := h.pharmacyService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrPharmacyNotFound) {
			return response.NotFound(c, "Pharmacy not found")
		}
		return response.InternalServerError(c, "Failed to get pharmacy")
	}

	return response.Success(c, "Pharmacy retrieved successfully", fiber.Map{
		"pharmacy": pharmacy,
	})
}
