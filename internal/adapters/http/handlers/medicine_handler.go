package handlers

import (
	"errors"
	"strconv"
	"time"

	"pharmasave/internal/adapters/persistence/models"
	"pharmasave/internal/core/services"
	"pharmasave/internal/pkg/pagination"
	"pharmasave/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// MedicineHandler handles medicine endpoints
type MedicineHandler struct {
	medicineService *services.MedicineService
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(medicineService *services.MedicineService) *MedicineHandler {
	return &MedicineHandler{
		medicineService: medicineService,
	}
}

// CreateMedicineRequest represents create medicine request. PharmacyID
// is the legacy explicit path; when absent the pharmacy is resolved
// from the caller.
type CreateMedicineRequest struct {
	Name          string          `json:"name"`
	Brand         string          `json:"brand"`
	PharmacyID    uint            `json:"pharmacy_id,omitempty"`
	ExpiryDate    string          `json:"expiry_date"`
	Quantity      int             `json:"quantity"`
	OriginalPrice decimal.Decimal `json:"original_price"`
}

// Create creates a medicine for the caller's pharmacy
// @Summary Create medicine
// @Description List near-expiry stock for the caller's pharmacy
// @Tags Medicines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateMedicineRequest true "Medicine data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /medicines [post]
func (h *MedicineHandler) Create(c *fiber.Ctx) error {
	var req CreateMedicineRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Brand == "" {
		return response.BadRequest(c, "Brand is required")
	}
	if req.Quantity <= 0 {
		return response.BadRequest(c, "Quantity must be greater than 0")
	}
	if req.OriginalPrice.LessThanOrEqual(decimal.Zero) {
		return response.BadRequest(c, "Original price must be greater than 0")
	}

	expiryDate, err := parseDate(req.ExpiryDate)
	if err != nil {
		return response.BadRequest(c, "Expiry date must be YYYY-MM-DD")
	}

	input := &services.CreateMedicineInput{
		Name:          req.Name,
		Brand:         req.Brand,
		PharmacyID:    req.PharmacyID,
		ExpiryDate:    expiryDate,
		Quantity:      req.Quantity,
		OriginalPrice: req.OriginalPrice,
	}

	userID, _ := c.Locals("userID").(uint)

	var (
		medicine *models.Medicine
		svcErr   error
	)
	if req.PharmacyID != 0 {
		medicine, svcErr = h.medicineService.Create(c.Context(), input)
	} else {
		medicine, svcErr = h.medicineService.CreateForOwner(c.Context(), userID, input)
	}

	if svcErr != nil {
		switch {
		case errors.Is(svcErr, services.ErrPharmacyNotFound):
			return response.NotFound(c, "Pharmacy not found")
		case errors.Is(svcErr, services.ErrPharmacyNotLinked):
			return response.NotFound(c, "Pharmacy not linked to this account")
		default:
			return response.InternalServerError(c, "Failed to create medicine")
		}
	}

	return response.Created(c, "Medicine created successfully", fiber.Map{
		"medicine": medicine.ToResponse(),
	})
}

// List lists all medicines, priority-sorted
// @Summary List medicines
// @Description All medicines, near-expiry and deepest-discount first
// @Tags Medicines
// @Accept json
// @Produce json
// @Param page query int false "Page number (with limit)"
// @Param limit query int false "Items per page; omit for the full set"
// @Success 200 {object} response.Response
// @Router /medicines [get]
func (h *MedicineHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.medicineService.ListAll(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list medicines")
	}

	return response.Success(c, "Medicines retrieved successfully", result)
}

// Search searches medicines by name and filters
// @Summary Search medicines
// @Description Filter by name substring, near-expiry and high-discount flags
// @Tags Medicines
// @Accept json
// @Produce json
// @Param q query string false "Name substring (case-insensitive)"
// @Param nearExpiry query bool false "Only near-expiry stock"
// @Param highDiscount query bool false "Only discounts of 50% or more"
// @Success 200 {object} response.Response
// @Router /medicines/search [get]
func (h *MedicineHandler) Search(c *fiber.Ctx) error {
	input := &services.SearchInput{
		Query:            c.Query("q"),
		NearExpiryOnly:   c.Query("nearExpiry") == "true",
		HighDiscountOnly: c.Query("highDiscount") == "true",
	}

	medicines, err := h.medicineService.Search(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to search medicines")
	}

	return response.Success(c, "Medicines retrieved successfully", fiber.Map{
		"medicines": medicines,
	})
}

// GetByID gets one medicine
// @Summary Get medicine by ID
// @Description One medicine with its pharmacy name and address
// @Tags Medicines
// @Accept json
// @Produce json
// @Param id path int true "Medicine ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /medicines/{id} [get]
func (h *MedicineHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid medicine ID")
	}

	medicine, err := h.medicineService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrMedicineNotFound) {
			return response.NotFound(c, "Medicine not found")
		}
		return response.InternalServerError(c, "Failed to get medicine")
	}

	return response.Success(c, "Medicine retrieved successfully", fiber.Map{
		"medicine": medicine.ToResponse(),
	})
}

// parseDate parses a calendar date, accepting a bare date or RFC 3339
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
