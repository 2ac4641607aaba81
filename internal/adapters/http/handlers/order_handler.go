package handlers

import (
	"errors"
	"strconv"

	"pharmasave/internal/core/services"
	"pharmasave/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles reservation endpoints
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateOrderRequest represents reserve request
type CreateOrderRequest struct {
	MedicineID uint `json:"medicine_id"`
	Quantity   int  `json:"quantity"`
}

// Create reserves stock for the caller
// @Summary Reserve medicine
// @Description Atomically decrement stock and create a reserved order
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateOrderRequest true "Reservation data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.MedicineID == 0 {
		return response.BadRequest(c, "Medicine is required")
	}
	if req.Quantity <= 0 {
		return response.BadRequest(c, "Quantity must be greater than 0")
	}

	userID, _ := c.Locals("userID").(uint)

	order, err := h.orderService.CreateOrder(c.Context(), userID, req.MedicineID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMedicineNotFound):
			return response.NotFound(c, "Medicine not found")
		case errors.Is(err, services.ErrInsufficientStock):
			return response.BadRequest(c, "Not enough stock available")
		case errors.Is(err, services.ErrInvalidQuantity):
			return response.BadRequest(c, "Quantity must be greater than 0")
		default:
			return response.InternalServerError(c, "Failed to create order")
		}
	}

	return response.Created(c, "Medicine reserved successfully", fiber.Map{
		"order": order.ToResponse(),
	})
}

// My returns the caller's orders
// @Summary My orders
// @Description The caller's orders with medicine and pharmacy details, newest first
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /orders/my [get]
func (h *OrderHandler) My(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	orders, err := h.orderService.ListMyOrders(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list orders")
	}

	return response.Success(c, "Orders retrieved successfully", fiber.Map{
		"orders": orders,
	})
}

// ByPharmacy returns a pharmacy's orders
// @Summary Pharmacy orders
// @Description A pharmacy's orders with medicine and user details, newest first
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pharmacyId path int true "Pharmacy ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /orders/pharmacy/{pharmacyId} [get]
func (h *OrderHandler) ByPharmacy(c *fiber.Ctx) error {
	pharmacyID, err := strconv.ParseUint(c.Params("pharmacyId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid pharmacy ID")
	}

	orders, err := h.orderService.ListPharmacyOrders(c.Context(), uint(pharmacyID))
	if err != nil {
		return response.InternalServerError(c, "Failed to list pharmacy orders")
	}

	return response.Success(c, "Orders retrieved successfully", fiber.Map{
		"orders": orders,
	})
}

// UpdateStatusRequest represents status update request
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order to picked or expired
// @Summary Update order status
// @Description Mark a reserved order as picked up or expired
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id} [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid order ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.orderService.UpdateStatus(c.Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			return response.BadRequest(c, "Invalid status")
		case errors.Is(err, services.ErrOrderNotFound):
			return response.NotFound(c, "Order not found")
		default:
			return response.InternalServerError(c, "Failed to update order")
		}
	}

	return response.Success(c, "Order updated successfully", fiber.Map{
		"order": order.ToResponse(),
	})
}
