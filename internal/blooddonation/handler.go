package blooddonation

import (
	"net/http"
	"strconv"

	"MedLocator/internal/apperr"
	"MedLocator/internal/auth"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestHandler handles HTTP requests for the blood donation board.
type RequestHandler struct {
	service *RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service *RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// List is public. Query params: status, bloodType, urgency, hospital, page,
// limit.
func (h *RequestHandler) List(c echo.Context) error {
	filters := ListFilters{
		Status:    c.QueryParam("status"),
		BloodType: c.QueryParam("bloodType"),
		Urgency:   c.QueryParam("urgency"),
		Hospital:  c.QueryParam("hospital"),
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), filters, page, limit)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, result)
}

// Get is public and returns a single request including its donors.
func (h *RequestHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request ID"})
	}

	request, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, request)
}

// ByBloodType is public and rejects types outside the 8-value enum.
func (h *RequestHandler) ByBloodType(c echo.Context) error {
	requests, err := h.service.ByBloodType(c.Request().Context(), c.Param("type"))
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) Create(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	var input CreateRequestInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	request, err := h.service.Create(c.Request().Context(), principal, input)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusCreated, request)
}

func (h *RequestHandler) Update(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request ID"})
	}

	var input UpdateRequestInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	request, err := h.service.Update(c.Request().Context(), principal, id, input)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) Delete(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request ID"})
	}

	if err := h.service.Delete(c.Request().Context(), principal, id); err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Blood donation request deleted"})
}

// Respond records the caller as a donor on the request.
func (h *RequestHandler) Respond(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request ID"})
	}

	var input RespondInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	result, err := h.service.Respond(c.Request().Context(), principal, id, input)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, result)
}
