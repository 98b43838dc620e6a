package pharmacy

import (
	"net/http"
	"strconv"

	"MedLocator/internal/apperr"
	"MedLocator/internal/auth"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PharmacyHandler struct {
	service *PharmacyService
}

func NewPharmacyHandler(service *PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{service: service}
}

func (h *PharmacyHandler) Create(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	var req CreatePharmacyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	pharmacy, err := h.service.Create(c.Request().Context(), principal, req)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusCreated, pharmacy)
}

func (h *PharmacyHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid pharmacy ID"})
	}

	pharmacy, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, pharmacy)
}

func (h *PharmacyHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), c.QueryParam("name"), c.QueryParam("city"), page, limit)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *PharmacyHandler) Update(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid pharmacy ID"})
	}

	var req UpdatePharmacyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	pharmacy, err := h.service.Update(c.Request().Context(), principal, id, req)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, pharmacy)
}

func (h *PharmacyHandler) Delete(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid pharmacy ID"})
	}

	if err := h.service.Delete(c.Request().Context(), principal, id); err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Pharmacy deleted"})
}
