package medication

import (
	"net/http"
	"strconv"

	"MedLocator/internal/apperr"
	"MedLocator/internal/auth"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MedicationHandler struct {
	service *MedicationService
}

func NewMedicationHandler(service *MedicationService) *MedicationHandler {
	return &MedicationHandler{service: service}
}

func (h *MedicationHandler) Create(c echo.Context) error {
	if _, err := auth.PrincipalFromContext(c); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	var req CreateMedicationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	medication, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusCreated, medication)
}

func (h *MedicationHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid medication ID"})
	}

	medication, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, medication)
}

func (h *MedicationHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), c.QueryParam("name"), c.QueryParam("category"), page, limit)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *MedicationHandler) Update(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid medication ID"})
	}

	var req UpdateMedicationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	medication, err := h.service.Update(c.Request().Context(), principal, id, req)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, medication)
}

func (h *MedicationHandler) Delete(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid medication ID"})
	}

	if err := h.service.Delete(c.Request().Context(), principal, id); err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Medication deleted"})
}

// UpdateStock upserts availability and pricing for one pharmacy.
func (h *MedicationHandler) UpdateStock(c echo.Context) error {
	principal, err := auth.PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid medication ID"})
	}

	var req UpdateStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	medication, err := h.service.UpsertStock(c.Request().Context(), principal, id, req)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, medication)
}
