package auth

import (
	"errors"
	"net/http"

	"MedLocator/internal/apperr"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthHandler struct {
	service *UserService
}

func NewAuthHandler(service *UserService) *AuthHandler {
	return &AuthHandler{service: service}
}

// PrincipalFromContext converts the JWT claims stored by the middleware into
// an explicit Principal for service calls.
func PrincipalFromContext(c echo.Context) (Principal, error) {
	claims, ok := c.Get("user").(*JWTClaims)
	if !ok || claims == nil {
		return Principal{}, errors.New("missing user claims")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return Principal{}, errors.New("invalid user id in token")
	}
	return Principal{ID: id, Role: claims.Role}, nil
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid Request"})
	}

	err := h.service.RegisterUser(c.Request().Context(), req)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var cred Credential
	if err := c.Bind(&cred); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	token, err := h.service.AuthenticateUser(c.Request().Context(), cred)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": apperr.Message(err)})
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	principal, err := PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	user, err := h.service.GetProfile(c.Request().Context(), principal.ID)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateDonorProfile(c echo.Context) error {
	principal, err := PrincipalFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	var req DonorProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	profile, err := h.service.UpdateDonorProfile(c.Request().Context(), principal, req)
	if err != nil {
		return c.JSON(apperr.Status(err), map[string]string{"error": apperr.Message(err)})
	}
	return c.JSON(http.StatusOK, profile)
}
