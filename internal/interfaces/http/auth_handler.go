package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/MateriasPrimas-api/internal/application/auth"
	"github.com/jhoicas/MateriasPrimas-api/internal/application/dto"
	"github.com/jhoicas/MateriasPrimas-api/internal/domain"
)

// AuthHandler maneja el login del operador del panel.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

type loginRequest struct {
	User     string `json:"user" form:"user"`
	Password string `json:"password" form:"password"`
}

// Login godoc
// @Summary      Login del operador
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "user y password"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	token, err := h.uc.Login(in.User, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error generando token"})
	}
	return c.JSON(fiber.Map{"token": token})
}
