package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Refugio-api/internal/application/dto"
	"github.com/jhoicas/Refugio-api/internal/application/usecase"
)

// KennelHandler maneja las peticiones HTTP de caniles (protegido).
type KennelHandler struct {
	uc  *usecase.KennelUseCase
	log zerolog.Logger
}

// NewKennelHandler construye el handler.
func NewKennelHandler(uc *usecase.KennelUseCase, log zerolog.Logger) *KennelHandler {
	return &KennelHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear canil
// @Tags         kennels
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateKennelRequest  true  "Datos del canil"
// @Success      201   {object}  dto.KennelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kennels [post]
func (h *KennelHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateKennelRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), GetOrganizationID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener canil por ID
// @Tags         kennels
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del canil"
// @Success      200  {object}  dto.KennelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kennels/{id} [get]
func (h *KennelHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar canil
// @Description  Cambiar el estado a maintenance o closed no desaloja a los animales alojados.
// @Tags         kennels
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del canil"
// @Param        body  body  dto.UpdateKennelRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.KennelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/kennels/{id} [patch]
func (h *KennelHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateKennelRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.UserContext(), GetOrganizationID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar caniles
// @Tags         kennels
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.KennelListResponse
// @Router       /api/kennels [get]
func (h *KennelHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetOrganizationID(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Occupancy godoc
// @Summary      Ocupación actual del canil
// @Tags         kennels
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del canil"
// @Success      200  {object}  dto.OccupancyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kennels/{id}/occupancy [get]
func (h *KennelHandler) Occupancy(c *fiber.Ctx) error {
	out, err := h.uc.Occupancy(c.UserContext(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
