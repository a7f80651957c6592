package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Refugio-api/internal/application/dto"
	"github.com/jhoicas/Refugio-api/internal/domain"
)

// respondError traduce errores de dominio a respuestas HTTP. Lo no reconocido es 500 y se loguea.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var capErr *domain.CapacityExceededError
	switch {
	case errors.As(err, &capErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "CAPACITY_EXCEEDED",
			Message: "el canil no tiene lugar para la especie",
			Details: map[string]any{
				"kennel_id": capErr.KennelID,
				"species":   capErr.Species,
				"occupied":  capErr.Occupied,
				"capacity":  capErr.Capacity,
			},
		})
	case errors.Is(err, domain.ErrAnimalNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ANIMAL_NOT_FOUND", Message: "animal no encontrado"})
	case errors.Is(err, domain.ErrKennelNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "KENNEL_NOT_FOUND", Message: "canil no encontrado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrKennelUnavailable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "KENNEL_UNAVAILABLE", Message: "el canil está en mantenimiento o cerrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
