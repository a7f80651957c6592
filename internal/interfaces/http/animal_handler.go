package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Refugio-api/internal/application/dto"
	appkennel "github.com/jhoicas/Refugio-api/internal/application/kennel"
	"github.com/jhoicas/Refugio-api/internal/application/usecase"
	"github.com/jhoicas/Refugio-api/internal/domain/entity"
)

// AnimalHandler maneja animales, su historial y los movimientos entre caniles (protegido).
type AnimalHandler struct {
	uc          *usecase.AnimalUseCase
	move        *appkennel.MoveAnimalUseCase
	canOverflow func(role string) bool
	log         zerolog.Logger
}

// NewAnimalHandler construye el handler. canOverflow decide qué roles pueden enviar allow_overflow.
func NewAnimalHandler(uc *usecase.AnimalUseCase, move *appkennel.MoveAnimalUseCase, canOverflow func(role string) bool, log zerolog.Logger) *AnimalHandler {
	if canOverflow == nil {
		canOverflow = func(string) bool { return false }
	}
	return &AnimalHandler{uc: uc, move: move, canOverflow: canOverflow, log: log}
}

// Register godoc
// @Summary      Registrar animal
// @Tags         animals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterAnimalRequest  true  "Datos del animal"
// @Success      201   {object}  dto.AnimalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/animals [post]
func (h *AnimalHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterAnimalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Register(c.UserContext(), GetOrganizationID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener animal (incluye canil actual)
// @Tags         animals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del animal"
// @Success      200  {object}  dto.AnimalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/animals/{id} [get]
func (h *AnimalHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar animales
// @Tags         animals
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.AnimalListResponse
// @Router       /api/animals [get]
func (h *AnimalHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetOrganizationID(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de estadías del animal
// @Tags         animals
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del animal"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.StayListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/animals/{id}/stays [get]
func (h *AnimalHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), GetOrganizationID(c), c.Params("id"), pageFromQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Move godoc
// @Summary      Mover animal de canil
// @Description  kennel_id null retira al animal de su canil. allow_overflow requiere un rol habilitado.
// @Tags         animals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del animal"
// @Param        body  body  dto.MoveAnimalRequest  true  "Destino y motivo"
// @Success      200   {object}  dto.MoveAnimalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/animals/{id}/move [post]
func (h *AnimalHandler) Move(c *fiber.Ctx) error {
	var in dto.MoveAnimalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		in.Reason = entity.StayReasonTransfer
	}
	if !entity.IsValidStayReason(in.Reason) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason inválido"})
	}
	if in.AllowOverflow && !h.canOverflow(GetRole(c)) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "OVERFLOW_FORBIDDEN", Message: "el rol no puede exceder la capacidad del canil"})
	}

	res, err := h.move.MoveAnimal(c.UserContext(), appkennel.MoveInput{
		OrganizationID: GetOrganizationID(c),
		ActorUserID:    GetUserID(c),
		AnimalID:       c.Params("id"),
		TargetKennelID: in.KennelID,
		Reason:         in.Reason,
		Notes:          in.Notes,
		AllowOverflow:  in.AllowOverflow,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toMoveResponse(res))
}

func toMoveResponse(r *appkennel.MoveResult) dto.MoveAnimalResponse {
	return dto.MoveAnimalResponse{
		Status:   string(r.Status),
		AnimalID: r.AnimalID,
		KennelID: r.KennelID,
		From:     r.FromKennelID,
		To:       r.ToKennelID,
		Occupied: r.Occupied,
		Capacity: r.Capacity,
		StayID:   r.StayID,
		Overflow: r.Overflow,
	}
}
