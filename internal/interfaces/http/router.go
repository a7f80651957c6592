package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appkennel "github.com/jhoicas/Refugio-api/internal/application/kennel"
	"github.com/jhoicas/Refugio-api/internal/application/usecase"
	"github.com/jhoicas/Refugio-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	KennelUC    *usecase.KennelUseCase
	AnimalUC    *usecase.AnimalUseCase
	MoveAnimal  *appkennel.MoveAnimalUseCase
	CanOverflow func(role string) bool
	JWTSecret   string
	Log         zerolog.Logger
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Kennels: alta y edición solo admin
	kennels := protected.Group("/kennels")
	kennelHandler := NewKennelHandler(deps.KennelUC, deps.Log)
	kennels.Post("/", RequireRole(entity.RoleAdmin), kennelHandler.Create)
	kennels.Get("/", kennelHandler.List)
	kennels.Get("/:id", kennelHandler.GetByID)
	kennels.Patch("/:id", RequireRole(entity.RoleAdmin), kennelHandler.Update)
	kennels.Get("/:id/occupancy", kennelHandler.Occupancy)

	// Animals y movimientos
	animals := protected.Group("/animals")
	animalHandler := NewAnimalHandler(deps.AnimalUC, deps.MoveAnimal, deps.CanOverflow, deps.Log)
	animals.Post("/", animalHandler.Register)
	animals.Get("/", animalHandler.List)
	animals.Get("/:id", animalHandler.GetByID)
	animals.Get("/:id/stays", animalHandler.History)
	animals.Post("/:id/move", animalHandler.Move)
}
