package kennel

import (
	"strings"

	"github.com/jhoicas/Refugio-api/internal/domain"
	"github.com/jhoicas/Refugio-api/internal/domain/entity"
)

// NormalizeSpecies lleva la especie a la forma con que se indexan los overrides.
func NormalizeSpecies(species string) string {
	return strings.ToLower(strings.TrimSpace(species))
}

// EffectiveCapacity implementa el resolvedor de capacidad (servicio de dominio, sin I/O).
// Capacidad = CapacityRules.BySpecies[especie] si existe, si no Kennel.Capacity.
func EffectiveCapacity(k *entity.Kennel, species string) int {
	if c, ok := k.CapacityRules.BySpecies[NormalizeSpecies(species)]; ok {
		return c
	}
	return k.Capacity
}

// NormalizeCapacityRules valida y normaliza los overrides al momento de escribir el canil,
// de modo que la lectura no necesite conversiones defensivas.
func NormalizeCapacityRules(rules map[string]int) (entity.CapacityRules, error) {
	if len(rules) == 0 {
		return entity.CapacityRules{}, nil
	}
	out := make(map[string]int, len(rules))
	for species, capacity := range rules {
		key := NormalizeSpecies(species)
		if key == "" || capacity < 1 {
			return entity.CapacityRules{}, domain.ErrInvalidInput
		}
		if _, dup := out[key]; dup {
			return entity.CapacityRules{}, domain.ErrInvalidInput
		}
		out[key] = capacity
	}
	return entity.CapacityRules{BySpecies: out}, nil
}
