// Package memory implementa los puertos de persistencia en memoria, con transacciones
// y bloqueos de fila equivalentes a SELECT FOR UPDATE. Útil para dev y tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/im7mortal/kmutex"

	appkennel "github.com/jhoicas/Refugio-api/internal/application/kennel"
	"github.com/jhoicas/Refugio-api/internal/domain/entity"
	"github.com/jhoicas/Refugio-api/internal/domain/repository"
)

var _ appkennel.TxRunner = (*Store)(nil)

// Store guarda el estado confirmado. Las transacciones acumulan escrituras y las aplican en Commit.
type Store struct {
	mu      sync.RWMutex
	animals map[string]entity.Animal
	kennels map[string]entity.Kennel
	stays   map[string]entity.KennelStay

	// rows: un mutex por fila ("animal:<id>", "kennel:<id>", "stay:<id>") retenido hasta el fin de la tx.
	rows *kmutex.Kmutex
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		animals: make(map[string]entity.Animal),
		kennels: make(map[string]entity.Kennel),
		stays:   make(map[string]entity.KennelStay),
		rows:    kmutex.New(),
	}
}

// Run ejecuta fn con repositorios atados a una transacción nueva.
// Si fn devuelve error se descartan las escrituras; los bloqueos se liberan siempre.
func (s *Store) Run(ctx context.Context, fn func(
	animalRepo repository.AnimalRepository,
	kennelRepo repository.KennelRepository,
	stayRepo repository.KennelStayRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	t := &tx{
		store:   s,
		held:    make(map[string]struct{}),
		animals: make(map[string]entity.Animal),
		kennels: make(map[string]entity.Kennel),
		stays:   make(map[string]entity.KennelStay),
	}
	defer t.release()

	if err := fn(&animalRepo{tx: t}, &kennelRepo{tx: t}, &stayRepo{tx: t}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	t.commit()
	return nil
}

// Animals devuelve un repositorio en modo autocommit (fuera de transacción).
func (s *Store) Animals() repository.AnimalRepository { return &animalRepo{tx: s.direct()} }

// Kennels devuelve un repositorio de caniles en modo autocommit.
func (s *Store) Kennels() repository.KennelRepository { return &kennelRepo{tx: s.direct()} }

// Stays devuelve un repositorio de estadías en modo autocommit.
func (s *Store) Stays() repository.KennelStayRepository { return &stayRepo{tx: s.direct()} }

func (s *Store) direct() *tx { return &tx{store: s, direct: true} }

// tx es una unidad de trabajo. En modo direct escribe directo al store y no bloquea filas.
type tx struct {
	store  *Store
	direct bool

	held  map[string]struct{}
	order []string

	animals map[string]entity.Animal
	kennels map[string]entity.Kennel
	stays   map[string]entity.KennelStay
}

// lock adquiere el bloqueo de fila; reentrante dentro de la misma tx.
func (t *tx) lock(key string) {
	if t.direct {
		return
	}
	if _, ok := t.held[key]; ok {
		return
	}
	t.store.rows.Lock(key)
	t.held[key] = struct{}{}
	t.order = append(t.order, key)
}

func (t *tx) release() {
	for i := len(t.order) - 1; i >= 0; i-- {
		t.store.rows.Unlock(t.order[i])
	}
	t.order = nil
	t.held = nil
}

func (t *tx) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id, a := range t.animals {
		t.store.animals[id] = a
	}
	for id, k := range t.kennels {
		t.store.kennels[id] = k
	}
	for id, st := range t.stays {
		t.store.stays[id] = st
	}
}

func (t *tx) animal(id string) (entity.Animal, bool) {
	if a, ok := t.animals[id]; ok {
		return a, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	a, ok := t.store.animals[id]
	return a, ok
}

func (t *tx) putAnimal(a entity.Animal) {
	if t.direct {
		t.store.mu.Lock()
		t.store.animals[a.ID] = a
		t.store.mu.Unlock()
		return
	}
	t.animals[a.ID] = a
}

func (t *tx) kennel(id string) (entity.Kennel, bool) {
	if k, ok := t.kennels[id]; ok {
		return k, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	k, ok := t.store.kennels[id]
	return k, ok
}

func (t *tx) putKennel(k entity.Kennel) {
	if t.direct {
		t.store.mu.Lock()
		t.store.kennels[k.ID] = k
		t.store.mu.Unlock()
		return
	}
	t.kennels[k.ID] = k
}

func (t *tx) putStay(st entity.KennelStay) {
	if t.direct {
		t.store.mu.Lock()
		t.store.stays[st.ID] = st
		t.store.mu.Unlock()
		return
	}
	t.stays[st.ID] = st
}

// allAnimals/allKennels/allStays: estado confirmado con las escrituras propias encima.
func (t *tx) allAnimals() []entity.Animal {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	out := make([]entity.Animal, 0, len(t.store.animals)+len(t.animals))
	for id, a := range t.store.animals {
		if staged, ok := t.animals[id]; ok {
			a = staged
		}
		out = append(out, a)
	}
	for id, a := range t.animals {
		if _, ok := t.store.animals[id]; !ok {
			out = append(out, a)
		}
	}
	return out
}

func (t *tx) allKennels() []entity.Kennel {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	out := make([]entity.Kennel, 0, len(t.store.kennels)+len(t.kennels))
	for id, k := range t.store.kennels {
		if staged, ok := t.kennels[id]; ok {
			k = staged
		}
		out = append(out, k)
	}
	for id, k := range t.kennels {
		if _, ok := t.store.kennels[id]; !ok {
			out = append(out, k)
		}
	}
	return out
}

func (t *tx) allStays() []entity.KennelStay {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	out := make([]entity.KennelStay, 0, len(t.store.stays)+len(t.stays))
	for id, st := range t.store.stays {
		if staged, ok := t.stays[id]; ok {
			st = staged
		}
		out = append(out, st)
	}
	for id, st := range t.stays {
		if _, ok := t.store.stays[id]; !ok {
			out = append(out, st)
		}
	}
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortByNewest[T any](items []T, at func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool { return at(items[i]) > at(items[j]) })
}
