package memory

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownOrderKey = errors.New("unknown order key")
)

// Record es cualquier registro con id entero asignado por el store. Los
// métodos devuelven copias: los modelos del dominio son structs por valor.
type Record[T any] interface {
	RecordID() int64
	WithRecordID(id int64) T
}

// SoftRecord agrega el flag de borrado lógico. Que una colección soporte
// baja lógica se decide acá, en el tipo, no consultando el registro en
// runtime: una colección de registros sin flag directamente no compila
// contra SoftCollection.
type SoftRecord[T any] interface {
	Record[T]
	IsActive() bool
	WithActive(active bool) T
}

// Collection es una tabla en memoria con ids autoincrementales. Las claves
// de orden se registran al construir el store: pedir una clave no registrada
// es error, no un fallback silencioso.
type Collection[T Record[T]] struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]T
	orders map[string]func(a, b T) bool
}

// Insert asigna el siguiente id y guarda. Nunca reutiliza ids, ni siquiera
// tras una baja.
func (c *Collection[T]) Insert(rec T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	rec = rec.WithRecordID(c.nextID)
	c.byID[rec.RecordID()] = rec
	return rec
}

func (c *Collection[T]) Get(id int64) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return rec, nil
}

// Replace pisa el registro completo. El id debe existir.
func (c *Collection[T]) Replace(rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[rec.RecordID()]; !ok {
		var zero T
		return zero, ErrNotFound
	}
	c.byID[rec.RecordID()] = rec
	return rec, nil
}

// Select devuelve los registros que pasan el filtro, por id ascendente.
// filter nil devuelve todo.
func (c *Collection[T]) Select(filter func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0)
	for _, rec := range c.byID {
		if filter == nil || filter(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordID() < out[j].RecordID()
	})
	return out
}

// RegisterOrder habilita una clave de orden. Se llama solo al armar el
// store, antes de usar la colección.
func (c *Collection[T]) RegisterOrder(key string, less func(a, b T) bool) {
	if c.orders == nil {
		c.orders = map[string]func(a, b T) bool{}
	}
	c.orders[key] = less
}

// SelectOrdered devuelve los registros que pasan el filtro, ordenados por la
// clave pedida con empates por id ascendente. Clave vacía ordena por id.
func (c *Collection[T]) SelectOrdered(orderKey string, filter func(T) bool) ([]T, error) {
	if orderKey == "" || orderKey == "id" {
		return c.Select(filter), nil
	}

	c.mu.RLock()
	less, ok := c.orders[orderKey]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownOrderKey
	}

	out := c.Select(filter)
	sort.SliceStable(out, func(i, j int) bool {
		if less(out[i], out[j]) {
			return true
		}
		if less(out[j], out[i]) {
			return false
		}
		return out[i].RecordID() < out[j].RecordID()
	})
	return out, nil
}

func (c *Collection[T]) Count(filter func(T) bool) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, rec := range c.byID {
		if filter == nil || filter(rec) {
			n++
		}
	}
	return n
}

// Snapshot copia el estado para la unidad de trabajo del driver memory.
func (c *Collection[T]) Snapshot() map[int64]T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cp := make(map[int64]T, len(c.byID))
	for id, rec := range c.byID {
		cp[id] = rec
	}
	return cp
}

func (c *Collection[T]) Restore(snap map[int64]T, nextID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byID = snap
	c.nextID = nextID
}

func (c *Collection[T]) NextID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nextID
}

// SoftCollection es una Collection cuyos registros soportan baja lógica.
type SoftCollection[T SoftRecord[T]] struct {
	Collection[T]
}

func NewSoftCollection[T SoftRecord[T]]() *SoftCollection[T] {
	return &SoftCollection[T]{Collection[T]{byID: make(map[int64]T)}}
}

// SoftDelete marca el registro como inactivo. Repetirlo no es error; el
// registro sigue recuperable por Get.
func (c *SoftCollection[T]) SoftDelete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.byID[id]
	if !ok {
		return ErrNotFound
	}
	if !rec.IsActive() {
		return nil
	}
	c.byID[id] = rec.WithActive(false)
	return nil
}

// SelectActive filtra además por el flag de actividad salvo que se pidan
// también las bajas.
func (c *SoftCollection[T]) SelectActive(includeInactive bool, filter func(T) bool) []T {
	return c.Select(func(rec T) bool {
		if !includeInactive && !rec.IsActive() {
			return false
		}
		return filter == nil || filter(rec)
	})
}

// SelectActiveOrdered combina el filtro de actividad con una clave de orden
// registrada.
func (c *SoftCollection[T]) SelectActiveOrdered(orderKey string, includeInactive bool, filter func(T) bool) ([]T, error) {
	return c.SelectOrdered(orderKey, func(rec T) bool {
		if !includeInactive && !rec.IsActive() {
			return false
		}
		return filter == nil || filter(rec)
	})
}
