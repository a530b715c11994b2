package query

import (
	"context"
	"fmt"
	"math"
)

// ---------------- Paginación ----------------

// Page delimita el resultado. Ambos límites son opcionales: la ausencia de
// los dos selecciona el listado sin acotar, que es una operación distinta
// del motor (no una página con valores por defecto).
type Page struct {
	First *int // firstResult; ausente => 0 en la ruta paginada
	Max   *int // maxResults; ausente => sin tope en la ruta paginada
}

// Bounded indica si hay que usar la ruta paginada del motor.
func (p Page) Bounded() bool {
	return p.First != nil || p.Max != nil
}

// ---------------- Handle del motor ----------------

// Handle reúne las operaciones terminales que ofrece cualquier consulta ya
// construida contra el motor. Cada handle pertenece en exclusiva a la
// petición que lo creó: no se comparte ni se reutiliza.
type Handle[R any] interface {
	List(ctx context.Context) ([]R, error)
	ListPage(ctx context.Context, first, max int) ([]R, error)
	Count(ctx context.Context) (int64, error)
}

// EngineError envuelve un rechazo del motor al ejecutar la consulta ya
// construida. No se reintenta.
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("query engine rejected the query: %v", e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// ---------------- Ejecución ----------------

// List ejecuta el listado eligiendo la ruta según la presencia de los
// límites de page, no según sus valores.
func List[R any](ctx context.Context, h Handle[R], page Page) ([]R, error) {
	if !page.Bounded() {
		results, err := h.List(ctx)
		if err != nil {
			return nil, &EngineError{Err: err}
		}
		return results, nil
	}

	first, max := 0, math.MaxInt32
	if page.First != nil {
		first = *page.First
	}
	if page.Max != nil {
		max = *page.Max
	}

	results, err := h.ListPage(ctx, first, max)
	if err != nil {
		return nil, &EngineError{Err: err}
	}
	return results, nil
}

// Count ejecuta la operación de cardinalidad.
func Count[R any](ctx context.Context, h Handle[R]) (int64, error) {
	n, err := h.Count(ctx)
	if err != nil {
		return 0, &EngineError{Err: err}
	}
	return n, nil
}
