package query

import "context"

// ---------------- Contrato de tipo de consulta ----------------

// Query es el contrato que cumple cada tipo de consulta concreto sobre su
// handle de motor H: validar campos de ordenación, aplicar sus filtros y
// aplicar cada criterio de ordenación. El binder, el resolver y el ejecutor
// genéricos solo operan a través de esta interfaz.
type Query[H any] interface {
	Sortable

	// ApplyFilters invoca en el handle una llamada de filtro por cada campo
	// asignado del holder. Los campos sin asignar no producen llamadas.
	ApplyFilters(h H)

	// ApplySort aplica un criterio ya validado. Se invoca una vez por
	// criterio, en el orden de la petición.
	ApplySort(h H, c SortCriterion)
}

// ---------------- Orquestación ----------------

// Search ejecuta el pipeline completo sobre una consulta ya ligada: valida
// la ordenación, obtiene un handle nuevo del motor, aplica filtros y orden,
// y ejecuta el listado. Si la ordenación no valida, el motor no se toca.
func Search[R any, H Handle[R]](ctx context.Context, q Query[H], newHandle func() H, criteria []SortCriterion, page Page) ([]R, error) {
	if err := ResolveSort(q, criteria); err != nil {
		return nil, err
	}

	h := newHandle()
	q.ApplyFilters(h)
	for _, c := range criteria {
		q.ApplySort(h, c)
	}

	return List[R](ctx, h, page)
}

// SearchCount ejecuta el mismo pipeline con la operación de cardinalidad.
// La ordenación se valida igual que en el listado, pero no se aplica al
// handle: no afecta a la cardinalidad. Una ordenación inválida rechaza la
// petición sin tocar el motor.
func SearchCount[R any, H Handle[R]](ctx context.Context, q Query[H], newHandle func() H, criteria []SortCriterion) (int64, error) {
	if err := ResolveSort(q, criteria); err != nil {
		return 0, err
	}

	h := newHandle()
	q.ApplyFilters(h)
	return Count[R](ctx, h)
}
