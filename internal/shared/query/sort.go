package query

import "fmt"

// ---------------- Criterios de ordenación ----------------

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortCriterion es un criterio de ordenación pedido por el cliente. El
// primero es el principal; los siguientes desempatan.
type SortCriterion struct {
	Field string
	Order SortOrder
}

// Nombres de los parámetros de ordenación.
const (
	ParamSortBy    = "sortBy"
	ParamSortOrder = "sortOrder"
)

// ---------------- Error de validación ----------------

// SortError rechaza una ordenación mal formada o un campo fuera de la
// whitelist del tipo de consulta. Se produce antes de tocar el motor.
type SortError struct {
	QueryType string
	Field     string
	Reason    string
}

func (e *SortError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("cannot sort %s query by %q: field is not sortable", e.QueryType, e.Field)
	}
	return fmt.Sprintf("invalid sort request: %s", e.Reason)
}

// ---------------- Parseo y resolución ----------------

// ParseSort empareja por posición las apariciones de sortBy y sortOrder,
// conservando el orden de la petición. Un sortOrder sin su sortBy es un
// error; un sortBy sin sortOrder ordena ascendente.
func ParseSort(params Params) ([]SortCriterion, error) {
	fields := params[ParamSortBy]
	orders := params[ParamSortOrder]

	if len(orders) > len(fields) {
		return nil, &SortError{Reason: "sortOrder specified without a matching sortBy"}
	}
	if len(fields) == 0 {
		return nil, nil
	}

	criteria := make([]SortCriterion, 0, len(fields))
	for i, f := range fields {
		order := SortAsc
		if i < len(orders) {
			switch SortOrder(orders[i]) {
			case SortAsc, SortDesc:
				order = SortOrder(orders[i])
			default:
				return nil, &SortError{Reason: fmt.Sprintf("sortOrder must be %q or %q, got %q", SortAsc, SortDesc, orders[i])}
			}
		}
		criteria = append(criteria, SortCriterion{Field: f, Order: order})
	}
	return criteria, nil
}

// Sortable lo implementa cada tipo de consulta: expone su nombre y la
// pertenencia de un campo a su whitelist de ordenación.
type Sortable interface {
	QueryType() string
	IsValidSortField(field string) bool
}

// ResolveSort valida todos los criterios contra la whitelist del tipo de
// consulta. Rechaza en el primer campo inválido; no reordena ni deduplica
// (un campo repetido se aplica dos veces, lo cual es inocuo).
func ResolveSort(q Sortable, criteria []SortCriterion) error {
	for _, c := range criteria {
		if !q.IsValidSortField(c.Field) {
			return &SortError{QueryType: q.QueryType(), Field: c.Field}
		}
	}
	return nil
}
