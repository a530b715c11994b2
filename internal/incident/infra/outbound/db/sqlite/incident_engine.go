package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"

	"github.com/davicafu/flowquery/internal/incident/domain"
)

// IncidentEngine implementa el port del motor de consultas sobre SQLite.
// Es el backend por defecto (despliegue local, sin servicios externos).
type IncidentEngine struct {
	db *sql.DB
}

func NewIncidentEngine(db *sql.DB) *IncidentEngine {
	return &IncidentEngine{db: db}
}

// CreateIncidentQuery devuelve un handle virgen. El handle acumula filtros
// y orden y pertenece a una única petición.
func (e *IncidentEngine) CreateIncidentQuery() domain.IncidentQuery {
	return &incidentQuery{db: e.db}
}

// Verificación estática de los ports.
var (
	_ domain.IncidentEngine = (*IncidentEngine)(nil)
	_ domain.IncidentStore  = (*IncidentEngine)(nil)
)

// ------------------ Handle de consulta ------------------

type sortTerm struct {
	col  string
	desc bool
}

type incidentQuery struct {
	db    *sql.DB
	conds []string
	args  []interface{}
	order []sortTerm
}

var incidentSortColumns = map[domain.IncidentSortField]string{
	domain.SortIncidentID:          "id",
	domain.SortIncidentMessage:     "incident_message",
	domain.SortCreateTime:          "create_time",
	domain.SortEndTime:             "end_time",
	domain.SortIncidentType:        "incident_type",
	domain.SortExecutionID:         "execution_id",
	domain.SortActivityID:          "activity_id",
	domain.SortProcessInstanceID:   "process_instance_id",
	domain.SortProcessDefinitionID: "process_definition_id",
	domain.SortCauseIncidentID:     "cause_incident_id",
	domain.SortRootCauseIncidentID: "root_cause_incident_id",
	domain.SortConfiguration:       "configuration",
	domain.SortTenantID:            "tenant_id",
	domain.SortIncidentState:       "state",
}

func (q *incidentQuery) where(cond string, args ...interface{}) {
	q.conds = append(q.conds, cond)
	q.args = append(q.args, args...)
}

// ---------- Filtros ----------

func (q *incidentQuery) IncidentID(id string)          { q.where("id = ?", id) }
func (q *incidentQuery) IncidentType(t string)         { q.where("incident_type = ?", t) }
func (q *incidentQuery) IncidentMessage(m string)      { q.where("incident_message = ?", m) }
func (q *incidentQuery) ProcessDefinitionID(id string) { q.where("process_definition_id = ?", id) }
func (q *incidentQuery) ProcessInstanceID(id string)   { q.where("process_instance_id = ?", id) }
func (q *incidentQuery) ExecutionID(id string)         { q.where("execution_id = ?", id) }
func (q *incidentQuery) ActivityID(id string)          { q.where("activity_id = ?", id) }
func (q *incidentQuery) CauseIncidentID(id string)     { q.where("cause_incident_id = ?", id) }
func (q *incidentQuery) RootCauseIncidentID(id string) { q.where("root_cause_incident_id = ?", id) }
func (q *incidentQuery) Configuration(c string)        { q.where("configuration = ?", c) }
func (q *incidentQuery) Open()                         { q.where("state = ?", string(domain.StateOpen)) }
func (q *incidentQuery) Resolved()                     { q.where("state = ?", string(domain.StateResolved)) }
func (q *incidentQuery) Deleted()                      { q.where("state = ?", string(domain.StateDeleted)) }

func (q *incidentQuery) TenantIDIn(ids []string) {
	q.inList("tenant_id", ids)
}

func (q *incidentQuery) JobDefinitionIDIn(ids []string) {
	q.inList("job_definition_id", ids)
}

func (q *incidentQuery) inList(col string, values []string) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
	q.conds = append(q.conds, fmt.Sprintf("%s IN (%s)", col, placeholders))
	for _, v := range values {
		q.args = append(q.args, v)
	}
}

// ---------- Ordenación ----------

func (q *incidentQuery) OrderBy(field domain.IncidentSortField) {
	col, ok := incidentSortColumns[field]
	if !ok {
		return
	}
	q.order = append(q.order, sortTerm{col: col})
}

func (q *incidentQuery) Asc() {
	if len(q.order) > 0 {
		q.order[len(q.order)-1].desc = false
	}
}

func (q *incidentQuery) Desc() {
	if len(q.order) > 0 {
		q.order[len(q.order)-1].desc = true
	}
}

// ---------- Ejecución ----------

const incidentColumns = `id, incident_type, incident_message, create_time, end_time,
	execution_id, activity_id, process_instance_id, process_definition_id,
	cause_incident_id, root_cause_incident_id, configuration, tenant_id,
	job_definition_id, state`

func (q *incidentQuery) buildSelect(limit bool) string {
	var b strings.Builder
	b.WriteString("SELECT " + incidentColumns + " FROM historic_incident")
	b.WriteString(q.whereClause())
	if len(q.order) > 0 {
		terms := make([]string, 0, len(q.order))
		for _, t := range q.order {
			dir := "ASC"
			if t.desc {
				dir = "DESC"
			}
			terms = append(terms, t.col+" "+dir)
		}
		b.WriteString(" ORDER BY " + strings.Join(terms, ", "))
	}
	if limit {
		b.WriteString(" LIMIT ? OFFSET ?")
	}
	return b.String()
}

func (q *incidentQuery) whereClause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

func (q *incidentQuery) List(ctx context.Context) ([]*domain.HistoricIncident, error) {
	rows, err := q.db.QueryContext(ctx, q.buildSelect(false), q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIncidents(rows)
}

func (q *incidentQuery) ListPage(ctx context.Context, first, max int) ([]*domain.HistoricIncident, error) {
	args := append(append([]interface{}{}, q.args...), max, first)
	rows, err := q.db.QueryContext(ctx, q.buildSelect(true), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIncidents(rows)
}

func (q *incidentQuery) Count(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM historic_incident"+q.whereClause(), q.args...).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func scanIncidents(rows *sql.Rows) ([]*domain.HistoricIncident, error) {
	var incidents []*domain.HistoricIncident
	for rows.Next() {
		var in domain.HistoricIncident
		var idStr, state string
		var endTime sql.NullTime

		if err := rows.Scan(&idStr, &in.IncidentType, &in.IncidentMessage, &in.CreateTime, &endTime,
			&in.ExecutionID, &in.ActivityID, &in.ProcessInstanceID, &in.ProcessDefinitionID,
			&in.CauseIncidentID, &in.RootCauseIncidentID, &in.Configuration, &in.TenantID,
			&in.JobDefinitionID, &state); err != nil {
			return nil, err
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in DB: %w", err)
		}
		in.ID = id
		in.State = domain.IncidentState(state)
		if endTime.Valid {
			t := endTime.Time
			in.EndTime = &t
		}
		incidents = append(incidents, &in)
	}
	return incidents, rows.Err()
}

// ------------------ Store (ingesta) ------------------

// Save upsert de la foto del incidente.
func (e *IncidentEngine) Save(ctx context.Context, in *domain.HistoricIncident) error {
	var endTime interface{}
	if in.EndTime != nil {
		endTime = *in.EndTime
	}

	_, err := e.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO historic_incident (`+incidentColumns+`)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		in.ID.String(), in.IncidentType, in.IncidentMessage, in.CreateTime, endTime,
		in.ExecutionID, in.ActivityID, in.ProcessInstanceID, in.ProcessDefinitionID,
		in.CauseIncidentID, in.RootCauseIncidentID, in.Configuration, in.TenantID,
		in.JobDefinitionID, string(in.State),
	)
	if err != nil {
		return fmt.Errorf("failed to save incident: %w", err)
	}
	return nil
}

// InitSQLite crea la tabla historic_incident si no existe
func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS historic_incident (
            id TEXT PRIMARY KEY,
            incident_type TEXT NOT NULL,
            incident_message TEXT NOT NULL DEFAULT '',
            create_time DATETIME NOT NULL,
            end_time DATETIME,
            execution_id TEXT NOT NULL DEFAULT '',
            activity_id TEXT NOT NULL DEFAULT '',
            process_instance_id TEXT NOT NULL DEFAULT '',
            process_definition_id TEXT NOT NULL DEFAULT '',
            cause_incident_id TEXT NOT NULL DEFAULT '',
            root_cause_incident_id TEXT NOT NULL DEFAULT '',
            configuration TEXT NOT NULL DEFAULT '',
            tenant_id TEXT NOT NULL DEFAULT '',
            job_definition_id TEXT NOT NULL DEFAULT '',
            state TEXT NOT NULL
        )
    `)
	return err
}
