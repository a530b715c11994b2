package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/davicafu/flowquery/internal/incident/domain"
)

// IncidentEngine implementa el port del motor de consultas sobre Postgres.
type IncidentEngine struct {
	db *sql.DB
}

func NewIncidentEngine(db *sql.DB) *IncidentEngine {
	return &IncidentEngine{db: db}
}

func (e *IncidentEngine) CreateIncidentQuery() domain.IncidentQuery {
	return &incidentQuery{db: e.db}
}

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

// eq añade una condición de igualdad con placeholder posicional ($n).
func (q *incidentQuery) eq(col string, value interface{}) {
	q.args = append(q.args, value)
	q.conds = append(q.conds, fmt.Sprintf("%s = $%d", col, len(q.args)))
}

// ---------- Filtros ----------

func (q *incidentQuery) IncidentID(id string)          { q.eq("id", id) }
func (q *incidentQuery) IncidentType(t string)         { q.eq("incident_type", t) }
func (q *incidentQuery) IncidentMessage(m string)      { q.eq("incident_message", m) }
func (q *incidentQuery) ProcessDefinitionID(id string) { q.eq("process_definition_id", id) }
func (q *incidentQuery) ProcessInstanceID(id string)   { q.eq("process_instance_id", id) }
func (q *incidentQuery) ExecutionID(id string)         { q.eq("execution_id", id) }
func (q *incidentQuery) ActivityID(id string)          { q.eq("activity_id", id) }
func (q *incidentQuery) CauseIncidentID(id string)     { q.eq("cause_incident_id", id) }
func (q *incidentQuery) RootCauseIncidentID(id string) { q.eq("root_cause_incident_id", id) }
func (q *incidentQuery) Configuration(c string)        { q.eq("configuration", c) }
func (q *incidentQuery) Open()                         { q.eq("state", string(domain.StateOpen)) }
func (q *incidentQuery) Resolved()                     { q.eq("state", string(domain.StateResolved)) }
func (q *incidentQuery) Deleted()                      { q.eq("state", string(domain.StateDeleted)) }

func (q *incidentQuery) TenantIDIn(ids []string)        { q.inList("tenant_id", ids) }
func (q *incidentQuery) JobDefinitionIDIn(ids []string) { q.inList("job_definition_id", ids) }

func (q *incidentQuery) inList(col string, values []string) {
	placeholders := make([]string, 0, len(values))
	for _, v := range values {
		q.args = append(q.args, v)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(q.args)))
	}
	q.conds = append(q.conds, fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ",")))
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

func (q *incidentQuery) whereClause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

func (q *incidentQuery) orderClause() string {
	if len(q.order) == 0 {
		return ""
	}
	terms := make([]string, 0, len(q.order))
	for _, t := range q.order {
		dir := "ASC"
		if t.desc {
			dir = "DESC"
		}
		terms = append(terms, t.col+" "+dir)
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func (q *incidentQuery) List(ctx context.Context) ([]*domain.HistoricIncident, error) {
	sqlStr := "SELECT " + incidentColumns + " FROM historic_incident" + q.whereClause() + q.orderClause()
	rows, err := q.db.QueryContext(ctx, sqlStr, q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIncidents(rows)
}

func (q *incidentQuery) ListPage(ctx context.Context, first, max int) ([]*domain.HistoricIncident, error) {
	args := append(append([]interface{}{}, q.args...), max, first)
	sqlStr := fmt.Sprintf("SELECT %s FROM historic_incident%s%s LIMIT $%d OFFSET $%d",
		incidentColumns, q.whereClause(), q.orderClause(), len(q.args)+1, len(q.args)+2)
	rows, err := q.db.QueryContext(ctx, sqlStr, args...)
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

func (e *IncidentEngine) Save(ctx context.Context, in *domain.HistoricIncident) error {
	var endTime interface{}
	if in.EndTime != nil {
		endTime = *in.EndTime
	}

	_, err := e.db.ExecContext(ctx,
		`INSERT INTO historic_incident (`+incidentColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 ON CONFLICT (id) DO UPDATE SET
		   incident_message = EXCLUDED.incident_message,
		   end_time = EXCLUDED.end_time,
		   state = EXCLUDED.state`,
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

// InitPostgres crea la tabla historic_incident si no existe
func InitPostgres(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS historic_incident (
            id TEXT PRIMARY KEY,
            incident_type TEXT NOT NULL,
            incident_message TEXT NOT NULL DEFAULT '',
            create_time TIMESTAMPTZ NOT NULL,
            end_time TIMESTAMPTZ,
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
