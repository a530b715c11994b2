package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"

	"github.com/davicafu/flowquery/internal/incident/domain"
)

// IncidentEngine implementa el motor de consultas sobre ClickHouse para
// despliegues con histórico muy voluminoso. La tabla es un espejo
// analítico: ReplacingMergeTree por id, de modo que la foto resuelta
// sustituye a la abierta al compactar. Las lecturas no usan FINAL, así que
// la precisión es la propia de una tabla analítica.
type IncidentEngine struct {
	db *sql.DB
}

// NewIncidentEngine abre la conexión y comprueba el ping.
func NewIncidentEngine(addr string, dbName string) (*IncidentEngine, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &IncidentEngine{db: conn}, nil
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

func (q *incidentQuery) where(cond string, args ...interface{}) {
	q.conds = append(q.conds, cond)
	q.args = append(q.args, args...)
}

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

func (q *incidentQuery) TenantIDIn(ids []string)        { q.inList("tenant_id", ids) }
func (q *incidentQuery) JobDefinitionIDIn(ids []string) { q.inList("job_definition_id", ids) }

func (q *incidentQuery) inList(col string, values []string) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
	q.conds = append(q.conds, fmt.Sprintf("%s IN (%s)", col, placeholders))
	for _, v := range values {
		q.args = append(q.args, v)
	}
}

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
	sqlStr := "SELECT " + incidentColumns + " FROM historic_incident" + q.whereClause() + q.orderClause() +
		" LIMIT ? OFFSET ?"
	rows, err := q.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIncidents(rows)
}

func (q *incidentQuery) Count(ctx context.Context) (int64, error) {
	var n uint64
	err := q.db.QueryRowContext(ctx, "SELECT count() FROM historic_incident"+q.whereClause(), q.args...).Scan(&n)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
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
			return nil, fmt.Errorf("invalid UUID in clickhouse: %w", err)
		}
		in.ID = id
		in.State = domain.IncidentState(state)
		if endTime.Valid && !endTime.Time.Equal(time.Unix(0, 0)) {
			t := endTime.Time
			in.EndTime = &t
		}
		incidents = append(incidents, &in)
	}
	return incidents, rows.Err()
}

// ------------------ Store (ingesta) ------------------

// Save inserta la foto; ReplacingMergeTree se queda con la versión más
// reciente por id al compactar.
func (e *IncidentEngine) Save(ctx context.Context, in *domain.HistoricIncident) error {
	endTime := time.Unix(0, 0)
	if in.EndTime != nil {
		endTime = *in.EndTime
	}

	_, err := e.db.ExecContext(ctx,
		"INSERT INTO historic_incident ("+incidentColumns+", ingested_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)",
		in.ID.String(), in.IncidentType, in.IncidentMessage, in.CreateTime, endTime,
		in.ExecutionID, in.ActivityID, in.ProcessInstanceID, in.ProcessDefinitionID,
		in.CauseIncidentID, in.RootCauseIncidentID, in.Configuration, in.TenantID,
		in.JobDefinitionID, string(in.State), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert incident: %w", err)
	}
	return nil
}

// InitSchema crea la tabla en ClickHouse si no existe.
func (e *IncidentEngine) InitSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS historic_incident (
			id                     String,
			incident_type          String,
			incident_message       String,
			create_time            DateTime64(3),
			end_time               DateTime64(3),
			execution_id           String,
			activity_id            String,
			process_instance_id    String,
			process_definition_id  String,
			cause_incident_id      String,
			root_cause_incident_id String,
			configuration          String,
			tenant_id              String,
			job_definition_id      String,
			state                  String,
			ingested_at            DateTime64(3)
		) ENGINE = ReplacingMergeTree(ingested_at)
		PARTITION BY toYYYYMM(create_time)
		ORDER BY (id);
	`
	_, err := e.db.Exec(query)
	return err
}
