package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/davicafu/flowquery/internal/instance/domain"
)

// InstanceEngine implementa el motor de consultas de instancias sobre
// SQLite (backend por defecto).
type InstanceEngine struct {
	db *sql.DB
}

func NewInstanceEngine(db *sql.DB) *InstanceEngine {
	return &InstanceEngine{db: db}
}

func (e *InstanceEngine) CreateInstanceQuery() domain.InstanceQuery {
	return &instanceQuery{db: e.db}
}

var (
	_ domain.InstanceEngine = (*InstanceEngine)(nil)
	_ domain.InstanceStore  = (*InstanceEngine)(nil)
)

// ------------------ Handle de consulta ------------------

type sortTerm struct {
	col  string
	desc bool
}

type instanceQuery struct {
	db    *sql.DB
	conds []string
	args  []interface{}
	order []sortTerm
}

var instanceSortColumns = map[domain.InstanceSortField]string{
	domain.SortInstanceID:    "id",
	domain.SortDefinitionID:  "process_definition_id",
	domain.SortDefinitionKey: "process_definition_key",
	domain.SortBusinessKey:   "business_key",
	domain.SortTenantID:      "tenant_id",
}

func (q *instanceQuery) where(cond string, args ...interface{}) {
	q.conds = append(q.conds, cond)
	q.args = append(q.args, args...)
}

// ---------- Filtros ----------

func (q *instanceQuery) BusinessKey(key string)          { q.where("business_key = ?", key) }
func (q *instanceQuery) ProcessDefinitionID(id string)   { q.where("process_definition_id = ?", id) }
func (q *instanceQuery) ProcessDefinitionKey(key string) { q.where("process_definition_key = ?", key) }
func (q *instanceQuery) SuperProcessInstance(id string)  { q.where("super_process_instance_id = ?", id) }
func (q *instanceQuery) SubProcessInstance(id string)    { q.where("sub_process_instance_id = ?", id) }
func (q *instanceQuery) Active()                         { q.where("suspended = 0") }
func (q *instanceQuery) Suspended()                      { q.where("suspended = 1") }

func (q *instanceQuery) TenantIDIn(ids []string) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	q.conds = append(q.conds, fmt.Sprintf("tenant_id IN (%s)", placeholders))
	for _, id := range ids {
		q.args = append(q.args, id)
	}
}

// ---------- Ordenación ----------

func (q *instanceQuery) OrderBy(field domain.InstanceSortField) {
	col, ok := instanceSortColumns[field]
	if !ok {
		return
	}
	q.order = append(q.order, sortTerm{col: col})
}

func (q *instanceQuery) Asc() {
	if len(q.order) > 0 {
		q.order[len(q.order)-1].desc = false
	}
}

func (q *instanceQuery) Desc() {
	if len(q.order) > 0 {
		q.order[len(q.order)-1].desc = true
	}
}

// ---------- Ejecución ----------

const instanceColumns = `id, business_key, process_definition_id, process_definition_key,
	super_process_instance_id, sub_process_instance_id, tenant_id, suspended, start_time`

func (q *instanceQuery) whereClause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

func (q *instanceQuery) orderClause() string {
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

func (q *instanceQuery) List(ctx context.Context) ([]*domain.ProcessInstance, error) {
	sqlStr := "SELECT " + instanceColumns + " FROM process_instance" + q.whereClause() + q.orderClause()
	rows, err := q.db.QueryContext(ctx, sqlStr, q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInstances(rows)
}

func (q *instanceQuery) ListPage(ctx context.Context, first, max int) ([]*domain.ProcessInstance, error) {
	args := append(append([]interface{}{}, q.args...), max, first)
	sqlStr := "SELECT " + instanceColumns + " FROM process_instance" + q.whereClause() + q.orderClause() +
		" LIMIT ? OFFSET ?"
	rows, err := q.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInstances(rows)
}

func (q *instanceQuery) Count(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM process_instance"+q.whereClause(), q.args...).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func scanInstances(rows *sql.Rows) ([]*domain.ProcessInstance, error) {
	var instances []*domain.ProcessInstance
	for rows.Next() {
		var pi domain.ProcessInstance
		var idStr string

		if err := rows.Scan(&idStr, &pi.BusinessKey, &pi.ProcessDefinitionID, &pi.ProcessDefinitionKey,
			&pi.SuperProcessInstanceID, &pi.SubProcessInstanceID, &pi.TenantID, &pi.Suspended,
			&pi.StartTime); err != nil {
			return nil, err
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in DB: %w", err)
		}
		pi.ID = id
		instances = append(instances, &pi)
	}
	return instances, rows.Err()
}

// ------------------ Store (ingesta) ------------------

func (e *InstanceEngine) Save(ctx context.Context, pi *domain.ProcessInstance) error {
	_, err := e.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO process_instance (`+instanceColumns+`)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		pi.ID.String(), pi.BusinessKey, pi.ProcessDefinitionID, pi.ProcessDefinitionKey,
		pi.SuperProcessInstanceID, pi.SubProcessInstanceID, pi.TenantID, pi.Suspended, pi.StartTime,
	)
	if err != nil {
		return fmt.Errorf("failed to save process instance: %w", err)
	}
	return nil
}

func (e *InstanceEngine) Delete(ctx context.Context, id string) error {
	_, err := e.db.ExecContext(ctx, `DELETE FROM process_instance WHERE id = ?`, id)
	return err
}

// InitSQLite crea la tabla process_instance si no existe
func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS process_instance (
            id TEXT PRIMARY KEY,
            business_key TEXT NOT NULL DEFAULT '',
            process_definition_id TEXT NOT NULL,
            process_definition_key TEXT NOT NULL DEFAULT '',
            super_process_instance_id TEXT NOT NULL DEFAULT '',
            sub_process_instance_id TEXT NOT NULL DEFAULT '',
            tenant_id TEXT NOT NULL DEFAULT '',
            suspended BOOLEAN NOT NULL DEFAULT 0,
            start_time DATETIME NOT NULL
        )
    `)
	return err
}
