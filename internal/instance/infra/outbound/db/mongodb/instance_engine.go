package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/davicafu/flowquery/internal/instance/domain"
)

// InstanceEngine implementa el motor de consultas de instancias sobre
// MongoDB.
type InstanceEngine struct {
	coll *mongo.Collection
}

// NewInstanceEngine es el constructor; comprueba el ping al primario.
func NewInstanceEngine(ctx context.Context, client *mongo.Client, dbName string) (*InstanceEngine, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	return &InstanceEngine{
		coll: client.Database(dbName).Collection("process_instance"),
	}, nil
}

func (e *InstanceEngine) CreateInstanceQuery() domain.InstanceQuery {
	return &instanceQuery{coll: e.coll}
}

var (
	_ domain.InstanceEngine = (*InstanceEngine)(nil)
	_ domain.InstanceStore  = (*InstanceEngine)(nil)
)

// --- Struct de BSON para el mapeo ---
// Se define localmente para no contaminar el dominio con tags de BSON.

type mongoInstance struct {
	ID                     string    `bson:"_id"`
	BusinessKey            string    `bson:"businessKey"`
	ProcessDefinitionID    string    `bson:"processDefinitionId"`
	ProcessDefinitionKey   string    `bson:"processDefinitionKey"`
	SuperProcessInstanceID string    `bson:"superProcessInstanceId"`
	SubProcessInstanceID   string    `bson:"subProcessInstanceId"`
	TenantID               string    `bson:"tenantId"`
	Suspended              bool      `bson:"suspended"`
	StartTime              time.Time `bson:"startTime"`
}

var instanceSortKeys = map[domain.InstanceSortField]string{
	domain.SortInstanceID:    "_id",
	domain.SortDefinitionID:  "processDefinitionId",
	domain.SortDefinitionKey: "processDefinitionKey",
	domain.SortBusinessKey:   "businessKey",
	domain.SortTenantID:      "tenantId",
}

// ------------------ Handle de consulta ------------------

type instanceQuery struct {
	coll   *mongo.Collection
	filter bson.D
	sort   bson.D
}

func (q *instanceQuery) eq(key string, value interface{}) {
	q.filter = append(q.filter, bson.E{Key: key, Value: value})
}

// ---------- Filtros ----------

func (q *instanceQuery) BusinessKey(key string)          { q.eq("businessKey", key) }
func (q *instanceQuery) ProcessDefinitionID(id string)   { q.eq("processDefinitionId", id) }
func (q *instanceQuery) ProcessDefinitionKey(key string) { q.eq("processDefinitionKey", key) }
func (q *instanceQuery) SuperProcessInstance(id string)  { q.eq("superProcessInstanceId", id) }
func (q *instanceQuery) SubProcessInstance(id string)    { q.eq("subProcessInstanceId", id) }
func (q *instanceQuery) Active()                         { q.eq("suspended", false) }
func (q *instanceQuery) Suspended()                      { q.eq("suspended", true) }

func (q *instanceQuery) TenantIDIn(ids []string) {
	q.eq("tenantId", bson.M{"$in": ids})
}

// ---------- Ordenación ----------

func (q *instanceQuery) OrderBy(field domain.InstanceSortField) {
	key, ok := instanceSortKeys[field]
	if !ok {
		return
	}
	q.sort = append(q.sort, bson.E{Key: key, Value: 1})
}

func (q *instanceQuery) Asc() {
	if len(q.sort) > 0 {
		q.sort[len(q.sort)-1].Value = 1
	}
}

func (q *instanceQuery) Desc() {
	if len(q.sort) > 0 {
		q.sort[len(q.sort)-1].Value = -1
	}
}

// ---------- Ejecución ----------

func (q *instanceQuery) find(ctx context.Context, opts *options.FindOptions) ([]*domain.ProcessInstance, error) {
	if len(q.sort) > 0 {
		opts.SetSort(q.sort)
	}

	filter := q.filter
	if filter == nil {
		filter = bson.D{}
	}

	cursor, err := q.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var instances []*domain.ProcessInstance
	for cursor.Next(ctx) {
		var mi mongoInstance
		if err := cursor.Decode(&mi); err != nil {
			return nil, err
		}
		pi, err := fromMongoInstance(&mi)
		if err != nil {
			return nil, err
		}
		instances = append(instances, pi)
	}
	return instances, cursor.Err()
}

func (q *instanceQuery) List(ctx context.Context) ([]*domain.ProcessInstance, error) {
	return q.find(ctx, options.Find())
}

func (q *instanceQuery) ListPage(ctx context.Context, first, max int) ([]*domain.ProcessInstance, error) {
	opts := options.Find().SetSkip(int64(first)).SetLimit(int64(max))
	return q.find(ctx, opts)
}

func (q *instanceQuery) Count(ctx context.Context) (int64, error) {
	filter := q.filter
	if filter == nil {
		filter = bson.D{}
	}
	return q.coll.CountDocuments(ctx, filter)
}

// --- Helpers de mapeo ---

func toMongoInstance(pi *domain.ProcessInstance) *mongoInstance {
	return &mongoInstance{
		ID:                     pi.ID.String(),
		BusinessKey:            pi.BusinessKey,
		ProcessDefinitionID:    pi.ProcessDefinitionID,
		ProcessDefinitionKey:   pi.ProcessDefinitionKey,
		SuperProcessInstanceID: pi.SuperProcessInstanceID,
		SubProcessInstanceID:   pi.SubProcessInstanceID,
		TenantID:               pi.TenantID,
		Suspended:              pi.Suspended,
		StartTime:              pi.StartTime,
	}
}

func fromMongoInstance(mi *mongoInstance) (*domain.ProcessInstance, error) {
	id, err := uuid.Parse(mi.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in mongoDB: %w", err)
	}
	return &domain.ProcessInstance{
		ID:                     id,
		BusinessKey:            mi.BusinessKey,
		ProcessDefinitionID:    mi.ProcessDefinitionID,
		ProcessDefinitionKey:   mi.ProcessDefinitionKey,
		SuperProcessInstanceID: mi.SuperProcessInstanceID,
		SubProcessInstanceID:   mi.SubProcessInstanceID,
		TenantID:               mi.TenantID,
		Suspended:              mi.Suspended,
		StartTime:              mi.StartTime,
	}, nil
}

// ------------------ Store (ingesta) ------------------

func (e *InstanceEngine) Save(ctx context.Context, pi *domain.ProcessInstance) error {
	mi := toMongoInstance(pi)
	opts := options.Replace().SetUpsert(true)
	_, err := e.coll.ReplaceOne(ctx, bson.M{"_id": mi.ID}, mi, opts)
	return err
}

func (e *InstanceEngine) Delete(ctx context.Context, id string) error {
	_, err := e.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
