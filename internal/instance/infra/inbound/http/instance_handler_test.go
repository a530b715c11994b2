package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/davicafu/flowquery/internal/instance/application"
	"github.com/davicafu/flowquery/internal/instance/domain"
	"github.com/davicafu/flowquery/tests/mocks"
)

func setupInstanceRouter(engine *mocks.InstanceEngineMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := application.NewInstanceService(engine, nil, zap.NewNop())
	handler := NewInstanceHandler(service)

	r := gin.New()
	RegisterInstanceRoutes(r, handler)
	return r
}

func instanceGet(t *testing.T, r *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListInstances_OK(t *testing.T) {
	pi := &domain.ProcessInstance{
		ID:                   uuid.New(),
		BusinessKey:          "order-42",
		ProcessDefinitionID:  "invoice:1",
		ProcessDefinitionKey: "invoice",
		StartTime:            time.Now().UTC(),
	}
	engine := mocks.NewInstanceEngineMock(pi)
	r := setupInstanceRouter(engine)

	w := instanceGet(t, r, "/process-instance?businessKey=order-42")

	assert.Equal(t, http.StatusOK, w.Code)

	var dtos []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
	assert.Len(t, dtos, 1)
	assert.Equal(t, "order-42", dtos[0]["businessKey"])
	assert.Equal(t, []string{"businessKey=order-42"}, engine.LastQuery.Filters)
}

func TestListInstances_SortWhitelistIs400(t *testing.T) {
	engine := mocks.NewInstanceEngineMock()
	r := setupInstanceRouter(engine)

	w := instanceGet(t, r, "/process-instance?sortBy=startTime")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, engine.Created)
}

func TestListInstances_MarkersOnlyWhenTrue(t *testing.T) {
	engine := mocks.NewInstanceEngineMock()
	r := setupInstanceRouter(engine)

	w := instanceGet(t, r, "/process-instance?active=false")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, engine.LastQuery.Filters)
}

func TestCountInstances_OK(t *testing.T) {
	engine := mocks.NewInstanceEngineMock()
	engine.Total = 3
	r := setupInstanceRouter(engine)

	w := instanceGet(t, r, "/process-instance/count?suspended=true")

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]int64
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body["count"])
	assert.Equal(t, []string{"suspended"}, engine.LastQuery.Filters)
}
