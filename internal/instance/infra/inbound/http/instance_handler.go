package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/flowquery/internal/instance/application"
	"github.com/davicafu/flowquery/internal/instance/domain"
	sharedQuery "github.com/davicafu/flowquery/internal/shared/query"
)

// InstanceHandler encapsula los endpoints HTTP de instancias de proceso.
type InstanceHandler struct {
	service *application.InstanceService
}

// NewInstanceHandler crea un nuevo InstanceHandler
func NewInstanceHandler(service *application.InstanceService) *InstanceHandler {
	return &InstanceHandler{service: service}
}

// ---------------- DTOs ----------------

type instanceDTO struct {
	ID                     string    `json:"id"`
	BusinessKey            string    `json:"businessKey"`
	ProcessDefinitionID    string    `json:"processDefinitionId"`
	ProcessDefinitionKey   string    `json:"processDefinitionKey"`
	SuperProcessInstanceID string    `json:"superProcessInstanceId,omitempty"`
	SubProcessInstanceID   string    `json:"subProcessInstanceId,omitempty"`
	TenantID               string    `json:"tenantId"`
	Suspended              bool      `json:"suspended"`
	StartTime              time.Time `json:"startTime"`
}

func toInstanceDTO(pi *domain.ProcessInstance) instanceDTO {
	return instanceDTO{
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

// ---------------- Handlers ----------------

// ListInstances endpoint GET /process-instance
func (h *InstanceHandler) ListInstances(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := sharedQuery.Params(c.Request.URL.Query())
	instances, err := h.service.Search(c.Request.Context(), params, page)
	if err != nil {
		writeQueryError(c, err)
		return
	}

	dtos := make([]instanceDTO, 0, len(instances))
	for _, pi := range instances {
		dtos = append(dtos, toInstanceDTO(pi))
	}
	c.JSON(http.StatusOK, dtos)
}

// CountInstances endpoint GET /process-instance/count
func (h *InstanceHandler) CountInstances(c *gin.Context) {
	params := sharedQuery.Params(c.Request.URL.Query())
	n, err := h.service.Count(c.Request.Context(), params)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// ---------------- Helpers ----------------

func parsePage(c *gin.Context) (sharedQuery.Page, error) {
	var page sharedQuery.Page

	if s := c.Query("firstResult"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return page, errors.New("firstResult must be a non-negative integer")
		}
		page.First = &n
	}
	if s := c.Query("maxResults"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return page, errors.New("maxResults must be a positive integer")
		}
		page.Max = &n
	}
	return page, nil
}

func writeQueryError(c *gin.Context, err error) {
	var convErr *sharedQuery.ConversionError
	var sortErr *sharedQuery.SortError
	var engErr *sharedQuery.EngineError

	switch {
	case errors.As(err, &convErr), errors.As(err, &sortErr), errors.As(err, &engErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
