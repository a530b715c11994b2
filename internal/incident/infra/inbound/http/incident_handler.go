package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/flowquery/internal/incident/application"
	"github.com/davicafu/flowquery/internal/incident/domain"
	sharedQuery "github.com/davicafu/flowquery/internal/shared/query"
)

// IncidentHandler encapsula los endpoints HTTP del histórico de incidentes.
type IncidentHandler struct {
	service *application.IncidentService
}

// NewIncidentHandler crea un nuevo IncidentHandler
func NewIncidentHandler(service *application.IncidentService) *IncidentHandler {
	return &IncidentHandler{service: service}
}

// ---------------- DTOs ----------------

// El dominio no lleva tags JSON; el contrato de salida se define aquí.
type incidentDTO struct {
	ID                  string     `json:"id"`
	IncidentType        string     `json:"incidentType"`
	IncidentMessage     string     `json:"incidentMessage"`
	CreateTime          time.Time  `json:"createTime"`
	EndTime             *time.Time `json:"endTime,omitempty"`
	ExecutionID         string     `json:"executionId"`
	ActivityID          string     `json:"activityId"`
	ProcessInstanceID   string     `json:"processInstanceId"`
	ProcessDefinitionID string     `json:"processDefinitionId"`
	CauseIncidentID     string     `json:"causeIncidentId"`
	RootCauseIncidentID string     `json:"rootCauseIncidentId"`
	Configuration       string     `json:"configuration"`
	TenantID            string     `json:"tenantId"`
	JobDefinitionID     string     `json:"jobDefinitionId"`
	State               string     `json:"incidentState"`
}

func toIncidentDTO(in *domain.HistoricIncident) incidentDTO {
	return incidentDTO{
		ID:                  in.ID.String(),
		IncidentType:        in.IncidentType,
		IncidentMessage:     in.IncidentMessage,
		CreateTime:          in.CreateTime,
		EndTime:             in.EndTime,
		ExecutionID:         in.ExecutionID,
		ActivityID:          in.ActivityID,
		ProcessInstanceID:   in.ProcessInstanceID,
		ProcessDefinitionID: in.ProcessDefinitionID,
		CauseIncidentID:     in.CauseIncidentID,
		RootCauseIncidentID: in.RootCauseIncidentID,
		Configuration:       in.Configuration,
		TenantID:            in.TenantID,
		JobDefinitionID:     in.JobDefinitionID,
		State:               string(in.State),
	}
}

// ---------------- Handlers ----------------

// ListIncidents endpoint GET /history/incident
func (h *IncidentHandler) ListIncidents(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := sharedQuery.Params(c.Request.URL.Query())
	incidents, err := h.service.Search(c.Request.Context(), params, page)
	if err != nil {
		writeQueryError(c, err)
		return
	}

	dtos := make([]incidentDTO, 0, len(incidents))
	for _, in := range incidents {
		dtos = append(dtos, toIncidentDTO(in))
	}
	c.JSON(http.StatusOK, dtos)
}

// CountIncidents endpoint GET /history/incident/count
func (h *IncidentHandler) CountIncidents(c *gin.Context) {
	params := sharedQuery.Params(c.Request.URL.Query())
	n, err := h.service.Count(c.Request.Context(), params)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// ---------------- Helpers ----------------

// parsePage lee firstResult/maxResults. Su ausencia deja el límite en nil,
// que selecciona la ruta de listado sin acotar.
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

// writeQueryError mapea los errores del core a estados HTTP. El rechazo del
// motor también es fallo del cliente: la consulta construida no era válida.
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
