package utils

import (
	"encoding/json"

	"go.uber.org/zap"
)

// UnmarshalAndHandle deserializa el payload de un evento de integración y,
// si es válido, invoca el handler. Los payloads corruptos se registran y se
// descartan sin detener el consumo.
func UnmarshalAndHandle[T any](log *zap.Logger, data json.RawMessage, handler func(T)) {
	var evt T
	if err := json.Unmarshal(data, &evt); err != nil {
		log.Warn("Failed to unmarshal event data", zap.Error(err))
		return
	}
	handler(evt)
}
