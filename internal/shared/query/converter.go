package query

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------------- Conversores ----------------

// Converter convierte el texto crudo de un parámetro en un valor tipado.
// Son funciones puras: sin estado, sin efectos secundarios.
type Converter func(raw string) (interface{}, error)

// String devuelve el texto tal cual.
func String(raw string) (interface{}, error) {
	return raw, nil
}

// Boolean acepta exactamente "true" o "false" (sensible a mayúsculas).
// No usamos strconv.ParseBool porque admite "1", "TRUE", etc.
func Boolean(raw string) (interface{}, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return nil, fmt.Errorf("expected \"true\" or \"false\"")
}

// StringList divide el valor por comas, recorta espacios y descarta vacíos.
// Conserva el orden de aparición.
func StringList(raw string) (interface{}, error) {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// Int convierte a entero en base 10.
func Int(raw string) (interface{}, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("expected an integer")
	}
	return n, nil
}

// ---------------- Error de conversión ----------------

// ConversionError identifica el parámetro y el valor crudo que no se pudo
// convertir. Se devuelve al llamante sin binding parcial.
type ConversionError struct {
	Param string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("invalid value %q for parameter %q: %v", e.Value, e.Param, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
