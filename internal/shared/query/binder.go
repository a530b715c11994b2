package query

// ---------------- Parámetros crudos ----------------

// Params son los parámetros crudos de la petición: multi-valor y sin tipar.
// Normalmente se construyen a partir de url.Values.
type Params map[string][]string

// Get devuelve el primer valor del parámetro, si existe.
func (p Params) Get(name string) (string, bool) {
	vs, ok := p[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// ---------------- Descriptor de parámetro ----------------

// Descriptor declara cómo se liga un parámetro externo sobre el holder Q:
// nombre externo, conversor y asignación al campo destino. Las tablas de
// descriptores se construyen una sola vez por tipo de consulta (var de
// paquete), nunca por petición.
type Descriptor[Q any] struct {
	// Param es el nombre externo del parámetro. Único dentro de una tabla.
	Param string

	// Convert parsea un valor crudo. Si es nil se usa String.
	Convert Converter

	// Multi indica que cada aparición del parámetro se convierte y asigna
	// en orden. Si es false solo se usa la primera aparición.
	Multi bool

	// Assign escribe el valor ya convertido en el campo destino de q.
	Assign func(q *Q, v interface{})
}

// ---------------- Binder genérico ----------------

// Bind recorre la tabla de descriptores y puebla q con los parámetros
// presentes. Los descriptores ausentes dejan su campo sin asignar, y los
// parámetros no declarados en la tabla se ignoran (compatibilidad hacia
// delante). El primer fallo de conversión aborta con *ConversionError.
func Bind[Q any](descs []Descriptor[Q], params Params, q *Q) error {
	for _, d := range descs {
		raws := params[d.Param]
		if len(raws) == 0 {
			continue
		}
		if !d.Multi {
			raws = raws[:1]
		}

		conv := d.Convert
		if conv == nil {
			conv = String
		}

		for _, raw := range raws {
			v, err := conv(raw)
			if err != nil {
				return &ConversionError{Param: d.Param, Value: raw, Err: err}
			}
			d.Assign(q, v)
		}
	}
	return nil
}
