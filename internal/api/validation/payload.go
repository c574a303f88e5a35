package validation

// Payload is a validated, coerced request body. It only holds keys declared by
// the schema it was checked against.
type Payload map[string]any

// Has reports whether the key was present and valid.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

func (p Payload) Float(key string) float64 {
	f, _ := p[key].(float64)
	return f
}

// Int reads a number the validator has already checked to be whole.
func (p Payload) Int(key string) int {
	return int(p.Float(key))
}

// IntPtr returns nil when key is absent, for partial updates.
func (p Payload) IntPtr(key string) *int {
	f, ok := p[key].(float64)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

// StringPtr returns nil when key is absent, for partial updates.
func (p Payload) StringPtr(key string) *string {
	s, ok := p[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// FloatPtr returns nil when key is absent, for partial updates.
func (p Payload) FloatPtr(key string) *float64 {
	f, ok := p[key].(float64)
	if !ok {
		return nil
	}
	return &f
}
