package narrow

// Supports reports whether a call named raw with argc arguments can be
// narrowed with this catalog.
func (c *Catalog) Supports(raw string, argc int) bool {
	if need, ok := allNotMinArgs[raw]; ok {
		return argc >= need
	}
	canonical, v := Normalize(raw)
	if isNegatedPerElement(canonical, v) {
		return false
	}
	p, ok := c.Lookup(canonical)
	if !ok {
		return false
	}
	return argc >= p.Arity
}

// IsSupported reports whether the default catalog supports the call.
func IsSupported(raw string, argc int) bool {
	return defaultCatalog.Supports(raw, argc)
}
