package dgraph

// TypeMap maps declared source type names to Dgraph value types. An empty
// target type means the source type carries no directly representable value
// (compound and edge primaries) and no predicate is emitted for it.
type TypeMap map[string]string

// DefaultTypes returns the baseline mapping. Callers extend it through
// config rather than editing it; unknown source types fail closed to the
// generic string type with a warning.
func DefaultTypes() TypeMap {
	return TypeMap{
		"bool":        "bool",
		"comp":        "",
		"data":        "string",
		"edge":        "",
		"file:bytes":  "string",
		"geo:latlong": "geo",
		"guid":        "string",
		"hex":         "string",
		"imei":        "string",
		"imsi":        "string",
		"inet:fqdn":   "string",
		// IPv4 and IPv6 as strings is a deliberate deviation from the
		// source model, which stores them numerically.
		"inet:ipv4":   "string",
		"inet:ipv6":   "string",
		"int":         "int",
		"it:semver":   "string",
		"latitude":    "float",
		"loc":         "string",
		"longitude":   "float",
		"str":         "string",
		"tel:phone":   "string",
		"time":        "datetime",
	}
}

// Extend returns a copy of the map with the given overrides applied.
func (m TypeMap) Extend(overrides map[string]string) TypeMap {
	out := make(TypeMap, len(m)+len(overrides))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Lookup resolves a source type name.
func (m TypeMap) Lookup(name string) (string, bool) {
	t, ok := m[name]
	return t, ok
}

// indexFor returns the index directive emitted for a predicate value type.
// Reference types and unindexable types return the empty string.
func indexFor(dtype string) string {
	switch dtype {
	case "bool":
		return "@index(bool)"
	case "datetime":
		return "@index(hour)"
	case "float":
		return "@index(float)"
	case "geo":
		return "@index(geo)"
	case "int":
		return "@index(int)"
	case "string":
		return "@index(hash)"
	default:
		return ""
	}
}
