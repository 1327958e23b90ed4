package gosig

// CheckSchema verifies that s is a well-formed schema tree before it is ever
// used for matching. It runs once, at wrap time (or when a textual signature
// is parsed), never at call time, so malformed schemas fail fast. A non-nil
// result is always a *SchemaDefinitionError.
func CheckSchema(s Schema) error {
	if s == nil {
		return defErrf("nil schema")
	}
	switch t := s.(type) {
	case typeSchema, iterSchema:
		return nil
	case namedSchema:
		if t.name == "" {
			return defErrf("named schema requires a non-empty name")
		}
		return nil
	case listSchema:
		if t.elem == nil {
			return defErrf("list schema requires exactly one element schema")
		}
		return CheckSchema(t.elem)
	case tupleSchema:
		for _, e := range t.elems {
			if e == nil {
				return defErrf("tuple schema contains a nil element schema")
			}
			if err := CheckSchema(e); err != nil {
				return err
			}
		}
		return nil
	case mapSchema:
		if t.key == nil || t.value == nil {
			return defErrf("map schema requires exactly one key/value schema pair")
		}
		if err := CheckSchema(t.key); err != nil {
			return err
		}
		return CheckSchema(t.value)
	case setSchema:
		if t.elem == nil {
			return defErrf("set schema requires exactly one element schema")
		}
		return CheckSchema(t.elem)
	case unionSchema:
		if len(t.alts) == 0 {
			return defErrf("union schema requires at least one alternative")
		}
		for _, alt := range t.alts {
			if alt == nil {
				return defErrf("union schema contains a nil alternative")
			}
			if err := CheckSchema(alt); err != nil {
				return err
			}
		}
		return nil
	case enumSchema:
		if len(t.values) == 0 {
			return defErrf("enum schema requires at least one value")
		}
		return nil
	}
	return defErrf("invalid type signature")
}
