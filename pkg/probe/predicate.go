package probe

import "bytes"

func BodyContains(marker string) BodyPredicate {
	m := []byte(marker)
	return func(body []byte) bool {
		return bytes.Contains(body, m)
	}
}

func BodyHasJSONField(key string) BodyPredicate {
	return func(body []byte) bool {
		return HasJSONField(body, key)
	}
}

// AllOf is satisfied when every non-nil predicate is. It returns nil for an
// empty list so that specs without assertions carry no predicate at all.
func AllOf(predicates ...BodyPredicate) BodyPredicate {
	var set []BodyPredicate
	for _, p := range predicates {
		if p != nil {
			set = append(set, p)
		}
	}

	switch len(set) {
	case 0:
		return nil
	case 1:
		return set[0]
	}

	return func(body []byte) bool {
		for _, p := range set {
			if !p(body) {
				return false
			}
		}
		return true
	}
}
