package products

// AvailableOptions builds, per option name, the set of values observed
// across the variants. Both names and values keep first-seen order with
// duplicates suppressed, so the picker renders deterministically.
func AvailableOptions(variants []ProductVariant) []OptionValues {
	var names []string
	values := make(map[string][]string)
	seen := make(map[string]map[string]bool)

	for _, v := range variants {
		for _, p := range v.Options {
			if seen[p.Name] == nil {
				names = append(names, p.Name)
				seen[p.Name] = make(map[string]bool)
			}
			if !seen[p.Name][p.Value] {
				seen[p.Name][p.Value] = true
				values[p.Name] = append(values[p.Name], p.Value)
			}
		}
	}

	out := make([]OptionValues, 0, len(names))
	for _, name := range names {
		out = append(out, OptionValues{Name: name, Values: values[name]})
	}
	return out
}

// OptionValues lists the selectable values for one option name.
type OptionValues struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// ResolveVariant picks the first variant whose options match every
// selected pair exactly. An empty selection resolves to the first
// variant. A selection nothing matches returns nil; the caller renders
// the unavailable state.
func ResolveVariant(variants []ProductVariant, selected Options) *ProductVariant {
	if len(variants) == 0 {
		return nil
	}
	if len(selected) == 0 {
		return &variants[0]
	}
	for i := range variants {
		if matchesAll(variants[i].Options, selected) {
			return &variants[i]
		}
	}
	return nil
}

func matchesAll(have, want Options) bool {
	for _, w := range want {
		v, ok := have.Get(w.Name)
		if !ok || v != w.Value {
			return false
		}
	}
	return true
}
