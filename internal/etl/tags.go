package etl

// NormalizeTags maps raw tags through the canonical mapping and
// deduplicates the result, preserving first-occurrence order. Two raw
// spellings mapping to the same canonical tag collapse to one occurrence.
// Unmapped tags pass through unchanged; an unmapped tag is not a warning.
func (p *Pipeline) NormalizeTags(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(raw))
	canonical := make([]string, 0, len(raw))
	for _, tag := range raw {
		mapped := p.mapping.Canonical(tag)
		if mapped == "" || seen[mapped] {
			continue
		}
		seen[mapped] = true
		canonical = append(canonical, mapped)
	}

	return canonical
}
