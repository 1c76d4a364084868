package sanitizer

// NormalizeStringSlice runs normalize over items and keeps the first
// occurrence of each non-empty result. The result is never nil so it
// encodes as [] rather than null.
func NormalizeStringSlice(items []string, normalize func(string) string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		v := normalize(item)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// NormalizeTags lower-cases FAQ tags and keywords.
func NormalizeTags(tags []string) []string {
	return NormalizeStringSlice(tags, NormalizeTag)
}

func NormalizeKeywords(keywords []string) []string {
	return NormalizeTags(keywords)
}

// NormalizePages turns FAQ target pages into slugs such as "booking-history".
func NormalizePages(pages []string) []string {
	return NormalizeStringSlice(pages, NormalizePageSlug)
}
