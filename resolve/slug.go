package resolve

// NormalizeSlug canonicalizes a partial or alias slug to its full slug-port
// form. Unknown slugs pass through unchanged, which also makes normalization
// idempotent: canonical slugs are not alias keys.
func (r *Resolver) NormalizeSlug(slug string) string {
	if canonical, ok := r.rules.Aliases[slug]; ok {
		return canonical
	}
	return slug
}
