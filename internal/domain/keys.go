package domain

// ConversationKey returns the canonical pairwise key for two user IDs:
// the IDs sorted lexicographically and joined with an underscore. Both
// participants compute the same key regardless of argument order. Matches
// and conversations are addressed by this key.
func ConversationKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

// LikeKey returns the ordered key for a directional like. Direction is
// semantic here, so the IDs are NOT canonicalized.
func LikeKey(from, to string) string {
	return from + "_" + to
}
