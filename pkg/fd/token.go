package fd

import "strings"

// QualifiedField renders a cross-model dependent token.
func QualifiedField(model, field string) string {
	return model + "." + field
}

// IsQualified reports whether a dependent token names a field of another model.
func IsQualified(token string) bool {
	return strings.Contains(token, ".")
}

// SplitQualified splits a qualified token into its model and field.
func SplitQualified(token string) (model, field string, ok bool) {
	return strings.Cut(token, ".")
}

// LocalFields returns the tokens that name fields of the owning model.
func LocalFields(tokens []string) []string {
	var local []string
	for _, t := range tokens {
		if !IsQualified(t) {
			local = append(local, t)
		}
	}
	return local
}
