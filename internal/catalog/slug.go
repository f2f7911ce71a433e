package catalog

import "strings"

// Slugify dérive le slug depuis le nom : minuscules, les suites d'espaces
// deviennent un seul tiret. L'unicité globale est garantie par la table
// products_by_slug (LWT), pas ici.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
