package assistant

import "faktura/internal/domain"

// ResolveClient fuzzy-matches free text against the live client roster.
// The matching rules live in domain.MatchClient so the directory service
// applies the same rules when rejecting duplicate names.
func ResolveClient(name string, clients []domain.Client) (*domain.Client, error) {
	return domain.MatchClient(name, clients)
}
