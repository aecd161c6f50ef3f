package domain

import "strings"

// MatchClient fuzzy-matches free text against a client roster.
//
// Match order, first hit wins:
//  1. exact case-insensitive name equality
//  2. case-insensitive substring containment in either direction
//  3. equality against the first whitespace token of a client's name
//     ("Bauceram" for "Bauceram GmbH")
//
// Multiple substring hits are tie-broken by shortest client name; a tie in
// length is rejected as ambiguous. No match is an error, never a default
// client.
func MatchClient(name string, clients []Client) (*Client, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, ErrClientNotFound
	}

	for i := range clients {
		if strings.ToLower(clients[i].Name) == needle {
			return &clients[i], nil
		}
	}

	var substr []*Client
	for i := range clients {
		haystack := strings.ToLower(clients[i].Name)
		if strings.Contains(haystack, needle) || strings.Contains(needle, haystack) {
			substr = append(substr, &clients[i])
		}
	}
	switch len(substr) {
	case 0:
		// fall through to token matching
	case 1:
		return substr[0], nil
	default:
		best := substr[0]
		tied := false
		for _, c := range substr[1:] {
			switch {
			case len(c.Name) < len(best.Name):
				best, tied = c, false
			case len(c.Name) == len(best.Name):
				tied = true
			}
		}
		if tied {
			return nil, ErrAmbiguousClient
		}
		return best, nil
	}

	for i := range clients {
		first, _, _ := strings.Cut(clients[i].Name, " ")
		if strings.ToLower(first) == needle {
			return &clients[i], nil
		}
	}

	return nil, ErrClientNotFound
}
