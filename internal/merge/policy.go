package merge

// Policy selects how provider-owned fields are reconciled against the
// existing catalog entry. User-owned fields and unknown elements are
// preserved identically under every policy; only the provider-owned
// field rule changes.
type Policy int

const (
	// PreserveUserEdits is the default: a provider field replaces the
	// existing value only when it is non-empty, so a field the provider
	// stopped returning never gets blanked out.
	PreserveUserEdits Policy = iota
	// ProviderWins treats the provider response as authoritative for
	// every provider-owned field, including clearing a field the
	// provider no longer returns.
	ProviderWins
)

func (p Policy) String() string {
	switch p {
	case ProviderWins:
		return "provider_wins"
	default:
		return "preserve_user_edits"
	}
}
