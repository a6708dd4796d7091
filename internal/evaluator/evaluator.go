package evaluator

// Action is the decision produced for one RomEntity.
type Action int

const (
	Skip Action = iota
	FullScrape
	MediaOnly
	Update
)

func (a Action) String() string {
	switch a {
	case Skip:
		return "SKIP"
	case FullScrape:
		return "FULL_SCRAPE"
	case MediaOnly:
		return "MEDIA_ONLY"
	case Update:
		return "UPDATE"
	default:
		return "UNKNOWN"
	}
}

// Policy carries the subset of scraping configuration the evaluator needs.
type Policy struct {
	UpdatePolicy string // never|changed_only|always
	SkipScraped  bool
}

// CatalogState summarizes what is already known about a RomEntity from its
// existing CatalogEntry, if any.
type CatalogState struct {
	Exists            bool
	FieldsComplete    bool     // all provider-owned fields required by policy are non-empty
	HashChanged       bool     // computed identity hash differs from provenance.identity_hash
	PresentMediaTypes []string // enabled media types that already exist on disk
}

// Decision is the evaluator's output for one RomEntity.
type Decision struct {
	Action       Action
	MediaToFetch []string // subset of enabledMediaTypes this action must obtain
	RequiresHTTP bool
}

// Evaluate implements §4.4's decision table. It never performs I/O; all
// inputs must already be resolved by the caller (C1-C3).
func Evaluate(policy Policy, enabledMediaTypes []string, state CatalogState) Decision {
	if !state.Exists {
		return fullScrapeDecision(enabledMediaTypes)
	}
	if !state.FieldsComplete {
		return fullScrapeDecision(enabledMediaTypes)
	}

	switch policy.UpdatePolicy {
	case "always":
		return Decision{Action: Update, MediaToFetch: enabledMediaTypes, RequiresHTTP: true}

	case "never":
		if !policy.SkipScraped {
			return fullScrapeDecision(enabledMediaTypes)
		}
		return Decision{Action: Skip}

	default: // "changed_only"
		if state.HashChanged {
			return Decision{Action: Update, MediaToFetch: enabledMediaTypes, RequiresHTTP: true}
		}
		if !policy.SkipScraped {
			return Decision{Action: Update, MediaToFetch: enabledMediaTypes, RequiresHTTP: true}
		}

		missing := missingMediaTypes(enabledMediaTypes, state.PresentMediaTypes)
		if len(missing) == 0 {
			return Decision{Action: Skip}
		}
		return Decision{Action: MediaOnly, MediaToFetch: missing, RequiresHTTP: true}
	}
}

func fullScrapeDecision(enabledMediaTypes []string) Decision {
	return Decision{Action: FullScrape, MediaToFetch: enabledMediaTypes, RequiresHTTP: true}
}

func missingMediaTypes(enabled, present []string) []string {
	have := make(map[string]bool, len(present))
	for _, t := range present {
		have[t] = true
	}
	var missing []string
	for _, t := range enabled {
		if !have[t] {
			missing = append(missing, t)
		}
	}
	return missing
}
