// Package routing maps a classified issue to the recipients responsible for
// it. The mapping is a pure lookup with no state and no failure modes.
package routing

import (
	"sort"

	"propupkeep/internal/domain/issue"
)

var categoryDefaults = map[issue.Category][]string{
	issue.CategorySafety:     {"On-Call Safety Team", "Property Manager"},
	issue.CategoryElectrical: {"Licensed Electrical Vendor", "Maintenance Supervisor"},
	issue.CategoryPlumbing:   {"Plumbing Vendor", "Maintenance Team"},
	issue.CategoryHVAC:       {"HVAC Vendor", "Maintenance Team"},
	issue.CategoryAppliance:  {"Appliance Vendor", "Maintenance Team"},
	issue.CategoryCosmetic:   {"Turn Team"},
	issue.CategoryGeneral:    {"Maintenance Team"},
}

var fallbackRecipients = []string{"Maintenance Team"}

const highUrgencyRecipient = "Community Manager"

// Recipients returns the recipient set for a (category, urgency) pair,
// deduplicated and lexicographically sorted for determinism. High urgency
// unions in the community manager.
func Recipients(category issue.Category, urgency issue.Urgency) []string {
	defaults, ok := categoryDefaults[category]
	if !ok {
		defaults = fallbackRecipients
	}

	recipients := append([]string(nil), defaults...)
	if urgency == issue.UrgencyHigh {
		recipients = append(recipients, highUrgencyRecipient)
	}

	seen := make(map[string]struct{}, len(recipients))
	out := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		if _, dup := seen[recipient]; dup {
			continue
		}
		seen[recipient] = struct{}{}
		out = append(out, recipient)
	}
	sort.Strings(out)
	return out
}
