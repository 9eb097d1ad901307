package domain

// Built-in registries for the two supported lines of business. Weights,
// tiers, and gate classes are governance-reviewed configuration: treat
// changes like policy, not like code.

// Banking returns the AML/KYC alert registry.
func Banking() *Registry {
	fields := []FieldDefinition{
		{ID: "customer.type", Label: "Customer type", Compare: CompareEquivalence, Weight: 0.9, Tier: TierStructural, Critical: true,
			EquivalenceClasses: map[string][]string{
				"individual": {"individual", "natural_person", "retail"},
				"entity":     {"entity", "legal_person", "corporate", "business"},
			}},
		{ID: "transaction.type", Label: "Transaction type", Compare: CompareEquivalence, Weight: 1.0, Tier: TierBehavioral, Critical: true,
			EquivalenceClasses: map[string][]string{
				"wire":   {"wire", "swift", "international_transfer"},
				"cash":   {"cash", "cash_deposit", "cash_withdrawal"},
				"crypto": {"crypto", "virtual_asset", "vasp_transfer"},
				"ach":    {"ach", "domestic_transfer", "sepa"},
			}},
		{ID: "transaction.amount", Label: "Transaction amount", Compare: CompareNumericDecay, Weight: 0.8, Tier: TierBehavioral, DecayScale: 5000},
		{ID: "counterparty.jurisdiction_risk", Label: "Counterparty jurisdiction risk", Compare: CompareStep, Weight: 0.9, Tier: TierBehavioral, Critical: true,
			Ladder: []string{"low", "medium", "high", "sanctioned"}},
		{ID: "customer.risk_rating", Label: "Customer risk rating", Compare: CompareStep, Weight: 0.7, Tier: TierBehavioral,
			Ladder: []string{"low", "medium", "high"}},
		{ID: "structuring.pattern_present", Label: "Structuring pattern", Compare: CompareBoolean, Weight: 0.9, Tier: TierBehavioral},
		{ID: "customer.pep_exposure", Label: "PEP exposure", Compare: CompareBoolean, Weight: 0.8, Tier: TierBehavioral},
		{ID: "customer.tenure_months", Label: "Customer tenure", Compare: CompareNumericDecay, Weight: 0.3, Tier: TierContextual, DecayScale: 24},
		{ID: "channel", Label: "Origination channel", Compare: CompareEquivalence, Weight: 0.4, Tier: TierContextual,
			EquivalenceClasses: map[string][]string{
				"remote": {"online", "mobile", "api"},
				"branch": {"branch", "in_person"},
			}},
	}
	gates := []Gate{
		{Field: "customer.type", Classes: map[string][]string{
			"individual": {"individual", "natural_person", "retail"},
			"entity":     {"entity", "legal_person", "corporate", "business"},
		}},
		{Field: "transaction.type", Classes: map[string][]string{
			"wire":   {"wire", "swift", "international_transfer"},
			"cash":   {"cash", "cash_deposit", "cash_withdrawal"},
			"crypto": {"crypto", "virtual_asset", "vasp_transfer"},
			"ach":    {"ach", "domestic_transfer", "sepa"},
		}},
	}
	r, err := NewRegistry("banking", "1.0.0", 5, fields, gates)
	if err != nil {
		panic(err) // built-in registries are validated by tests
	}
	return r
}

// Insurance returns the claims adjudication registry.
func Insurance() *Registry {
	fields := []FieldDefinition{
		{ID: "coverage.line", Label: "Coverage line", Compare: CompareEquivalence, Weight: 1.0, Tier: TierStructural, Critical: true,
			EquivalenceClasses: map[string][]string{
				"auto":     {"auto", "motor", "vehicle"},
				"property": {"property", "homeowners", "dwelling"},
				"liability": {"liability", "general_liability"},
			}},
		{ID: "policy.status", Label: "Policy status", Compare: CompareEquivalence, Weight: 0.9, Tier: TierBehavioral, Critical: true,
			EquivalenceClasses: map[string][]string{
				"active": {"active", "in_force"},
				"lapsed": {"lapsed", "cancelled", "expired"},
			}},
		{ID: "vehicle.use_at_loss", Label: "Vehicle use at loss", Compare: CompareEquivalence, Weight: 1.0, Tier: TierBehavioral, Critical: true,
			EquivalenceClasses: map[string][]string{
				"personal":   {"personal", "commute", "pleasure"},
				"commercial": {"commercial", "delivery", "rideshare", "livery"},
			}},
		{ID: "driver.rideshare_app_active", Label: "Rideshare app active", Compare: CompareBoolean, Weight: 0.9, Tier: TierBehavioral},
		{ID: "loss.amount", Label: "Loss amount", Compare: CompareNumericDecay, Weight: 0.6, Tier: TierBehavioral, DecayScale: 10000},
		{ID: "loss.type", Label: "Loss type", Compare: CompareEquivalence, Weight: 0.8, Tier: TierBehavioral,
			EquivalenceClasses: map[string][]string{
				"collision":     {"collision", "crash", "impact"},
				"theft":         {"theft", "stolen"},
				"comprehensive": {"comprehensive", "weather", "vandalism", "glass"},
			}},
		{ID: "claim.prior_count", Label: "Prior claims", Compare: CompareNumericDecay, Weight: 0.4, Tier: TierContextual, DecayScale: 3},
		{ID: "report.delay_days", Label: "Reporting delay", Compare: CompareNumericDecay, Weight: 0.3, Tier: TierContextual, DecayScale: 14},
	}
	gates := []Gate{
		{Field: "coverage.line", Classes: map[string][]string{
			"auto":      {"auto", "motor", "vehicle"},
			"property":  {"property", "homeowners", "dwelling"},
			"liability": {"liability", "general_liability"},
		}},
	}
	r, err := NewRegistry("insurance", "1.0.0", 5, fields, gates)
	if err != nil {
		panic(err)
	}
	return r
}
