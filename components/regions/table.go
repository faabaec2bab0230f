package regions

// DefaultTable returns a starter dependency table mapping countries to their
// states or provinces. Deployments with real data should supply their own
// table via WithTable.
func DefaultTable() map[string][]string {
	return map[string][]string{
		"USA": {
			"Alabama", "Alaska", "Arizona", "California", "Colorado",
			"Florida", "Georgia", "Illinois", "New York", "Texas", "Washington",
		},
		"Canada": {
			"Alberta", "British Columbia", "Manitoba", "Ontario", "Quebec",
		},
		"Germany": {
			"Baden-Wurttemberg", "Bavaria", "Berlin", "Hamburg", "Hesse",
			"North Rhine-Westphalia", "Saxony",
		},
		"India": {
			"Delhi", "Karnataka", "Kerala", "Maharashtra", "Tamil Nadu",
			"Uttar Pradesh", "West Bengal",
		},
	}
}
