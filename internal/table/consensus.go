package table

// Consensus resolves one field from two sources under a fixed precedence:
// the secondary (authoritative database) value wins when it is a proper
// non-missing string, otherwise the primary value is used, with an absent
// primary treated as the Missing sentinel.
func Consensus(primary string, primaryOK bool, secondary string, secondaryOK bool) string {
	if secondaryOK && !IsMissing(secondary) {
		return secondary
	}
	if !primaryOK {
		return Missing
	}
	return Normalize(primary)
}

// ResolveConsensus computes a consensus column over every row of a table,
// reading the primary and secondary source columns per row.
func ResolveConsensus(t *Table, target, primaryCol, secondaryCol string) {
	for _, row := range t.Rows() {
		p, pok := row.Get(primaryCol)
		s, sok := row.Get(secondaryCol)
		row.Set(target, Consensus(p, pok, s, sok))
	}
}
