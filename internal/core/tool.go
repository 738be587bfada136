package core

// ToolID identifies one of the external analytical tools in the catalog.
type ToolID string

const (
	ToolMzmine      ToolID = "mzmine"
	ToolMatchms     ToolID = "matchms"
	ToolMS2LDA      ToolID = "ms2lda"
	ToolSirius      ToolID = "sirius"
	ToolSiriusDB    ToolID = "sirius_db"
	ToolClassyfire  ToolID = "classyfire"
	ToolToxtree     ToolID = "toxtree"
	ToolPlastChemDB ToolID = "plastchemdb"
)

// AllTools is a pseudo identifier carrying requirements that apply to every
// pipeline run regardless of which tools were selected.
const AllTools ToolID = "all_tools"

// RunCatalog returns the closed set of tools that may be run.
func RunCatalog() []ToolID {
	return []ToolID{
		ToolMzmine,
		ToolMS2LDA,
		ToolSirius,
		ToolToxtree,
		ToolClassyfire,
		ToolMatchms,
	}
}

// IntegrationCatalog returns the closed set of tools that may be integrated.
// It is a superset of the run catalog: the authoritative database sources are
// integration-only.
func IntegrationCatalog() []ToolID {
	return []ToolID{
		ToolMzmine,
		ToolMS2LDA,
		ToolSirius,
		ToolToxtree,
		ToolClassyfire,
		ToolMatchms,
		ToolPlastChemDB,
		ToolSiriusDB,
	}
}

// Goal distinguishes the two operations a tool supports.
type Goal string

const (
	GoalRunning     Goal = "running"
	GoalIntegration Goal = "integration"
)
