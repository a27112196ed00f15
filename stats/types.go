package stats

// AuditReport is the decoded /stats response of a single node.
type AuditReport struct {
	Window   Window
	Core     CoreStats
	Identity NodeIdentity
	Counters NodeCounters
	// Audits is ordered most recent first.
	Audits []AuditRecord
}

// Window describes the reporting window the node aggregated over.
type Window struct {
	Year            int64
	Month           int64
	Day             int64
	HourOfDay       int64
	Last24HourCount int64
	HashesReceived  []string
}

// CoreStats is what the core reports about the network as a whole.
type CoreStats struct {
	TotalActiveNodes int64
}

// NodeIdentity is how the node describes itself to the network.
type NodeIdentity struct {
	TNTAddress string
	PublicURI  string
	Registered bool
	// LastCoreSync is kept exactly as reported.
	LastCoreSync string
}

// NodeCounters are the audit counters the core keeps for the node.
type NodeCounters struct {
	TNTAddress        string
	CreatedAt         int64
	UpdatedAt         int64
	PassCount         int64
	FailCount         int64
	ConsecutivePasses int64
	ConsecutiveFails  int64
}

// AuditRecord is the result of one audit cycle run against the node.
type AuditRecord struct {
	Timestamp         int64
	AuditPassed       bool
	PublicIPPass      bool
	PublicURI         string
	MSDelta           int64
	TimePass          bool
	CalendarStatePass bool
	MinCreditsPass    bool
	NodeVersion       string
	NodeVersionPass   bool
	TNTBalanceGrains  int64
	TNTBalancePass    bool
}
