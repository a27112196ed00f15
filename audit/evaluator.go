package audit

import (
	"github.com/stakestar/nodechecker/roster"
	"github.com/stakestar/nodechecker/stats"
	"github.com/stakestar/nodechecker/utils"
)

type predicate struct {
	name string
	pass func(stats.AuditRecord) bool
}

// Checked in this order. NodeVersionPass is deliberately not among them.
var predicates = []predicate{
	{"auditPassed", func(a stats.AuditRecord) bool { return a.AuditPassed }},
	{"publicIPPass", func(a stats.AuditRecord) bool { return a.PublicIPPass }},
	{"timePass", func(a stats.AuditRecord) bool { return a.TimePass }},
	{"calStatePass", func(a stats.AuditRecord) bool { return a.CalendarStatePass }},
	{"minCreditsPass", func(a stats.AuditRecord) bool { return a.MinCreditsPass }},
	{"tntBalancePass", func(a stats.AuditRecord) bool { return a.TNTBalancePass }},
}

// Evaluate turns a node report into findings. Only the most recent audit is inspected.
func Evaluate(report stats.AuditReport) []Finding {
	var findings []Finding
	label := utils.NodeLabel(report.Identity.TNTAddress, report.Identity.PublicURI)

	if len(report.Audits) > 0 {
		latest := report.Audits[0]
		for _, p := range predicates {
			if !p.pass(latest) {
				findings = append(findings, fail("Failed audit for node %s on %s.", label, p.name))
			}
		}
		if report.Counters.ConsecutivePasses > 0 {
			findings = append(findings, ok("%s %s with %d consecutive passes.",
				latest.NodeVersion, label, report.Counters.ConsecutivePasses))
		}
	}

	if report.Counters.ConsecutiveFails > 0 {
		findings = append(findings, fail("%s with %d consecutive fails.", label, report.Counters.ConsecutiveFails))
	}
	if !report.Identity.Registered {
		findings = append(findings, fail("%s not registered.", label))
	}
	return findings
}

// Down is the single finding reported for a node that could not be fetched or decoded.
func Down(node roster.NodeEntry) Finding {
	return fail("%s is down.", utils.NodeLabel(utils.NormalizeAddress(node.TNTAddress), node.IPAddress))
}
