package stats

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedPayload is returned when a response body does not match the stats schema.
var ErrMalformedPayload = errors.New("malformed stats payload")

// Wire types mirror the response keys one to one. Every field is a pointer so
// that an absent or null key can be told apart from a zero value.
type wireReport struct {
	Window   *wireWindow   `json:"last_1_days"`
	NodeData *wireNodeData `json:"nodeData"`
}

type wireWindow struct {
	Year                *int64     `json:"year"`
	Month               *int64     `json:"month"`
	Day                 *int64     `json:"day"`
	Last24Hrs           *int64     `json:"last24Hrs"`
	Hour                *int64     `json:"hour"`
	HashesReceivedToday *[]*string `json:"hashesReceivedToday"`
}

type wireNodeData struct {
	Audits                   *[]*wireAudit `json:"audits"`
	Core                     *wireCore     `json:"core"`
	Node                     *wireNode     `json:"node"`
	NodeRegistered           *bool         `json:"node_registered"`
	NodePublicURI            *string       `json:"node_public_uri"`
	NodeTNTAddr              *string       `json:"node_tnt_addr"`
	DataFromCoreLastReceived *string       `json:"dataFromCoreLastReceived"`
}

type wireAudit struct {
	AuditAt          *int64  `json:"audit_at"`
	AuditPassed      *bool   `json:"audit_passed"`
	PublicIPPass     *bool   `json:"public_ip_pass"`
	PublicURI        *string `json:"public_uri"`
	NodeMSDelta      *int64  `json:"node_ms_delta"`
	TimePass         *bool   `json:"time_pass"`
	CalStatePass     *bool   `json:"cal_state_pass"`
	MinCreditsPass   *bool   `json:"min_credits_pass"`
	NodeVersion      *string `json:"node_version"`
	NodeVersionPass  *bool   `json:"node_version_pass"`
	TNTBalanceGrains *int64  `json:"tnt_balance_grains"`
	TNTBalancePass   *bool   `json:"tnt_balance_pass"`
}

type wireCore struct {
	TotalActiveNodes *int64 `json:"total_active_nodes"`
}

type wireNode struct {
	TNTAddr           *string `json:"tnt_addr"`
	CreatedAt         *int64  `json:"created_at"`
	UpdatedAt         *int64  `json:"updated_at"`
	PassCount         *int64  `json:"pass_count"`
	FailCount         *int64  `json:"fail_count"`
	ConsecutivePasses *int64  `json:"consecutive_passes"`
	ConsecutiveFails  *int64  `json:"consecutive_fails"`
}

// Decode parses a /stats response body. Any missing, null or mistyped key
// yields ErrMalformedPayload; there are no partial reports.
func Decode(data []byte) (AuditReport, error) {
	var w wireReport
	if err := json.Unmarshal(data, &w); err != nil {
		return AuditReport{}, errors.Wrapf(ErrMalformedPayload, "%v", err)
	}

	m := &mapper{}
	report := m.report(&w)
	if m.missing != "" {
		return AuditReport{}, errors.Wrapf(ErrMalformedPayload, "missing %s", m.missing)
	}
	return report, nil
}

// mapper copies wire values into the model and remembers the first absent key.
type mapper struct {
	missing string
}

func (m *mapper) absent(key string) {
	if m.missing == "" {
		m.missing = key
	}
}

func (m *mapper) intField(key string, v *int64) int64 {
	if v == nil {
		m.absent(key)
		return 0
	}
	return *v
}

func (m *mapper) boolField(key string, v *bool) bool {
	if v == nil {
		m.absent(key)
		return false
	}
	return *v
}

func (m *mapper) stringField(key string, v *string) string {
	if v == nil {
		m.absent(key)
		return ""
	}
	return *v
}

func (m *mapper) report(w *wireReport) AuditReport {
	var r AuditReport
	if w.Window == nil {
		m.absent("last_1_days")
	} else {
		r.Window = m.window(w.Window)
	}
	if w.NodeData == nil {
		m.absent("nodeData")
		return r
	}

	nd := w.NodeData
	r.Identity = NodeIdentity{
		TNTAddress:   m.stringField("nodeData.node_tnt_addr", nd.NodeTNTAddr),
		PublicURI:    m.stringField("nodeData.node_public_uri", nd.NodePublicURI),
		Registered:   m.boolField("nodeData.node_registered", nd.NodeRegistered),
		LastCoreSync: m.stringField("nodeData.dataFromCoreLastReceived", nd.DataFromCoreLastReceived),
	}
	if nd.Core == nil {
		m.absent("nodeData.core")
	} else {
		r.Core.TotalActiveNodes = m.intField("nodeData.core.total_active_nodes", nd.Core.TotalActiveNodes)
	}
	if nd.Node == nil {
		m.absent("nodeData.node")
	} else {
		r.Counters = m.counters(nd.Node)
	}
	if nd.Audits == nil {
		m.absent("nodeData.audits")
	} else {
		r.Audits = make([]AuditRecord, 0, len(*nd.Audits))
		for i, a := range *nd.Audits {
			r.Audits = append(r.Audits, m.audit(fmt.Sprintf("nodeData.audits[%d]", i), a))
		}
	}
	return r
}

func (m *mapper) window(w *wireWindow) Window {
	win := Window{
		Year:            m.intField("last_1_days.year", w.Year),
		Month:           m.intField("last_1_days.month", w.Month),
		Day:             m.intField("last_1_days.day", w.Day),
		HourOfDay:       m.intField("last_1_days.hour", w.Hour),
		Last24HourCount: m.intField("last_1_days.last24Hrs", w.Last24Hrs),
	}
	if w.HashesReceivedToday == nil {
		m.absent("last_1_days.hashesReceivedToday")
		return win
	}
	win.HashesReceived = make([]string, 0, len(*w.HashesReceivedToday))
	for i, h := range *w.HashesReceivedToday {
		win.HashesReceived = append(win.HashesReceived, m.stringField(fmt.Sprintf("last_1_days.hashesReceivedToday[%d]", i), h))
	}
	return win
}

func (m *mapper) counters(n *wireNode) NodeCounters {
	return NodeCounters{
		TNTAddress:        m.stringField("nodeData.node.tnt_addr", n.TNTAddr),
		CreatedAt:         m.intField("nodeData.node.created_at", n.CreatedAt),
		UpdatedAt:         m.intField("nodeData.node.updated_at", n.UpdatedAt),
		PassCount:         m.intField("nodeData.node.pass_count", n.PassCount),
		FailCount:         m.intField("nodeData.node.fail_count", n.FailCount),
		ConsecutivePasses: m.intField("nodeData.node.consecutive_passes", n.ConsecutivePasses),
		ConsecutiveFails:  m.intField("nodeData.node.consecutive_fails", n.ConsecutiveFails),
	}
}

func (m *mapper) audit(prefix string, a *wireAudit) AuditRecord {
	if a == nil {
		m.absent(prefix)
		return AuditRecord{}
	}
	return AuditRecord{
		Timestamp:         m.intField(prefix+".audit_at", a.AuditAt),
		AuditPassed:       m.boolField(prefix+".audit_passed", a.AuditPassed),
		PublicIPPass:      m.boolField(prefix+".public_ip_pass", a.PublicIPPass),
		PublicURI:         m.stringField(prefix+".public_uri", a.PublicURI),
		MSDelta:           m.intField(prefix+".node_ms_delta", a.NodeMSDelta),
		TimePass:          m.boolField(prefix+".time_pass", a.TimePass),
		CalendarStatePass: m.boolField(prefix+".cal_state_pass", a.CalStatePass),
		MinCreditsPass:    m.boolField(prefix+".min_credits_pass", a.MinCreditsPass),
		NodeVersion:       m.stringField(prefix+".node_version", a.NodeVersion),
		NodeVersionPass:   m.boolField(prefix+".node_version_pass", a.NodeVersionPass),
		TNTBalanceGrains:  m.intField(prefix+".tnt_balance_grains", a.TNTBalanceGrains),
		TNTBalancePass:    m.boolField(prefix+".tnt_balance_pass", a.TNTBalancePass),
	}
}
