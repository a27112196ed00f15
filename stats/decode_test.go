package stats

import (
	"encoding/json"
	"os"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/healthy.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// mutate decodes the fixture, lets fn edit the generic document and re-encodes it.
func mutate(t *testing.T, fn func(doc map[string]interface{})) []byte {
	t.Helper()
	var doc map[string]interface{}
	if err := json.Unmarshal(loadFixture(t), &doc); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	fn(doc)
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

func nodeData(doc map[string]interface{}) map[string]interface{} {
	return doc["nodeData"].(map[string]interface{})
}

func firstAudit(doc map[string]interface{}) map[string]interface{} {
	return nodeData(doc)["audits"].([]interface{})[0].(map[string]interface{})
}

func TestDecodeFixture(t *testing.T) {
	report, err := Decode(loadFixture(t))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if report.Window.Year != 2018 || report.Window.Month != 10 || report.Window.Day != 16 {
		t.Fatalf("unexpected window date %+v", report.Window)
	}
	if report.Window.HourOfDay != 13 || report.Window.Last24HourCount != 42 {
		t.Fatalf("unexpected window counters %+v", report.Window)
	}
	if len(report.Window.HashesReceived) != 2 {
		t.Fatalf("expected 2 hashes, got %d", len(report.Window.HashesReceived))
	}
	if report.Core.TotalActiveNodes != 2812 {
		t.Fatalf("unexpected total active nodes %d", report.Core.TotalActiveNodes)
	}

	wantIdentity := NodeIdentity{
		TNTAddress:   "0xabcdef0123456789abcdef0123456789abcdef01",
		PublicURI:    "http://35.0.0.10",
		Registered:   true,
		LastCoreSync: "1539698400000",
	}
	if report.Identity != wantIdentity {
		t.Fatalf("got identity %+v, want %+v", report.Identity, wantIdentity)
	}
	if report.Counters.PassCount != 310 || report.Counters.FailCount != 4 {
		t.Fatalf("unexpected counters %+v", report.Counters)
	}

	if len(report.Audits) != 2 {
		t.Fatalf("expected 2 audits, got %d", len(report.Audits))
	}
	wantAudit := AuditRecord{
		Timestamp:         1539698400000,
		AuditPassed:       true,
		PublicIPPass:      true,
		PublicURI:         "http://35.0.0.10",
		MSDelta:           12,
		TimePass:          true,
		CalendarStatePass: true,
		MinCreditsPass:    true,
		NodeVersion:       "1.5.4",
		NodeVersionPass:   true,
		TNTBalanceGrains:  500000000000,
		TNTBalancePass:    true,
	}
	if report.Audits[0] != wantAudit {
		t.Fatalf("got audit %+v, want %+v", report.Audits[0], wantAudit)
	}
	if report.Audits[1].AuditPassed || report.Audits[1].TimePass {
		t.Fatalf("second audit decoded wrong: %+v", report.Audits[1])
	}
}

func TestDecodeIsIdempotent(t *testing.T) {
	data := loadFixture(t)
	first, err := Decode(data)
	if err != nil {
		t.Fatalf("first decode failed: %v", err)
	}
	second, err := Decode(data)
	if err != nil {
		t.Fatalf("second decode failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("decodes differ:\n%+v\n%+v", first, second)
	}
}

func TestDecodeEmptyAudits(t *testing.T) {
	data := mutate(t, func(doc map[string]interface{}) {
		nodeData(doc)["audits"] = []interface{}{}
	})
	report, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(report.Audits) != 0 {
		t.Fatalf("expected no audits, got %d", len(report.Audits))
	}
}

func TestDecodeRejectsBrokenBytes(t *testing.T) {
	full := loadFixture(t)
	cases := map[string][]byte{
		"nil":       nil,
		"empty":     {},
		"truncated": full[:len(full)/2],
		"garbage":   []byte("<html>502 Bad Gateway</html>"),
		"null":      []byte("null"),
		"array":     []byte("[]"),
		"empty obj": []byte("{}"),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(data); !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestDecodeRejectsSchemaViolations(t *testing.T) {
	cases := map[string]func(doc map[string]interface{}){
		"missing window": func(doc map[string]interface{}) {
			delete(doc, "last_1_days")
		},
		"missing hashes": func(doc map[string]interface{}) {
			delete(doc["last_1_days"].(map[string]interface{}), "hashesReceivedToday")
		},
		"null hash": func(doc map[string]interface{}) {
			doc["last_1_days"].(map[string]interface{})["hashesReceivedToday"] = []interface{}{"a", nil}
		},
		"missing nodeData": func(doc map[string]interface{}) {
			delete(doc, "nodeData")
		},
		"missing audits": func(doc map[string]interface{}) {
			delete(nodeData(doc), "audits")
		},
		"null audit": func(doc map[string]interface{}) {
			nodeData(doc)["audits"] = []interface{}{nil}
		},
		"missing core": func(doc map[string]interface{}) {
			delete(nodeData(doc), "core")
		},
		"missing total active nodes": func(doc map[string]interface{}) {
			delete(nodeData(doc)["core"].(map[string]interface{}), "total_active_nodes")
		},
		"missing node": func(doc map[string]interface{}) {
			delete(nodeData(doc), "node")
		},
		"missing consecutive fails": func(doc map[string]interface{}) {
			delete(nodeData(doc)["node"].(map[string]interface{}), "consecutive_fails")
		},
		"missing registered": func(doc map[string]interface{}) {
			delete(nodeData(doc), "node_registered")
		},
		"null public uri": func(doc map[string]interface{}) {
			nodeData(doc)["node_public_uri"] = nil
		},
		"missing last core sync": func(doc map[string]interface{}) {
			delete(nodeData(doc), "dataFromCoreLastReceived")
		},
		"missing node version pass": func(doc map[string]interface{}) {
			delete(firstAudit(doc), "node_version_pass")
		},
		"string for bool": func(doc map[string]interface{}) {
			firstAudit(doc)["audit_passed"] = "true"
		},
		"fraction for int": func(doc map[string]interface{}) {
			firstAudit(doc)["node_ms_delta"] = 1.5
		},
		"number for string": func(doc map[string]interface{}) {
			nodeData(doc)["node_tnt_addr"] = 12
		},
		"object for audits": func(doc map[string]interface{}) {
			nodeData(doc)["audits"] = map[string]interface{}{}
		},
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(mutate(t, fn)); !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}
