package types

import (
	"encoding/json"
	"testing"
)

func TestRiskLevel_Ordering(t *testing.T) {
	if !(RiskLow < RiskMedium && RiskMedium < RiskHigh && RiskHigh < RiskCritical) {
		t.Error("risk levels must be ordered low < medium < high < critical")
	}
}

func TestSeverity_Ordering(t *testing.T) {
	if !(SeverityLow < SeverityMedium && SeverityMedium < SeverityHigh && SeverityHigh < SeverityCritical) {
		t.Error("severities must be ordered low < medium < high < critical")
	}
}

func TestParseRiskLevel(t *testing.T) {
	for _, want := range []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical} {
		got, err := ParseRiskLevel(want.String())
		if err != nil {
			t.Fatalf("ParseRiskLevel(%q): %v", want.String(), err)
		}
		if got != want {
			t.Errorf("ParseRiskLevel(%q) = %v", want.String(), got)
		}
	}
	if _, err := ParseRiskLevel("extreme"); err == nil {
		t.Error("unknown risk level should be an error")
	}
}

func TestRiskLevel_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(RiskHigh)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"high"` {
		t.Errorf("marshal = %s", data)
	}
	var r RiskLevel
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r != RiskHigh {
		t.Errorf("round trip = %v", r)
	}
}

func TestParseSeverity_InfoAlias(t *testing.T) {
	got, err := ParseSeverity("info")
	if err != nil {
		t.Fatalf("ParseSeverity(info): %v", err)
	}
	if got != SeverityLow {
		t.Errorf("info should map to low, got %v", got)
	}
}

func TestSeverityFromRisk(t *testing.T) {
	cases := map[RiskLevel]Severity{
		RiskLow:      SeverityLow,
		RiskMedium:   SeverityMedium,
		RiskHigh:     SeverityHigh,
		RiskCritical: SeverityCritical,
	}
	for risk, want := range cases {
		if got := SeverityFromRisk(risk); got != want {
			t.Errorf("SeverityFromRisk(%v) = %v, want %v", risk, got, want)
		}
	}
}

func TestNormalizeLogLevel(t *testing.T) {
	cases := map[string]string{
		"ERROR":       "critical",
		"error":       "critical",
		"CRITICAL":    "critical",
		"FATAL":       "critical",
		"WARNING":     "warning",
		"warn":        "warning",
		"INFO":        "info",
		"INFORMATION": "info",
		"NOTICE":      "info",
		"DEBUG":       "debug",
		"TRACE":       "debug",
		"bogus":       "info",
		"":            "info",
	}
	for in, want := range cases {
		if got := NormalizeLogLevel(in); got != want {
			t.Errorf("NormalizeLogLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
