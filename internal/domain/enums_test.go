package domain

import "testing"

func TestParseIndustry(t *testing.T) {
	if _, err := ParseIndustry("technology"); err != nil {
		t.Errorf("technology should parse: %v", err)
	}
	if _, err := ParseIndustry("Technology"); err == nil {
		t.Error("industry values are lower case, Technology should not parse")
	}
	if _, err := ParseIndustry(""); err == nil {
		t.Error("empty industry should not parse")
	}
}

func TestStagesAreInBusinessOrder(t *testing.T) {
	if Stages[0] != StageProspecting {
		t.Errorf("first stage = %q", Stages[0])
	}
	if Stages[len(Stages)-1] != StageClosedLost {
		t.Errorf("last stage = %q", Stages[len(Stages)-1])
	}
}

func TestParseDealStatus(t *testing.T) {
	for _, raw := range []string{"won", "lost", "open"} {
		if _, err := ParseDealStatus(raw); err != nil {
			t.Errorf("%q should parse: %v", raw, err)
		}
	}
	if _, err := ParseDealStatus("pending"); err == nil {
		t.Error("pending should not parse")
	}
}

func TestParseLeadStatus(t *testing.T) {
	if status, err := ParseLeadStatus("new"); err != nil || status != LeadStatusNew {
		t.Errorf("new parsed as %q, %v", status, err)
	}
	if _, err := ParseLeadStatus("NEW"); err == nil {
		t.Error("lead statuses are lower case, NEW should not parse")
	}
}
