package gong

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEncodeNDJSONOneObjectPerLine(t *testing.T) {
	records := []StageRecord{
		{ObjectID: "0", Name: "prospecting", IsActive: true, SortOrder: 1},
		{ObjectID: "1", Name: "qualification", IsActive: true, SortOrder: 2},
	}

	buf, err := EncodeNDJSON(records)
	if err != nil {
		t.Fatalf("EncodeNDJSON: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		var decoded StageRecord
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Fatalf("line %d does not parse: %v", i, err)
		}
		if decoded != records[i] {
			t.Errorf("line %d round-tripped to %+v, want %+v", i, decoded, records[i])
		}
	}
}

func TestEncodeNDJSONEmptySlice(t *testing.T) {
	buf, err := EncodeNDJSON([]UserRecord{})
	if err != nil {
		t.Fatalf("EncodeNDJSON: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("buffer = %q, want empty", buf.String())
	}
}
