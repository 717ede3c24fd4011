package sql

import "testing"

func TestFindClause(t *testing.T) {
	q := "SELECT a FROM t WHERE a > 1 GROUP BY a ORDER BY a LIMIT 5"

	tests := []struct {
		name  string
		start int
	}{
		{"WHERE", 16},
		{"GROUP BY", 28},
		{"ORDER BY", 39},
		{"LIMIT", 50},
	}
	for _, tt := range tests {
		span := FindClause(q, tt.name)
		if span == nil {
			t.Fatalf("FindClause(%q) returned nil", tt.name)
		}
		if span.Start != tt.start {
			t.Errorf("FindClause(%q).Start = %d, want %d", tt.name, span.Start, tt.start)
		}
	}

	if span := FindClause(q, "HAVING"); span != nil {
		t.Errorf("expected nil span for absent HAVING, got %+v", span)
	}
	if span := FindClause(q, "NOT A CLAUSE"); span != nil {
		t.Errorf("expected nil span for unrecognized clause name, got %+v", span)
	}

	// Case-insensitive keyword search.
	if span := FindClause("select a from t group by a", "GROUP BY"); span == nil {
		t.Error("expected case-insensitive match for lowercase group by")
	}
}
