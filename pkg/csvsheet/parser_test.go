package csvsheet

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/harrisonrobin/harvestboard/pkg/model"
)

func TestParseQuotedComma(t *testing.T) {
	rows, err := Parse(`"Cobourg, Market","5"`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != 2 {
		t.Fatalf("Expected 1 row of 2 cells, got %#v", rows)
	}
	if rows[0][0] != "Cobourg, Market" || rows[0][1] != "5" {
		t.Errorf("Expected [Cobourg, Market | 5], got %#v", rows[0])
	}
}

func TestParseEscapedQuote(t *testing.T) {
	rows, err := Parse(`"She said ""hi""",ok`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := rows[0][0]; got != `She said "hi"` {
		t.Errorf("Expected She said \"hi\", got %q", got)
	}
	if got := rows[0][1]; got != "ok" {
		t.Errorf("Expected ok, got %q", got)
	}
}

func TestParseTrimsCells(t *testing.T) {
	rows, err := Parse("  a ,\" b \",c\r\nd,e,f\r\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	want := []string{"a", "b", "c"}
	for i, cell := range rows[0] {
		if cell != want[i] {
			t.Errorf("cell %d: expected %q, got %q", i, want[i], cell)
		}
	}
}

func TestParseQuotedNewline(t *testing.T) {
	rows, err := Parse("Crop,Notes\nKale,\"line one\nline two\"\nLeeks,x\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d: %#v", len(rows), rows)
	}
	if rows[1][1] != "line one\nline two" {
		t.Errorf("Expected embedded newline to survive, got %q", rows[1][1])
	}
}

func TestParseEmptySource(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\r\n\t"} {
		if _, err := Parse(in); !errors.Is(err, ErrEmptySource) {
			t.Errorf("Parse(%q): expected ErrEmptySource, got %v", in, err)
		}
	}
}

func TestParseKeepsInteriorBlankLines(t *testing.T) {
	rows, err := Parse("h1,h2\na,b\n\nc,d\n\n\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
}

func TestRecordsRowKeysAndFieldCount(t *testing.T) {
	headers := []string{model.ColUID, model.ColCrop, model.ColQuantity, model.ColHarvestDate}
	var b strings.Builder
	b.WriteString(strings.Join(headers, ",") + "\n")
	const n = 5
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "u%d,Kale,%d,7/%d/2024\n", i, i+1, i+1)
	}

	tasks, err := ParseTasks(b.String(), "")
	if err != nil {
		t.Fatalf("ParseTasks failed: %v", err)
	}
	if len(tasks) != n {
		t.Fatalf("Expected %d tasks, got %d", n, len(tasks))
	}
	for i, task := range tasks {
		if task.RowKey != i+2 {
			t.Errorf("task %d: expected RowKey %d, got %d", i, i+2, task.RowKey)
		}
		if len(task.Fields) != len(headers) {
			t.Errorf("task %d: expected %d fields, got %d", i, len(headers), len(task.Fields))
		}
		if task.UID != fmt.Sprintf("u%d", i) {
			t.Errorf("task %d: expected UID u%d, got %q", i, i, task.UID)
		}
		want := fmt.Sprintf("2024-07-%02d", i+1)
		if got := task.Get(model.ColHarvestDate); got != want {
			t.Errorf("task %d: expected harvest date %s, got %s", i, want, got)
		}
	}
}

func TestRecordsMissingTrailingCells(t *testing.T) {
	tasks, err := ParseTasks("Crop,Location,Notes\nKale\n", "")
	if err != nil {
		t.Fatalf("ParseTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	if v, ok := tasks[0].Fields[model.ColNotes]; !ok || v != "" {
		t.Errorf("Expected empty Notes field, got %q (present=%v)", v, ok)
	}
}

func TestRecordsCustomKeyColumn(t *testing.T) {
	tasks, err := ParseTasks("Row ID,Crop\nabc-1,Kale\n", "Row ID")
	if err != nil {
		t.Fatalf("ParseTasks failed: %v", err)
	}
	if tasks[0].UID != "abc-1" {
		t.Errorf("Expected UID abc-1, got %q", tasks[0].UID)
	}
}

func TestRecordsMissingHeaders(t *testing.T) {
	if _, err := ParseTasks(",,\nKale,1,2\n", ""); !errors.Is(err, ErrMissingHeaders) {
		t.Errorf("Expected ErrMissingHeaders, got %v", err)
	}
}
