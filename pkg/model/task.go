package model

// Column names as they appear in the sheet header row. The write-back
// boundary matches these exactly, so a header rename is a change here only.
const (
	ColCrop         = "Crop"
	ColLocation     = "Location"
	ColQuantity     = "Quantity"
	ColUnit         = "Unit"
	ColAssignee     = "Assignee"
	ColHarvestDate  = "Harvest Date"
	ColStatus       = "Status"
	ColHarvestTime  = "Harvest Time"
	ColWeight       = "Weight"
	ColWashPackTime = "Wash/Pack Time"
	ColNotes        = "Notes"
	ColUID          = "UID"
)

const (
	StatusAssigned  = "Assigned"
	StatusCompleted = "Completed"
)

// EditableFields lists the columns a field user may change from the detail view.
var EditableFields = []string{
	ColAssignee,
	ColHarvestTime,
	ColWeight,
	ColWashPackTime,
	ColNotes,
	ColHarvestDate,
}

// RequiredForCompletion lists the edits that must all be non-empty before a
// task may be submitted as complete.
var RequiredForCompletion = []string{
	ColAssignee,
	ColHarvestTime,
	ColWeight,
	ColWashPackTime,
}

// Task is one harvest task row from the sheet.
type Task struct {
	// RowKey is the 1-based sheet row (the header is row 1). It identifies a
	// task for the current load only; inserting or deleting sheet rows
	// shifts it on the next load.
	RowKey int
	// UID is the externally assigned key used for write-back.
	UID    string
	Fields map[string]string
}

// Get returns the value of a column, or "" when absent.
func (t Task) Get(column string) string {
	return t.Fields[column]
}

// Clone returns a copy whose field map can be mutated independently.
func (t Task) Clone() Task {
	fields := make(map[string]string, len(t.Fields))
	for k, v := range t.Fields {
		fields[k] = v
	}
	return Task{RowKey: t.RowKey, UID: t.UID, Fields: fields}
}

// Edits are the raw values a user typed for one task, keyed by column.
// Empty values mean "leave as is".
type Edits map[string]string

// ChangeSet is the minimal column->value mapping sent to the write-back
// boundary for one update. It never carries the row key.
type ChangeSet map[string]string

// Status returns the status carried by the change set, if any.
func (c ChangeSet) Status() string {
	return c[ColStatus]
}
