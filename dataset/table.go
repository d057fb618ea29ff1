package dataset

import "database/sql"

// ColumnType is the inferred storage type of a dataset column
type ColumnType string

const (
	TypeInteger  ColumnType = "INTEGER"
	TypeReal     ColumnType = "REAL"
	TypeBoolean  ColumnType = "BOOLEAN"
	TypeDatetime ColumnType = "DATETIME"
	TypeText     ColumnType = "TEXT"
)

// Column describes one column of the loaded table
type Column struct {
	Name string
	Type ColumnType
}

// Table is the single relation a pipeline run queries. It is loaded once
// per run, read-only afterward, and discarded when the run ends.
type Table struct {
	db         *sql.DB
	name       string
	columns    []Column
	schemaText string
	rowCount   int
}

func (t *Table) DB() *sql.DB {
	return t.db
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Columns() []Column {
	return t.columns
}

// SchemaText returns the human-readable schema description injected into
// the planner prompt.
func (t *Table) SchemaText() string {
	return t.schemaText
}

func (t *Table) RowCount() int {
	return t.rowCount
}

func (t *Table) Close() error {
	return t.db.Close()
}
