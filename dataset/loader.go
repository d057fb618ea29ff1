package dataset

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	_ "github.com/mattn/go-sqlite3"
)

// ErrSourceNotFound indicates the dataset source does not resolve. It is
// fatal for the whole run: no task executes without a loaded table.
var ErrSourceNotFound = errors.New("dataset source not found")

// Loader materializes a CSV file as an in-memory SQLite table
type Loader struct {
	logger hclog.Logger
}

func NewLoader(logger hclog.Logger) *Loader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Loader{logger: logger}
}

// LoadCSV reads the CSV at path and registers it as tableName in a fresh
// in-memory database. If schemaFile is non-empty its contents become the
// table's schema description; otherwise one is generated from the inferred
// columns.
func (l *Loader) LoadCSV(path, tableName, schemaFile string) (*Table, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("dataset '%s': %w", path, ErrSourceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset '%s': %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV records: %w", err)
	}

	columns := inferColumnTypes(headers, records)

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open engine: %w", err)
	}
	// Every new connection to :memory: sees a fresh empty database, so the
	// pool must never grow beyond the connection the table was loaded on.
	db.SetMaxOpenConns(1)

	if err := createTable(db, tableName, columns); err != nil {
		db.Close()
		return nil, err
	}

	if err := insertRecords(db, tableName, columns, records); err != nil {
		db.Close()
		return nil, err
	}

	schemaText, err := l.loadSchemaText(tableName, schemaFile, columns, len(records))
	if err != nil {
		db.Close()
		return nil, err
	}

	l.logger.Info("dataset loaded", "path", path, "table", tableName, "rows", len(records), "columns", len(columns))

	return &Table{
		db:         db,
		name:       tableName,
		columns:    columns,
		schemaText: schemaText,
		rowCount:   len(records),
	}, nil
}

func createTable(db *sql.DB, tableName string, columns []Column) error {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(c.Name), c.Type)
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(defs, ", "))
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("create table %s: %w", tableName, err)
	}
	return nil
}

func insertRecords(db *sql.DB, tableName string, columns []Column, records [][]string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholders := strings.TrimRight(strings.Repeat("?,", len(columns)), ",")
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = quoteIdent(c.Name)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(tableName), strings.Join(names, ", "), placeholders,
	))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		args := make([]any, len(columns))
		for j, c := range columns {
			var raw string
			if j < len(rec) {
				raw = strings.TrimSpace(rec[j])
			}
			args[j] = convertValue(raw, c.Type)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// convertValue maps a raw CSV field to the typed value inserted into the
// engine. Empty fields become NULL.
func convertValue(raw string, colType ColumnType) any {
	if raw == "" {
		return nil
	}

	switch colType {
	case TypeInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return raw
		}
		return n
	case TypeReal:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		return f
	case TypeBoolean:
		return strings.EqualFold(raw, "true")
	case TypeDatetime:
		if t := parseDatetime(raw); t != nil {
			return t.Format(canonicalDatetime)
		}
		return raw
	default:
		return raw
	}
}

func (l *Loader) loadSchemaText(tableName, schemaFile string, columns []Column, rowCount int) (string, error) {
	if schemaFile == "" {
		return describeColumns(tableName, columns, rowCount), nil
	}

	data, err := os.ReadFile(schemaFile)
	if os.IsNotExist(err) {
		l.logger.Warn("schema file not found, generating description from columns", "path", schemaFile)
		return describeColumns(tableName, columns, rowCount), nil
	}
	if err != nil {
		return "", fmt.Errorf("read schema file '%s': %w", schemaFile, err)
	}
	return string(data), nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
