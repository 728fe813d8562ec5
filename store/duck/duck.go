package duck

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/pkg/errors"

	nt "combosearch/entity"
	"combosearch/field"
)

// Todo: follow the source file and Add new records as they arrive

const table = "records"

// Duck reads newline delimited json records via an in-memory duckdb.
type Duck struct {
	db       *sql.DB
	filename string

	ctx    context.Context
	logger nt.Logger
}

func New(ctx context.Context, lgr nt.Logger) (dk *Duck, err error) {

	db, err := sql.Open("duckdb", "")
	if err != nil {
		err = errors.Wrapf(err, "failed to open memo duck")
		return
	}

	dk = &Duck{
		db:     db,
		ctx:    ctx,
		logger: lgr,
	}

	return
}

func (dk *Duck) Close() {
	dk.db.Close()
}

// Name returns the name of the loaded file
func (dk *Duck) Name() string {
	return dk.filename
}

// Load a file
func (dk *Duck) Load(path string) (err error) {

	_, err = dk.db.Exec(fmt.Sprintf(`
		CREATE OR REPLACE TABLE %s AS
		SELECT * FROM read_json_auto('%s', format='newline_delimited')
	`, table, quote(path)))
	if err != nil {
		err = errors.Wrapf(err, "failed to load %s", path)
		return
	}

	dk.filename = path
	dk.logger.Info(dk.ctx, "loaded records", "path", path)
	return
}

// Fields returns the schema of the loaded records
func (dk *Duck) Fields() (fields []nt.Field, err error) {

	rows, err := dk.db.Query(`
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_name = ?
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		err = errors.Wrapf(err, "failed to query schema")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var fld nt.Field
		err = rows.Scan(&fld.Name, &fld.Type)
		if err != nil {
			err = errors.Wrapf(err, "failed to scan field")
			return
		}
		fields = append(fields, fld)
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating schema")
	return
}

// Lines returns all records in file order
func (dk *Duck) Lines() (lines []nt.Line, err error) {

	rows, err := dk.db.Query(fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", table))
	if err != nil {
		err = errors.Wrapf(err, "failed to query records")
		return
	}
	defer rows.Close()

	count, err := columnCount(rows)
	if err != nil {
		return
	}

	for rows.Next() {
		var vals []any
		vals, err = scanRow(rows, count)
		if err != nil {
			err = errors.Wrapf(err, "failed to scan row")
			return
		}

		line := make(nt.Line, count)
		for i, val := range vals {
			line[i] = nt.Value{Raw: val}
		}
		lines = append(lines, line)
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating rows")
	return
}

// Registry declares a field per column of the loaded records.
func (dk *Duck) Registry() (reg *field.Registry[nt.Line], err error) {

	fields, err := dk.Fields()
	if err != nil {
		return
	}
	return Registry(fields)
}

// Kind maps a duckdb type name to a field kind.
func Kind(dbType string) field.Kind {

	switch strings.ToUpper(dbType) {
	case "VARCHAR":
		return field.KindText
	case "TINYINT", "SMALLINT", "INTEGER", "BIGINT", "UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT":
		return field.KindInt
	case "FLOAT", "DOUBLE":
		return field.KindFloat
	case "BOOLEAN":
		return field.KindBool
	case "DATE", "TIMESTAMP", "TIMESTAMP WITH TIME ZONE", "TIMESTAMP_S", "TIMESTAMP_MS", "TIMESTAMP_NS":
		return field.KindTime
	}
	return field.KindOther
}

// Registry declares a field per schema column for lines from this store.
func Registry(fields []nt.Field) (*field.Registry[nt.Line], error) {

	descs := make([]field.Descriptor[nt.Line], len(fields))
	for i, fld := range fields {
		idx := i
		descs[i] = field.Descriptor[nt.Line]{
			Name: fld.Name,
			Kind: Kind(fld.Type),
			Get: func(ln nt.Line) any {
				return ln.Get(idx).Raw
			},
		}
	}

	return field.NewRegistry(descs...)
}

// unexported

func quote(in string) string {
	return strings.ReplaceAll(in, "'", "''")
}

func columnCount(rows *sql.Rows) (int, error) {
	cols, err := rows.Columns()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to get cols from query rows")
	}
	return len(cols), nil
}

func scanRow(rows *sql.Rows, columnCount int) ([]any, error) {
	vals := make([]any, columnCount)
	ptrs := make([]any, columnCount)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	err := rows.Scan(ptrs...)
	return vals, err
}
