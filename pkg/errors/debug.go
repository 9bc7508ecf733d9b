package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Trace is an error flattened for structured logs.
type Trace struct {
	Message  string
	Code     Code
	Chain    []string
	Postgres *PostgresDetail
}

// PostgresDetail carries the server-side fields of a postgres error,
// whichever driver produced it.
type PostgresDetail struct {
	Code       string
	Constraint string
	Table      string
	Column     string
	Detail     string
	Message    string
}

// Dump walks err's unwrap chain and extracts postgres details when present.
func Dump(err error) Trace {
	if err == nil {
		return Trace{}
	}
	t := Trace{Message: err.Error(), Postgres: postgresDetail(err)}
	if typed := As(err); typed != nil {
		t.Code = typed.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		t.Chain = append(t.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	return t
}

// LogFields renders the trace as logger fields. Postgres fields are only
// present for database errors.
func (t Trace) LogFields() map[string]any {
	fields := map[string]any{
		"error":       t.Message,
		"error_code":  t.Code,
		"error_chain": t.Chain,
	}
	if pg := t.Postgres; pg != nil {
		fields["pg_code"] = pg.Code
		fields["pg_constraint"] = pg.Constraint
		fields["pg_table"] = pg.Table
		fields["pg_detail"] = pg.Detail
		fields["pg_message"] = pg.Message
	}
	return fields
}

func postgresDetail(err error) *PostgresDetail {
	if pgxErr := (*pgconn.PgError)(nil); errors.As(err, &pgxErr) {
		return &PostgresDetail{
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}
	if pqErr := (*pq.Error)(nil); errors.As(err, &pqErr) {
		return &PostgresDetail{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return nil
}
