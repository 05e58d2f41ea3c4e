package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// recordColumns is the scan order used by every records SELECT in this
// package. Keep it in sync with the scan calls in repository_record.go.
var recordColumns = []string{
	"entity",
	"id",
	"display_name",
	"status",
	"remarks",
	"follow_up_at",
	"updated_at",
	"payload",
	"synced_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildSelectRecordsQuery assembles the records listing query for one entity.
// A non-empty query.Status narrows the result to that status; a positive
// query.Limit caps the row count. Rows come back newest-first by the
// server-issued updated_at string (ISO 8601, so lexicographic order is
// chronological), with id as a tiebreaker.
func buildSelectRecordsQuery(entity string, query RecordQuery) (string, []any, error) {
	builder := psql.
		Select(recordColumns...).
		From("records").
		Where(sq.Eq{"entity": entity})

	if query.Status != "" {
		builder = builder.Where(sq.Eq{"status": query.Status})
	}

	builder = builder.OrderBy("updated_at DESC", "id ASC")

	if query.Limit > 0 {
		builder = builder.Limit(uint64(query.Limit))
	}

	return builder.ToSql()
}

// buildSelectRecordsByIDsQuery assembles the lookup used before diffing a
// fetched page against the cache: all cached rows of one entity whose ids
// appear in the page. The ids slice must be non-empty; squirrel expands it
// into an IN clause.
func buildSelectRecordsByIDsQuery(entity string, ids []string) (string, []any, error) {
	if len(ids) == 0 {
		return "", nil, fmt.Errorf("%w: empty id list", ErrBuildingSQLQuery)
	}

	return psql.
		Select(recordColumns...).
		From("records").
		Where(sq.Eq{"entity": entity}).
		Where(sq.Eq{"id": ids}).
		ToSql()
}
