package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/datastax/feed-data-apis/types"
)

type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// OrderKey is a physical sort key
type OrderKey struct {
	Column    string
	Direction Direction
}

type SelectInfo struct {
	Table   string
	Columns []string
	Where   Predicate
	OrderBy []OrderKey
	Skip    int
	Limit   int
}

type InsertInfo struct {
	Table       string
	Columns     []string
	QueryParams []interface{}
}

type DeleteInfo struct {
	Table       string
	Columns     []string
	QueryParams []interface{}
}

func (db *Db) Select(ctx context.Context, info *SelectInfo) ([]types.Record, error) {
	values := make([]interface{}, 0)
	columns := "*"
	if len(info.Columns) > 0 {
		columns = strings.Join(info.Columns, ", ")
	}
	query := fmt.Sprintf("SELECT %s FROM %s", columns, info.Table)

	if info.Where != nil {
		query += " WHERE " + buildWhere(info.Where, &values)
	}

	query += buildOrderBy(info.OrderBy)

	if info.Limit > 0 || info.Skip > 0 {
		limit := info.Limit
		if limit <= 0 {
			// SQLite requires a LIMIT clause to use OFFSET
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		values = append(values, limit, info.Skip)
	}

	return db.session.Query(ctx, query, values...)
}

func (db *Db) Count(ctx context.Context, table string, where Predicate) (int, error) {
	values := make([]interface{}, 0)
	query := fmt.Sprintf("SELECT COUNT(*) AS total FROM %s", table)
	if where != nil {
		query += " WHERE " + buildWhere(where, &values)
	}

	rows, err := db.session.Query(ctx, query, values...)
	if err != nil {
		return 0, err
	}
	if len(rows) != 1 {
		return 0, fmt.Errorf("count returned %d rows", len(rows))
	}
	total, ok := rows[0]["total"].(int64)
	if !ok {
		return 0, fmt.Errorf("count returned unexpected value %v", rows[0]["total"])
	}
	return int(total), nil
}

// SelectIDs returns the values of idColumn for the matching rows, in order
func (db *Db) SelectIDs(ctx context.Context, idColumn string, info *SelectInfo) ([]string, error) {
	selectInfo := *info
	selectInfo.Columns = []string{idColumn}
	rows, err := db.Select(ctx, &selectInfo)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		id, ok := row[idColumn].(string)
		if !ok {
			return nil, fmt.Errorf("identifier column '%s' has unexpected value %v", idColumn, row[idColumn])
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FetchByIDs returns the rows matching ids, in no particular order. Missing ids are skipped.
func (db *Db) FetchByIDs(ctx context.Context, table string, idColumn string, columns []string, ids []string) ([]types.Record, error) {
	if len(ids) == 0 {
		return []types.Record{}, nil
	}
	return db.Select(ctx, &SelectInfo{
		Table:   table,
		Columns: columns,
		Where:   In{Column: idColumn, Values: StringValues(ids)},
	})
}

func (db *Db) Insert(ctx context.Context, info *InsertInfo) error {
	placeholders := "?"
	for i := 1; i < len(info.Columns); i++ {
		placeholders += ", ?"
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		info.Table, strings.Join(info.Columns, ", "), placeholders)

	params := make([]interface{}, len(info.QueryParams))
	for i, value := range info.QueryParams {
		params[i] = adaptParameterValue(value)
	}
	return db.session.Execute(ctx, query, params...)
}

func (db *Db) Delete(ctx context.Context, info *DeleteInfo) error {
	whereClause := buildWhereClause(info.Columns)
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", info.Table, whereClause)
	queryParameters := make([]interface{}, len(info.QueryParams))
	for i, value := range info.QueryParams {
		queryParameters[i] = adaptParameterValue(value)
	}
	return db.session.Execute(ctx, query, queryParameters...)
}

func buildWhereClause(columnNames []string) string {
	whereClause := columnNames[0] + " = ?"
	for i := 1; i < len(columnNames); i++ {
		whereClause += " AND " + columnNames[i] + " = ?"
	}
	return whereClause
}

func buildOrderBy(order []OrderKey) string {
	if len(order) == 0 {
		return ""
	}
	clause := " ORDER BY "
	for i, key := range order {
		if i > 0 {
			clause += ", "
		}
		clause += key.Column + " " + key.Direction.String()
	}
	return clause
}

func buildWhere(predicate Predicate, queryParameters *[]interface{}) string {
	switch p := predicate.(type) {
	case Compare:
		*queryParameters = append(*queryParameters, adaptParameterValue(p.Value))
		return fmt.Sprintf("%s %s ?", p.Column, p.Operator)
	case In:
		if len(p.Values) == 0 {
			return "0 = 1"
		}
		for _, v := range p.Values {
			*queryParameters = append(*queryParameters, adaptParameterValue(v))
		}
		return fmt.Sprintf("%s IN (%s)", p.Column, strings.TrimSuffix(strings.Repeat("?, ", len(p.Values)), ", "))
	case Between:
		lower, upper := ">=", "<="
		if p.MinExclusive {
			lower = ">"
		}
		if p.MaxExclusive {
			upper = "<"
		}
		*queryParameters = append(*queryParameters, adaptParameterValue(p.Min), adaptParameterValue(p.Max))
		return fmt.Sprintf("(%s %s ? AND %s %s ?)", p.Column, lower, p.Column, upper)
	case Like:
		*queryParameters = append(*queryParameters, p.Pattern)
		return fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, p.Column)
	case IsNull:
		if p.Negate {
			return p.Column + " IS NOT NULL"
		}
		return p.Column + " IS NULL"
	case InSelect:
		sub := fmt.Sprintf("SELECT %s FROM %s", p.SelectColumn, p.Table)
		if p.Where != nil {
			sub += " WHERE " + buildWhere(p.Where, queryParameters)
		}
		return fmt.Sprintf("%s IN (%s)", p.Column, sub)
	case RelatedCount:
		*queryParameters = append(*queryParameters, p.Min, p.Max)
		return fmt.Sprintf("(SELECT COUNT(*) FROM %s WHERE %s.%s = %s.%s) BETWEEN ? AND ?",
			p.RelatedTable, p.RelatedTable, p.RelatedColumn, p.Table, p.Column)
	case And:
		left := buildWhere(p.Left, queryParameters)
		return fmt.Sprintf("(%s AND %s)", left, buildWhere(p.Right, queryParameters))
	case Or:
		left := buildWhere(p.Left, queryParameters)
		return fmt.Sprintf("(%s OR %s)", left, buildWhere(p.Right, queryParameters))
	case Not:
		// A NULL inner result does not match, so its negation matches
		return fmt.Sprintf("(%s) IS NOT 1", buildWhere(p.Inner, queryParameters))
	default:
		panic(fmt.Sprintf("unsupported predicate %T", predicate))
	}
}

// TimeLayout is the storage representation of timestamps, it sorts lexicographically
const TimeLayout = types.TimestampFormat

func adaptParameterValue(value interface{}) interface{} {
	switch value := value.(type) {
	case time.Time:
		return value.UTC().Format(TimeLayout)
	case *time.Time:
		if value == nil {
			return nil
		}
		return value.UTC().Format(TimeLayout)
	}
	return value
}
