// Package search builds parameterised SQL WHERE clauses from API search
// parameters. It is shared by all domain repositories so that filter,
// prefix, and sort handling stay consistent across the API surface.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Prefix represents a comparison prefix for ordered search values.
type Prefix string

const (
	PrefixEq Prefix = "eq"
	PrefixNe Prefix = "ne"
	PrefixGt Prefix = "gt"
	PrefixLt Prefix = "lt"
	PrefixGe Prefix = "ge"
	PrefixLe Prefix = "le"
)

// Modifier represents a string search modifier.
type Modifier string

const (
	ModifierExact    Modifier = "exact"
	ModifierContains Modifier = "contains"
)

// ParsedValue holds a parsed search value with its prefix.
type ParsedValue struct {
	Prefix Prefix
	Value  string
}

// ParseValue extracts the comparison prefix from a search value.
// Examples: "gt2023-01-01" -> (gt, "2023-01-01"), "100" -> (eq, "100")
func ParseValue(raw string) ParsedValue {
	if len(raw) >= 2 {
		prefix := Prefix(strings.ToLower(raw[:2]))
		switch prefix {
		case PrefixEq, PrefixNe, PrefixGt, PrefixLt, PrefixGe, PrefixLe:
			return ParsedValue{Prefix: prefix, Value: raw[2:]}
		}
	}
	return ParsedValue{Prefix: PrefixEq, Value: raw}
}

// ParseParamModifier splits a parameter name from its modifier.
// Examples: "name:exact" -> ("name", "exact"), "code" -> ("code", "")
func ParseParamModifier(paramName string) (string, Modifier) {
	parts := strings.SplitN(paramName, ":", 2)
	if len(parts) == 2 {
		return parts[0], Modifier(parts[1])
	}
	return parts[0], ""
}

// DateClause generates SQL for a date search parameter with prefix support.
// Returns the clause, the arguments to bind, and the next parameter index.
func DateClause(column string, value string, argIdx int) (string, []interface{}, int) {
	parsed := ParseValue(value)

	t, err := parseFlexDate(parsed.Value)
	if err != nil {
		// Fallback to exact match on the raw string
		return fmt.Sprintf("%s::text = $%d", column, argIdx), []interface{}{parsed.Value}, argIdx + 1
	}

	switch parsed.Prefix {
	case PrefixGt:
		return fmt.Sprintf("%s > $%d", column, argIdx), []interface{}{t}, argIdx + 1
	case PrefixLt:
		return fmt.Sprintf("%s < $%d", column, argIdx), []interface{}{t}, argIdx + 1
	case PrefixGe:
		return fmt.Sprintf("%s >= $%d", column, argIdx), []interface{}{t}, argIdx + 1
	case PrefixLe:
		return fmt.Sprintf("%s <= $%d", column, argIdx), []interface{}{t}, argIdx + 1
	case PrefixNe:
		return fmt.Sprintf("%s != $%d", column, argIdx), []interface{}{t}, argIdx + 1
	default: // eq
		// For date-only values, match the entire day
		if len(parsed.Value) == 10 { // YYYY-MM-DD format
			endOfDay := t.Add(24*time.Hour - time.Nanosecond)
			clause := fmt.Sprintf("(%s >= $%d AND %s <= $%d)", column, argIdx, column, argIdx+1)
			return clause, []interface{}{t, endOfDay}, argIdx + 2
		}
		return fmt.Sprintf("%s = $%d", column, argIdx), []interface{}{t}, argIdx + 1
	}
}

// NumberClause generates SQL for a number search parameter with prefix support.
func NumberClause(column string, value string, argIdx int) (string, []interface{}, int) {
	parsed := ParseValue(value)

	switch parsed.Prefix {
	case PrefixGt:
		return fmt.Sprintf("%s > $%d", column, argIdx), []interface{}{parsed.Value}, argIdx + 1
	case PrefixLt:
		return fmt.Sprintf("%s < $%d", column, argIdx), []interface{}{parsed.Value}, argIdx + 1
	case PrefixGe:
		return fmt.Sprintf("%s >= $%d", column, argIdx), []interface{}{parsed.Value}, argIdx + 1
	case PrefixLe:
		return fmt.Sprintf("%s <= $%d", column, argIdx), []interface{}{parsed.Value}, argIdx + 1
	case PrefixNe:
		return fmt.Sprintf("%s != $%d", column, argIdx), []interface{}{parsed.Value}, argIdx + 1
	default:
		return fmt.Sprintf("%s = $%d", column, argIdx), []interface{}{parsed.Value}, argIdx + 1
	}
}

// TokenClause matches a coded value exactly.
func TokenClause(column string, value string, argIdx int) (string, []interface{}, int) {
	return fmt.Sprintf("%s = $%d", column, argIdx), []interface{}{value}, argIdx + 1
}

// StringClause handles string search parameters with modifier support.
// The default is a case-insensitive prefix match.
func StringClause(column string, value string, modifier Modifier, argIdx int) (string, []interface{}, int) {
	switch modifier {
	case ModifierExact:
		return fmt.Sprintf("%s = $%d", column, argIdx), []interface{}{value}, argIdx + 1
	case ModifierContains:
		return fmt.Sprintf("%s ILIKE $%d", column, argIdx), []interface{}{"%" + value + "%"}, argIdx + 1
	default:
		return fmt.Sprintf("%s ILIKE $%d", column, argIdx), []interface{}{value + "%"}, argIdx + 1
	}
}

// parseFlexDate parses a date string in the formats the API accepts.
func parseFlexDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
		"2006-01",
		"2006",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// ParamType defines how a search parameter maps onto its column.
type ParamType int

const (
	ParamToken  ParamType = iota // exact match on a coded column
	ParamDate                    // date column with prefix support
	ParamString                  // case-insensitive string match
	ParamRef                     // UUID reference column
	ParamNumber                  // numeric column with prefix support
)

// ParamConfig maps a search parameter to its database column.
type ParamConfig struct {
	Type   ParamType
	Column string
}

// Query builds SQL WHERE clauses from search parameters. It encapsulates
// the common search pattern used across all domain repositories.
type Query struct {
	table   string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

// NewQuery creates a new Query for the given table and column list.
func NewQuery(table, cols string) *Query {
	return &Query{table: table, cols: cols, idx: 1}
}

// Add appends a raw WHERE clause fragment (without leading "AND").
func (q *Query) Add(clause string, args ...interface{}) {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// AddToken adds an exact-match clause for a coded column.
func (q *Query) AddToken(column, value string) {
	clause, args, nextIdx := TokenClause(column, value, q.idx)
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx = nextIdx
}

// AddDate adds a date clause with prefix support (gt, lt, ge, le, ne, eq).
func (q *Query) AddDate(column, value string) {
	clause, args, nextIdx := DateClause(column, value, q.idx)
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx = nextIdx
}

// AddString adds a string clause with modifier support (exact, contains).
func (q *Query) AddString(column, value string, modifier Modifier) {
	clause, args, nextIdx := StringClause(column, value, modifier, q.idx)
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx = nextIdx
}

// AddNumber adds a number clause with prefix support.
func (q *Query) AddNumber(column, value string) {
	clause, args, nextIdx := NumberClause(column, value, q.idx)
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx = nextIdx
}

// ApplyParam applies a single search parameter using the config.
func (q *Query) ApplyParam(config ParamConfig, value string) {
	switch config.Type {
	case ParamDate:
		q.AddDate(config.Column, value)
	case ParamString:
		q.AddString(config.Column, value, "")
	case ParamNumber:
		q.AddNumber(config.Column, value)
	default: // token, reference
		q.AddToken(config.Column, value)
	}
}

// ApplyParams applies all matching search parameters from the given map.
// Parameters without a config entry are ignored.
func (q *Query) ApplyParams(params map[string]string, configs map[string]ParamConfig) {
	for name, value := range params {
		base, modifier := ParseParamModifier(name)
		config, ok := configs[base]
		if !ok {
			continue
		}
		if config.Type == ParamString && modifier != "" {
			q.AddString(config.Column, value, modifier)
			continue
		}
		q.ApplyParam(config, value)
	}
}

// OrderBy sets the ORDER BY clause (without the "ORDER BY" keyword).
func (q *Query) OrderBy(orderBy string) {
	q.orderBy = orderBy
}

// ApplySort processes the sort parameter and sets ORDER BY using config
// column mappings. The value is a comma-separated list of param names,
// optionally prefixed with - for DESC. Falls back to defaultOrder.
func (q *Query) ApplySort(sortParam, defaultOrder string, configs map[string]ParamConfig) {
	if sortParam == "" {
		q.orderBy = defaultOrder
		return
	}
	var parts []string
	for _, field := range strings.Split(sortParam, ",") {
		field = strings.TrimSpace(field)
		desc := false
		if strings.HasPrefix(field, "-") {
			desc = true
			field = field[1:]
		}
		if config, ok := configs[field]; ok {
			if desc {
				parts = append(parts, config.Column+" DESC")
			} else {
				parts = append(parts, config.Column+" ASC")
			}
		}
	}
	if len(parts) > 0 {
		q.orderBy = strings.Join(parts, ", ")
	} else {
		q.orderBy = defaultOrder
	}
}

// CountSQL returns the count query SQL.
func (q *Query) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", q.table, q.where)
}

// CountArgs returns the arguments for the count query.
func (q *Query) CountArgs() []interface{} {
	return q.args
}

// DataSQL returns the data query SQL with ORDER BY and LIMIT/OFFSET.
func (q *Query) DataSQL() string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.table, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
	return sql
}

// DataArgs returns the arguments for the data query (search args + limit + offset).
func (q *Query) DataArgs(limit, offset int) []interface{} {
	result := make([]interface{}, len(q.args)+2)
	copy(result, q.args)
	result[len(q.args)] = limit
	result[len(q.args)+1] = offset
	return result
}

// ExtractParams extracts search parameters from the query string, excluding
// pagination and tenant control parameters. The "sort" parameter is kept so
// repositories can feed it to ApplySort; ApplyParams ignores it because no
// config entry matches. Unknown params are likewise ignored by ApplyParams.
func ExtractParams(c echo.Context) map[string]string {
	params := map[string]string{}
	for k, v := range c.QueryParams() {
		if len(v) == 0 {
			continue
		}
		switch k {
		case "limit", "offset", "tenant_id":
			continue
		}
		params[k] = v[0]
	}
	return params
}
