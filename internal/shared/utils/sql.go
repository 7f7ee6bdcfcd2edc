package utils

import (
	"strconv"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// WhereClause trả về "" khi không có điều kiện, ngược lại "WHERE a AND b"
func WhereClause(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return "WHERE " + JoinWithAnd(clauses)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern: "50%" -> "%50\%%" cho LIKE (escape char mặc định là \)
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Args gom tham số cho query và trả về placeholder $n tương ứng
type Args struct {
	values []any
}

func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

func (a *Args) Values() []any {
	return a.values
}
