package gotables

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/clause"
)

type (
	tPredicate struct {
		Column   string
		Value    any
		Operator Operator
	}

	tDisjunction []tPredicate

	// tCNF represents the conjunctive normal form (CNF) of the search
	// condition. Each disjunction is joined by AND, and each disjunction
	// consists of a list of predicates which are joined by OR. A predicate is
	// the value of Operator(Column, Value).
	//
	// Thus:
	//
	//	CNF = X1 AND X2 ... AND Xn, where Xi = Ai1 OR Ai2 ... OR Aim.
	//
	// The global search is a single disjunction over every searchable column,
	// each column search is a disjunction with a single predicate.
	tCNF []tDisjunction
)

// toGORMExpression converts a predicate of the form Operator(Column, Value)
// into an SQL condition "Column Operator ?" represented as a clause.Expression.
func (p tPredicate) toGORMExpression() clause.Expression {
	sqlClause, arg := p.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{arg},
	}
}

// toSQLClause converts a predicate to an SQL condition of the form
// "Column Operator ?" with a corresponding value. LIKE conditions declare
// likeEscape as their escape character.
//
// Example:
//
//	tPredicate = { Column: "name", Operator: "LIKE", Value: "%abc%"}
//
// Result:
//
//	("name LIKE ? ESCAPE '!'", "%abc%")
func (p tPredicate) toSQLClause() (string, driver.Value) {
	if p.Operator == OperatorLike {
		return fmt.Sprintf("%s %s ? ESCAPE '%s'", p.Column, p.Operator, likeEscape), p.Value
	}

	return fmt.Sprintf("%s %s ?", p.Column, p.Operator), parseAnyValue(p.Value)
}

// parseAnyValue turns RFC 3339 strings into time.Time so that range searches
// on timestamp columns compare timestamps. Other values are returned as-is.
func parseAnyValue(v any) any {
	fnParseBytesToTimeOrValue := func(vBytes []byte) any {
		dst := time.Time{}
		err := dst.UnmarshalText(vBytes)
		if err == nil {
			return dst
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return fnParseBytesToTimeOrValue([]byte(vt))
	case []byte:
		return fnParseBytesToTimeOrValue(vt)
	default:
		return v
	}
}

// toGORMExpression converts a disjunction (P1, P2, P3) into a gorm expression
// "P1 OR P2 OR P3".
func (d tDisjunction) toGORMExpression() clause.Expression {
	orExpressions := make([]clause.Expression, 0, len(d))
	for _, predicate := range d {
		orExpressions = append(orExpressions, predicate.toGORMExpression())
	}

	if len(orExpressions) == 1 {
		return orExpressions[0]
	} else if len(orExpressions) > 1 {
		return clause.Or(orExpressions...)
	}

	return nil
}

// toSQLClause converts a disjunction (P1, P2, P3) into an SQL condition
// "(P1 OR P2 OR P3)" with the values for its placeholders.
func (d tDisjunction) toSQLClause() (string, []driver.Value) {
	orClauses := make([]string, 0, len(d))
	orValues := make([]driver.Value, 0, len(d))

	for _, predicate := range d {
		orClause, orValue := predicate.toSQLClause()
		orClauses = append(orClauses, orClause)
		orValues = append(orValues, orValue)
	}

	if len(orClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(orClauses, " OR ")), orValues
	}

	return "", nil
}

// toGORMExpression joins the disjunctions of the CNF with AND. Returns nil for
// an empty CNF.
func (c tCNF) toGORMExpression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(c))

	for _, disjunction := range c {
		orExpression := disjunction.toGORMExpression()
		if orExpression == nil {
			continue
		}

		andExpressions = append(andExpressions, orExpression)
	}

	if len(andExpressions) == 1 {
		return andExpressions[0]
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...)
	}

	return nil
}

// toSQLClause converts a CNF into an SQL condition with the values for its
// placeholders.
//
// Example:
//
//	tCNF = {
//		{{Column: "name", Operator: "LIKE", Value: "%a%"}, {Column: "city", Operator: "LIKE", Value: "%a%"}},
//		{{Column: "age", Operator: ">=", Value: 18}},
//	}
//
// Result:
//
//	("((name LIKE ? ESCAPE '!' OR city LIKE ? ESCAPE '!') AND (age >= ?))", ["%a%", "%a%", 18])
func (c tCNF) toSQLClause() (string, []driver.Value) {
	andClauses := make([]string, 0, len(c))
	values := make([]driver.Value, 0, len(c))

	for _, disjunction := range c {
		andClause, andValues := disjunction.toSQLClause()
		if andClause == "" {
			continue
		}

		andClauses = append(andClauses, andClause)
		values = append(values, andValues...)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), values
	}

	return "TRUE", nil
}

// likeEscape is the escape character declared by every LIKE condition.
const likeEscape = "!"

var _likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// likeContains builds a LIKE pattern matching term anywhere in the column.
func likeContains(term string) string {
	return "%" + _likeEscaper.Replace(term) + "%"
}
