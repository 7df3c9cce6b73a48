package filter

import (
	"fmt"
)

var sqlColumns = map[Field]string{
	FieldDate:     "run_date",
	FieldDistance: "distance",
	FieldTime:     "duration_seconds::double precision",
	FieldLocation: "location",
}

var sqlOps = map[Op]string{
	OpEq: "=",
	OpNe: "<>",
	OpGt: ">",
	OpLt: "<",
}

// SQL renders e as a parenthesized PostgreSQL predicate. Placeholders are
// numbered from firstArg; the returned args bind them in order.
func SQL(e Expr, firstArg int) (string, []any) {
	b := &sqlBuilder{next: firstArg}
	clause := b.build(e)
	return clause, b.args
}

type sqlBuilder struct {
	next int
	args []any
}

func (b *sqlBuilder) build(e Expr) string {
	switch v := e.(type) {
	case logical:
		joiner := "OR"
		if v.and {
			joiner = "AND"
		}
		return fmt.Sprintf("(%s %s %s)", b.build(v.left), joiner, b.build(v.right))
	case comparison:
		var arg any
		switch v.field {
		case FieldDate:
			arg = v.date
		case FieldDistance, FieldTime:
			arg = v.num
		case FieldLocation:
			arg = v.str
		}
		b.args = append(b.args, arg)
		placeholder := b.next
		b.next++
		return fmt.Sprintf("(%s %s $%d)", sqlColumns[v.field], sqlOps[v.op], placeholder)
	}
	return "TRUE"
}
