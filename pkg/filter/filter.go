// Package filter provides AIP-160 filter expression parsing and SQL translation.
package filter

import (
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

// Condition is a SQL WHERE clause fragment with its positional parameters.
type Condition struct {
	Clause string
	Params []any
}

// Empty reports whether the condition matches everything.
func (c Condition) Empty() bool {
	return c.Clause == ""
}

// Schema declares the filterable fields of one table.
type Schema struct {
	// Columns maps filter field names to SQL column names.
	Columns map[string]string
	// Validators check constant values for a field, e.g. enum names.
	Validators map[string]func(string) error

	decls []filtering.DeclarationOption
}

// ProjectSchema returns the filterable fields of projects.
func ProjectSchema() Schema {
	return Schema{
		Columns: map[string]string{
			"name":        "name",
			"country":     "country",
			"sector":      "sector",
			"status":      "status",
			"sponsor":     "sponsor",
			"currency":    "currency",
			"total_value": "total_value",
			"risk_score":  "risk_score",
			"create_time": "created_at",
		},
		Validators: map[string]func(string) error{
			"sector": func(s string) error {
				_, err := model.SectorTypeString(s)
				return err
			},
			"status": func(s string) error {
				_, err := model.ProjectStatusString(s)
				return err
			},
		},
		decls: ProjectDeclarations(),
	}
}

// ProjectDeclarations returns the field declarations for project filtering.
func ProjectDeclarations() []filtering.DeclarationOption {
	return []filtering.DeclarationOption{
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("name", filtering.TypeString),
		filtering.DeclareIdent("country", filtering.TypeString),
		filtering.DeclareIdent("sector", filtering.TypeString),
		filtering.DeclareIdent("status", filtering.TypeString),
		filtering.DeclareIdent("sponsor", filtering.TypeString),
		filtering.DeclareIdent("currency", filtering.TypeString),
		filtering.DeclareIdent("total_value", filtering.TypeFloat),
		filtering.DeclareIdent("risk_score", filtering.TypeFloat),
		filtering.DeclareIdent("create_time", filtering.TypeTimestamp),
	}
}

// Parse parses an AIP-160 filter expression against schema and returns a
// SQL condition. An empty filter string yields an empty condition.
func Parse(filterStr string, schema Schema) (Condition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return Condition{}, nil
	}

	decls, err := filtering.NewDeclarations(schema.decls...)
	if err != nil {
		return Condition{}, fmt.Errorf("create declarations: %w", err)
	}

	filter, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return Condition{}, fmt.Errorf("parse filter: %w", err)
	}

	t := translator{schema: schema}
	return t.expr(filter.CheckedExpr.GetExpr())
}

type translator struct {
	schema Schema
}

func (t translator) expr(e *expr.Expr) (Condition, error) {
	if e == nil {
		return Condition{}, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return t.call(kind.CallExpr)
	default:
		return Condition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func (t translator) call(call *expr.Expr_Call) (Condition, error) {
	switch call.Function {
	case filtering.FunctionAnd, "_&&_":
		return t.join(call.Args, "AND")
	case filtering.FunctionOr, "_||_":
		return t.join(call.Args, "OR")
	case filtering.FunctionNot, "-":
		return t.not(call.Args)
	case filtering.FunctionEquals, "_==_":
		return t.comparison(call.Args, "=")
	case filtering.FunctionNotEquals, "_!=_":
		return t.comparison(call.Args, "<>")
	case filtering.FunctionLessThan, "_<_":
		return t.comparison(call.Args, "<")
	case filtering.FunctionLessEquals, "_<=_":
		return t.comparison(call.Args, "<=")
	case filtering.FunctionGreaterThan, "_>_":
		return t.comparison(call.Args, ">")
	case filtering.FunctionGreaterEquals, "_>=_":
		return t.comparison(call.Args, ">=")
	case filtering.FunctionHas:
		return t.has(call.Args)
	default:
		return Condition{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func (t translator) join(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("%s requires 2 arguments", op)
	}

	left, err := t.expr(args[0])
	if err != nil {
		return Condition{}, err
	}

	right, err := t.expr(args[1])
	if err != nil {
		return Condition{}, err
	}

	return Condition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func (t translator) not(args []*expr.Expr) (Condition, error) {
	if len(args) != 1 {
		return Condition{}, fmt.Errorf("NOT requires 1 argument")
	}
	inner, err := t.expr(args[0])
	if err != nil {
		return Condition{}, err
	}
	return Condition{Clause: fmt.Sprintf("NOT %s", inner.Clause), Params: inner.Params}, nil
}

func (t translator) comparison(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("comparison requires 2 arguments")
	}

	field, column, err := t.column(args[0])
	if err != nil {
		return Condition{}, err
	}

	value, err := t.value(field, args[1])
	if err != nil {
		return Condition{}, err
	}

	return Condition{
		Clause: fmt.Sprintf("%s %s ?", column, op),
		Params: []any{value},
	}, nil
}

// has translates "field:value" on a string field into a case-insensitive substring match.
func (t translator) has(args []*expr.Expr) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("has requires 2 arguments")
	}

	_, column, err := t.column(args[0])
	if err != nil {
		return Condition{}, err
	}

	value, err := constValue(args[1])
	if err != nil {
		return Condition{}, err
	}
	s, ok := value.(string)
	if !ok {
		return Condition{}, fmt.Errorf("has operator requires a string value")
	}

	return Condition{
		Clause: fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", column),
		Params: []any{"%" + escapeLike(strings.ToLower(s)) + "%"},
	}, nil
}

func (t translator) column(e *expr.Expr) (string, string, error) {
	ident, ok := e.GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return "", "", fmt.Errorf("expected identifier, got %T", e.GetExprKind())
	}
	field := ident.IdentExpr.GetName()
	column, ok := t.schema.Columns[field]
	if !ok {
		return "", "", fmt.Errorf("unknown field: %s", field)
	}
	return field, column, nil
}

func (t translator) value(field string, e *expr.Expr) (any, error) {
	if call, ok := e.GetExprKind().(*expr.Expr_CallExpr); ok {
		if call.CallExpr.Function == filtering.FunctionTimestamp && len(call.CallExpr.Args) == 1 {
			return timestampValue(call.CallExpr.Args[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", call.CallExpr.Function)
	}

	v, err := constValue(e)
	if err != nil {
		return nil, err
	}
	if s, ok := v.(string); ok {
		if validate, ok := t.schema.Validators[field]; ok {
			if err := validate(s); err != nil {
				return nil, fmt.Errorf("invalid value for %s: %w", field, err)
			}
		}
	}
	return v, nil
}

func constValue(e *expr.Expr) (any, error) {
	kind, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}

	switch c := kind.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return c.StringValue, nil
	case *expr.Constant_Int64Value:
		return c.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return c.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return c.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return c.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", c)
	}
}

func timestampValue(e *expr.Expr) (time.Time, error) {
	v, err := constValue(e)
	if err != nil {
		return time.Time{}, err
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp argument must be a string")
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp format: %s", s)
	}
	return ts.UTC(), nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
