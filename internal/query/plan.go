package query

import (
	"fmt"
	"strings"
)

// Plan is the resolved (filter, sort, skip, limit) tuple for one listing
// query. Conditions carry numbered placeholders starting at $1 and are
// combined by conjunction; Args line up with the placeholders.
type Plan struct {
	Conditions []string
	Args       []any
	OrderBy    string
	Limit      int
	Offset     int
	Page       int
}

// condition is one predicate fragment before placeholder numbering. The
// expression uses %d verbs, one per argument.
type condition struct {
	expr string
	args []any
}

// predicate inspects the parsed parameters and optionally contributes
// one condition. Predicates are independent and evaluated in order.
type predicate func(Params) (condition, bool)

var predicates = []predicate{
	categoryPredicate,
	brandPredicate,
	featuredPredicate,
	statusPredicate,
	minPricePredicate,
	maxPricePredicate,
	searchPredicate,
}

func categoryPredicate(p Params) (condition, bool) {
	if p.Category == "" {
		return condition{}, false
	}
	return condition{expr: "p.category_id = $%d", args: []any{p.Category}}, true
}

func brandPredicate(p Params) (condition, bool) {
	if p.Brand == "" {
		return condition{}, false
	}
	return condition{expr: "p.brand ILIKE $%d", args: []any{"%" + p.Brand + "%"}}, true
}

func featuredPredicate(p Params) (condition, bool) {
	if p.Featured == nil {
		return condition{}, false
	}
	return condition{expr: "p.featured = $%d", args: []any{*p.Featured}}, true
}

func statusPredicate(p Params) (condition, bool) {
	// Status always filters; ParseListParams defaults it to active.
	return condition{expr: "p.status = $%d", args: []any{p.Status}}, true
}

func minPricePredicate(p Params) (condition, bool) {
	if p.MinPrice == nil {
		return condition{}, false
	}
	// Range bounds apply to price, never discount_price.
	return condition{expr: "p.price >= $%d", args: []any{*p.MinPrice}}, true
}

func maxPricePredicate(p Params) (condition, bool) {
	if p.MaxPrice == nil {
		return condition{}, false
	}
	return condition{expr: "p.price <= $%d", args: []any{*p.MaxPrice}}, true
}

func searchPredicate(p Params) (condition, bool) {
	if p.Search == "" {
		return condition{}, false
	}
	return condition{
		expr: "to_tsvector('english', p.name || ' ' || p.description || ' ' || array_to_string(p.tags, ' ')) @@ plainto_tsquery('english', $%d)",
		args: []any{p.Search},
	}, true
}

// sortColumns whitelists the sortable fields. Anything else falls back
// to the default sort.
var sortColumns = map[string]string{
	"price":        "p.price",
	"name":         "p.name",
	"ratings":      "p.ratings",
	"stock":        "p.stock",
	"numOfReviews": "p.num_of_reviews",
	"createdAt":    "p.created_at",
}

const defaultOrderBy = "p.created_at DESC"

// OrderBy resolves the sort token into an ORDER BY clause. A leading
// '-' means descending; unknown fields and the empty token resolve to
// newest first. The product id is appended as a tiebreaker so paging is
// deterministic when the sort key has duplicates.
func (p Params) OrderBy() string {
	token := p.Sort
	desc := false
	if strings.HasPrefix(token, "-") {
		desc = true
		token = token[1:]
	}

	column, ok := sortColumns[token]
	if !ok {
		return defaultOrderBy + ", p.id"
	}

	if desc {
		return column + " DESC, p.id"
	}
	return column + " ASC, p.id"
}

// Plan resolves the parameters into an executable page plan.
func (p Params) Plan() Plan {
	plan := Plan{
		OrderBy: p.OrderBy(),
		Limit:   p.Limit,
		Offset:  p.Offset(),
		Page:    p.Page,
	}

	argIndex := 1
	for _, pred := range predicates {
		cond, ok := pred(p)
		if !ok {
			continue
		}

		verbs := make([]any, len(cond.args))
		for i := range cond.args {
			verbs[i] = argIndex
			argIndex++
		}

		plan.Conditions = append(plan.Conditions, fmt.Sprintf(cond.expr, verbs...))
		plan.Args = append(plan.Args, cond.args...)
	}

	return plan
}

// WhereClause joins the plan's conditions into a WHERE clause, or
// returns the empty string when no predicates apply.
func (pl Plan) WhereClause() string {
	if len(pl.Conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(pl.Conditions, " AND ")
}
