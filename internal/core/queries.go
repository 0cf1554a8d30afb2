package core

type QueryKind int

const (
	QueryEqual QueryKind = iota
	QuerySearch
	QueryOrderDesc
	QueryLimit
	QueryCursorAfter
)

// Query is a store-agnostic list primitive, the subset of the BaaS query
// language the application actually uses.
type Query struct {
	Kind   QueryKind
	Field  string
	Value  any
	Limit  int
	Cursor string
}

func Equal(field string, value any) Query {
	return Query{Kind: QueryEqual, Field: field, Value: value}
}

func Search(field string, term string) Query {
	return Query{Kind: QuerySearch, Field: field, Value: term}
}

func OrderDesc(field string) Query {
	return Query{Kind: QueryOrderDesc, Field: field}
}

func Limit(n int) Query {
	return Query{Kind: QueryLimit, Limit: n}
}

// CursorAfter makes listing start strictly after the document with the
// given id, in the listing's own order.
func CursorAfter(id string) Query {
	return Query{Kind: QueryCursorAfter, Cursor: id}
}
