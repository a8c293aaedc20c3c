package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscape is declared with ESCAPE on every substring match. A backslash
// would need different quoting on mysql than on postgres and sqlite.
const likeEscape = "ESCAPE '!'"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern returns a lower-cased LIKE pattern matching s anywhere.
// Wildcards in s match literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// Field names a column of type V. Conditions and assignments built from a
// Field are checked against V at compile time.
type Field[V any] struct {
	column string
}

// NewField declares a column.
func NewField[V any](column string) Field[V] {
	return Field[V]{column: column}
}

// Column returns the column name.
func (f Field[V]) Column() string {
	return f.column
}

// Eq matches rows where the column equals v.
func (f Field[V]) Eq(v V) Condition {
	return Condition{column: f.column, value: v}
}

// EqPtr matches rows where the column equals *v. A nil v is skipped, which
// lets callers pass optional search parameters straight through.
func (f Field[V]) EqPtr(v *V) Condition {
	if v == nil {
		return Condition{column: f.column, skip: true}
	}
	return Condition{column: f.column, value: *v}
}

// Set assigns v to the column.
func (f Field[V]) Set(v V) Assignment {
	return Assignment{column: f.column, value: v}
}

// Asc orders by the column ascending.
func (f Field[V]) Asc() Order {
	return Order{column: f.column}
}

// Desc orders by the column descending.
func (f Field[V]) Desc() Order {
	return Order{column: f.column, desc: true}
}

// Condition is a single equality predicate.
type Condition struct {
	column string
	value  any
	skip   bool
}

// Skipped reports whether the condition was built from an absent value.
func (c Condition) Skipped() bool {
	return c.skip
}

// Assignment is a single column update.
type Assignment struct {
	column string
	value  any
}

// Column returns the assigned column.
func (a Assignment) Column() string {
	return a.column
}

// Value returns the assigned value.
func (a Assignment) Value() any {
	return a.value
}

// Order is a single ORDER BY term.
type Order struct {
	column string
	desc   bool
}

// Filter is a conjunction of conditions with optional ordering and paging.
// A zero Limit means no limit.
type Filter struct {
	Where  []Condition
	Order  []Order
	Limit  int
	Offset int
}

// Page bounds a result set. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

// DefaultListLimit caps GetAll when neither All nor Limit is given.
const DefaultListLimit = 100

// ListOptions controls GetAll.
type ListOptions struct {
	All    bool
	Limit  int
	Offset int
	Order  []Order
}

func applyConditions(db *gorm.DB, conds []Condition) *gorm.DB {
	for _, c := range conds {
		if c.skip {
			continue
		}
		db = db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: c.column},
			Value:  c.value,
		})
	}
	return db
}

func applyOrder(db *gorm.DB, orders []Order) *gorm.DB {
	for _, o := range orders {
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Table: clause.CurrentTable, Name: o.column},
			Desc:   o.desc,
		})
	}
	return db
}

func applyPage(db *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		db = db.Limit(limit)
	}
	if offset > 0 {
		db = db.Offset(offset)
	}
	return db
}

func assignments(assigns []Assignment) map[string]any {
	values := make(map[string]any, len(assigns))
	for _, a := range assigns {
		values[a.column] = a.value
	}
	return values
}

func hasCondition(conds []Condition) bool {
	for _, c := range conds {
		if !c.skip {
			return true
		}
	}
	return false
}
