// Package filter defines the small predicate DSL used uniformly across
// read paths: text/number/boolean/date leaves composed with And/Or/Not.
// It has no knowledge of SQL or any other storage backend; sqlfilter
// compiles a tree built from this package into storage predicates.
package filter

import "time"

// TextOp is an operator over a string field.
type TextOp struct {
	Equals     *string
	Contains   *string
	StartsWith *string
	EndsWith   *string
}

// NumberRange is the operand of NumberOp.Between.
type NumberRange struct {
	Start float64
	End   float64
}

// NumberOp is an operator over a numeric field.
type NumberOp struct {
	Equals      *float64
	LessThan    *float64
	GreaterThan *float64
	Between     *NumberRange
}

// BooleanOp is an operator over a boolean field.
type BooleanOp struct {
	Equals *bool
}

// DateRange is the operand of DateOp.Between.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DateOp is an operator over a timestamp field. InLast is expressed in
// seconds, matching the queue/scheduler's duration conventions.
type DateOp struct {
	Before  *time.Time
	After   *time.Time
	Between *DateRange
	InLast  *uint64
}

// Kind discriminates the node variants of a Filter tree.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBoolean
	KindDate
	KindAnd
	KindOr
	KindNot
)

// Filter is a node in the predicate tree. Exactly one of the leaf payloads
// (Text/Number/Boolean/Date) is populated for leaf kinds; Children holds the
// operands of And/Or, and the single operand of Not.
type Filter struct {
	Kind Kind

	Field string
	Text  *TextOp
	Num   *NumberOp
	Bool  *BooleanOp
	Date  *DateOp

	Children []Filter
}

// And builds a conjunction.
func And(children ...Filter) Filter { return Filter{Kind: KindAnd, Children: children} }

// Or builds a disjunction.
func Or(children ...Filter) Filter { return Filter{Kind: KindOr, Children: children} }

// Not negates a single filter.
func Not(f Filter) Filter { return Filter{Kind: KindNot, Children: []Filter{f}} }

// TextField builds a Text leaf.
func TextField(field string, op TextOp) Filter {
	return Filter{Kind: KindText, Field: field, Text: &op}
}

// NumberField builds a Number leaf.
func NumberField(field string, op NumberOp) Filter {
	return Filter{Kind: KindNumber, Field: field, Num: &op}
}

// BooleanField builds a Boolean leaf.
func BooleanField(field string, op BooleanOp) Filter {
	return Filter{Kind: KindBoolean, Field: field, Bool: &op}
}

// DateField builds a Date leaf.
func DateField(field string, op DateOp) Filter {
	return Filter{Kind: KindDate, Field: field, Date: &op}
}

// Bookmark field names recognized by BookmarkFilter.
const (
	BookmarkFieldLink        = "link"
	BookmarkFieldTitle       = "title"
	BookmarkFieldAuthor      = "author"
	BookmarkFieldTag         = "tag"
	BookmarkFieldPublishedAt = "published_at"
	BookmarkFieldCreatedAt   = "created_at"
	BookmarkFieldUpdatedAt   = "updated_at"
)

// BookmarkFilter is a Filter tree restricted (by convention, not by the
// type system) to the bookmark field set above.
type BookmarkFilter = Filter

// SubscriptionEntry field names recognized by SubscriptionEntryFilter.
const (
	EntryFieldTitle       = "title"
	EntryFieldDescription = "description"
	EntryFieldAuthor      = "author"
	EntryFieldTag         = "tag"
	EntryFieldPublishedAt = "published_at"
	EntryFieldHasRead     = "has_read"
)

// SubscriptionEntryFilter is a Filter tree restricted (by convention) to the
// subscription-entry field set above.
type SubscriptionEntryFilter = Filter
