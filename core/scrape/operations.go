package scrape

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gaurav-prasanna/pagequery/core"
	"github.com/gaurav-prasanna/pagequery/core/find"
)

// ErrUnknownOperation is returned by Lookup for unregistered names.
var ErrUnknownOperation = errors.New("unknown operation")

// Operation is one registered finder with its positional arguments.
type Operation struct {
	Name        string   `json:"name"`
	Args        []string `json:"args"`
	Description string   `json:"description"`

	build func(args []string) (find.Criteria, error)
}

// Build validates args and returns the criteria.
func (op Operation) Build(args []string) (find.Criteria, error) {
	if len(args) != len(op.Args) {
		return find.Criteria{}, fmt.Errorf("%w: %s takes %d argument(s) %v, got %d",
			core.ErrInvalidArgument, op.Name, len(op.Args), op.Args, len(args))
	}
	return op.build(args)
}

func nullary(fn func() find.Criteria) func([]string) (find.Criteria, error) {
	return func([]string) (find.Criteria, error) { return fn(), nil }
}

func unary(fn func(string) (find.Criteria, error)) func([]string) (find.Criteria, error) {
	return func(args []string) (find.Criteria, error) { return fn(args[0]) }
}

func binary(fn func(string, string) (find.Criteria, error)) func([]string) (find.Criteria, error) {
	return func(args []string) (find.Criteria, error) { return fn(args[0], args[1]) }
}

var operations = []Operation{
	{Name: "select", Args: []string{"selector"}, build: unary(find.Selector),
		Description: "Elements matching a CSS selector."},
	{Name: "links", build: nullary(find.Links),
		Description: "Anchors carrying an href."},
	{Name: "media-links", build: nullary(find.Media),
		Description: "Elements carrying a src."},
	{Name: "by-id", Args: []string{"id"}, build: unary(find.ID),
		Description: "The first element with the id."},
	{Name: "by-tag", Args: []string{"tag"}, build: unary(find.Tag),
		Description: "Elements with the tag name."},
	{Name: "by-class", Args: []string{"className"}, build: unary(find.Class),
		Description: "Elements carrying the class."},
	{Name: "by-attribute", Args: []string{"key"}, build: unary(find.Attribute),
		Description: "Elements that have the attribute."},
	{Name: "by-attribute-starting", Args: []string{"keyPrefix"}, build: unary(find.AttributeStarting),
		Description: "Elements with an attribute key starting with the prefix."},
	{Name: "by-attribute-value", Args: []string{"key", "value"}, build: binary(find.AttributeValue),
		Description: "Elements whose attribute equals the value."},
	{Name: "by-attribute-value-not", Args: []string{"key", "value"}, build: binary(find.AttributeValueNot),
		Description: "Elements lacking the attribute or with a different value."},
	{Name: "by-attribute-value-starting", Args: []string{"key", "valuePrefix"}, build: binary(find.AttributeValueStarting),
		Description: "Elements whose attribute value starts with the prefix."},
	{Name: "by-attribute-value-ending", Args: []string{"key", "valueSuffix"}, build: binary(find.AttributeValueEnding),
		Description: "Elements whose attribute value ends with the suffix."},
	{Name: "by-attribute-value-containing", Args: []string{"key", "match"}, build: binary(find.AttributeValueContaining),
		Description: "Elements whose attribute value contains the text."},
	{Name: "by-attribute-value-matching", Args: []string{"key", "regex"}, build: binary(find.AttributeValueMatching),
		Description: "Elements whose attribute value matches the pattern."},
	{Name: "by-index-equals", Args: []string{"index"}, build: unary(find.IndexEquals),
		Description: "Elements at the sibling index."},
	{Name: "by-index-greater-than", Args: []string{"index"}, build: unary(find.IndexGreaterThan),
		Description: "Elements after the sibling index."},
	{Name: "by-index-less-than", Args: []string{"index"}, build: unary(find.IndexLessThan),
		Description: "Elements before the sibling index."},
	{Name: "containing-own-text", Args: []string{"searchText"}, build: unary(find.ContainingOwnText),
		Description: "Elements whose own text contains the text."},
	{Name: "containing-text", Args: []string{"searchText"}, build: unary(find.ContainingText),
		Description: "Elements whose text, descendants included, contains the text."},
	{Name: "matching-own-text", Args: []string{"regex"}, build: unary(find.MatchingOwnText),
		Description: "Elements whose own text matches the pattern."},
	{Name: "matching-text", Args: []string{"regex"}, build: unary(find.MatchingText),
		Description: "Elements whose text, descendants included, matches the pattern."},
	{Name: "all", build: nullary(find.All),
		Description: "Every element."},
	{Name: "xpath", Args: []string{"expression"}, build: unary(find.XPath),
		Description: "Elements selected by an XPath expression."},
}

var operationsByName = func() map[string]Operation {
	m := make(map[string]Operation, len(operations))
	for _, op := range operations {
		m[op.Name] = op
	}
	return m
}()

// Operations returns the registered finders sorted by name.
func Operations() []Operation {
	ops := make([]Operation, len(operations))
	copy(ops, operations)
	for i := range ops {
		if ops[i].Args == nil {
			ops[i].Args = []string{}
		}
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}

// Lookup returns the operation registered under name.
func Lookup(name string) (Operation, error) {
	op, ok := operationsByName[name]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return op, nil
}
