// Package find implements the predicate catalogue: every finder is a
// Criteria value applied by Find to a scope node.
//
// Constructors validate their arguments up front, so a built Criteria
// cannot fail when applied to a parsed tree.
package find

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/xpath"

	"github.com/gaurav-prasanna/pagequery/core"
	"github.com/gaurav-prasanna/pagequery/core/dom"
)

// Kind identifies a finder.
type Kind int

const (
	KindSelector Kind = iota
	KindID
	KindTag
	KindClass
	KindAttribute
	KindAttributeStarting
	KindAttributeValue
	KindAttributeValueNot
	KindAttributeValueStarting
	KindAttributeValueEnding
	KindAttributeValueContaining
	KindAttributeValueMatching
	KindIndexEquals
	KindIndexGreaterThan
	KindIndexLessThan
	KindContainingOwnText
	KindContainingText
	KindMatchingOwnText
	KindMatchingText
	KindAll
	KindXPath
)

var kindNames = map[Kind]string{
	KindSelector:                 "selector",
	KindID:                       "id",
	KindTag:                      "tag",
	KindClass:                    "class",
	KindAttribute:                "attribute",
	KindAttributeStarting:        "attribute-starting",
	KindAttributeValue:           "attribute-value",
	KindAttributeValueNot:        "attribute-value-not",
	KindAttributeValueStarting:   "attribute-value-starting",
	KindAttributeValueEnding:     "attribute-value-ending",
	KindAttributeValueContaining: "attribute-value-containing",
	KindAttributeValueMatching:   "attribute-value-matching",
	KindIndexEquals:              "index-equals",
	KindIndexGreaterThan:         "index-greater-than",
	KindIndexLessThan:            "index-less-than",
	KindContainingOwnText:        "containing-own-text",
	KindContainingText:           "containing-text",
	KindMatchingOwnText:          "matching-own-text",
	KindMatchingText:             "matching-text",
	KindAll:                      "all",
	KindXPath:                    "xpath",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Criteria is one finder with its validated arguments.
type Criteria struct {
	kind Kind
	// raw keeps the arguments as given, for logging.
	raw []string

	key   string
	value string
	index int
	re    *regexp.Regexp
	sel   cascadia.Selector
	expr  *xpath.Expr
}

// Kind returns the finder kind.
func (c Criteria) Kind() Kind {
	return c.kind
}

func (c Criteria) String() string {
	return fmt.Sprintf("%s(%s)", c.kind, strings.Join(c.raw, ", "))
}

// Selector matches a CSS selector against the scope.
func Selector(query string) (Criteria, error) {
	if err := required("selector", query); err != nil {
		return Criteria{}, err
	}
	sel, err := cascadia.Compile(query)
	if err != nil {
		return Criteria{}, fmt.Errorf("%w: %q: %w", core.ErrInvalidSelector, query, err)
	}
	return Criteria{kind: KindSelector, raw: []string{query}, sel: sel}, nil
}

// Links matches anchors carrying an href (a[href]).
func Links() Criteria {
	c, _ := Selector("a[href]")
	return c
}

// Media matches any element carrying a src ([src]).
func Media() Criteria {
	c, _ := Selector("[src]")
	return c
}

// ID matches the first element whose id equals id exactly.
func ID(id string) (Criteria, error) {
	if err := required("id", id); err != nil {
		return Criteria{}, err
	}
	return Criteria{kind: KindID, raw: []string{id}, value: id}, nil
}

// Tag matches elements by tag name, case-insensitively.
func Tag(tag string) (Criteria, error) {
	tag = normalise(tag)
	if err := required("tag", tag); err != nil {
		return Criteria{}, err
	}
	return Criteria{kind: KindTag, raw: []string{tag}, value: tag}, nil
}

// Class matches elements carrying the class token, case-insensitively.
func Class(className string) (Criteria, error) {
	className = strings.TrimSpace(className)
	if err := required("class name", className); err != nil {
		return Criteria{}, err
	}
	return Criteria{kind: KindClass, raw: []string{className}, value: className}, nil
}

// Attribute matches elements that carry key with any value.
func Attribute(key string) (Criteria, error) {
	return keyed(KindAttribute, key)
}

// AttributeStarting matches elements with any attribute key starting with prefix.
func AttributeStarting(prefix string) (Criteria, error) {
	return keyed(KindAttributeStarting, prefix)
}

// AttributeValue matches key == value (case-insensitive, attribute value trimmed).
func AttributeValue(key, value string) (Criteria, error) {
	return keyValue(KindAttributeValue, key, value)
}

// AttributeValueNot matches elements lacking key or having a different value.
func AttributeValueNot(key, value string) (Criteria, error) {
	return keyValue(KindAttributeValueNot, key, value)
}

// AttributeValueStarting matches values starting with prefix (case-insensitive).
func AttributeValueStarting(key, prefix string) (Criteria, error) {
	return keyValue(KindAttributeValueStarting, key, prefix)
}

// AttributeValueEnding matches values ending with suffix (case-insensitive).
func AttributeValueEnding(key, suffix string) (Criteria, error) {
	return keyValue(KindAttributeValueEnding, key, suffix)
}

// AttributeValueContaining matches values containing match (case-insensitive).
func AttributeValueContaining(key, match string) (Criteria, error) {
	return keyValue(KindAttributeValueContaining, key, match)
}

// AttributeValueMatching matches values the pattern finds a match in.
func AttributeValueMatching(key, pattern string) (Criteria, error) {
	c, err := keyed(KindAttributeValueMatching, key)
	if err != nil {
		return Criteria{}, err
	}
	if c.re, err = compile(pattern); err != nil {
		return Criteria{}, err
	}
	c.raw = append(c.raw, pattern)
	return c, nil
}

// IndexEquals matches elements at exactly the given sibling index.
func IndexEquals(index string) (Criteria, error) {
	return indexed(KindIndexEquals, index)
}

// IndexGreaterThan matches elements whose sibling index exceeds index.
func IndexGreaterThan(index string) (Criteria, error) {
	return indexed(KindIndexGreaterThan, index)
}

// IndexLessThan matches elements whose sibling index is below index.
func IndexLessThan(index string) (Criteria, error) {
	return indexed(KindIndexLessThan, index)
}

// ContainingOwnText matches elements whose own text contains text (case-insensitive).
func ContainingOwnText(text string) (Criteria, error) {
	return searched(KindContainingOwnText, text), nil
}

// ContainingText matches elements whose full text contains text (case-insensitive).
func ContainingText(text string) (Criteria, error) {
	return searched(KindContainingText, text), nil
}

// MatchingOwnText matches elements whose own text the pattern finds a match in.
func MatchingOwnText(pattern string) (Criteria, error) {
	return patterned(KindMatchingOwnText, pattern)
}

// MatchingText matches elements whose full text the pattern finds a match in.
func MatchingText(pattern string) (Criteria, error) {
	return patterned(KindMatchingText, pattern)
}

// All matches every element.
func All() Criteria {
	return Criteria{kind: KindAll}
}

// XPath matches the element nodes an XPath expression selects.
func XPath(expr string) (Criteria, error) {
	if err := required("xpath", expr); err != nil {
		return Criteria{}, err
	}
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return Criteria{}, fmt.Errorf("%w: %q: %w", core.ErrInvalidSelector, expr, err)
	}
	return Criteria{kind: KindXPath, raw: []string{expr}, expr: compiled}, nil
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s must not be empty", core.ErrInvalidArgument, name)
	}
	return nil
}

func normalise(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func keyed(kind Kind, key string) (Criteria, error) {
	key = normalise(key)
	if err := required("attribute key", key); err != nil {
		return Criteria{}, err
	}
	return Criteria{kind: kind, raw: []string{key}, key: key}, nil
}

func keyValue(kind Kind, key, value string) (Criteria, error) {
	c, err := keyed(kind, key)
	if err != nil {
		return Criteria{}, err
	}
	c.value = normalise(value)
	c.raw = append(c.raw, value)
	return c, nil
}

func indexed(kind Kind, raw string) (Criteria, error) {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Criteria{}, fmt.Errorf("%w: index %q is not an integer", core.ErrInvalidArgument, raw)
	}
	return Criteria{kind: kind, raw: []string{raw}, index: index}, nil
}

func searched(kind Kind, text string) Criteria {
	return Criteria{kind: kind, raw: []string{text}, value: strings.ToLower(dom.NormaliseWhitespace(text))}
}

func patterned(kind Kind, pattern string) (Criteria, error) {
	re, err := compile(pattern)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{kind: kind, raw: []string{pattern}, re: re}, nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", core.ErrInvalidPattern, pattern, err)
	}
	return re, nil
}
