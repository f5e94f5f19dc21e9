package ast

type NodeType string

const (
	NodeIdentifier         NodeType = "Identifier"
	NodeUnitLiteral        NodeType = "UnitLiteral"
	NodePairExpression     NodeType = "PairExpression"
	NodeCallExpression     NodeType = "CallExpression"
	NodeLambdaExpression   NodeType = "LambdaExpression"
	NodeMatchClause        NodeType = "MatchClause"
	NodeMatchExpression    NodeType = "MatchExpression"
	NodeWildcardPattern    NodeType = "WildcardPattern"
	NodeConstructorPattern NodeType = "ConstructorPattern"
	NodeConstructorSpec    NodeType = "ConstructorSpec"
	NodeDatatypeDefinition NodeType = "DatatypeDefinition"
	NodeFunctionDefinition NodeType = "FunctionDefinition"
	NodeImportDeclaration  NodeType = "ImportDeclaration"
	NodeProgram            NodeType = "Program"
)

// Position is a 1-based source location. Nodes built programmatically
// (tests, desugared numerals) carry none.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

type Node interface {
	NodeType() NodeType
	Pos() *Position
	isNode()
}

type nodeImpl struct {
	Type     NodeType  `json:"type"`
	Location *Position `json:"pos,omitempty"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Pos() *Position     { return n.Location }
func (nodeImpl) isNode()              {}

func (n *nodeImpl) setPos(p *Position) { n.Location = p }

// SetPos attaches a source location; the parser calls this, builders do not.
func SetPos(node Node, line, col int) {
	if n, ok := node.(interface{ setPos(*Position) }); ok {
		n.setPos(&Position{Line: line, Col: col})
	}
}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Pattern interface {
	Node
	patternNode()
}

type patternMarker struct{}

func (patternMarker) patternNode() {}

type Declaration interface {
	Node
	declarationNode()
}

type declarationMarker struct{}

func (declarationMarker) declarationNode() {}

// Identifier names a variable, function, or constructor. Qualified
// references keep their dot intact ("math.double"); resolution happens
// against a flat declaration table before evaluation. As a pattern, an
// identifier is an irrefutable binder.
type Identifier struct {
	nodeImpl
	expressionMarker
	patternMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// UnitLiteral is the sole inhabitant of Unit, written ().
type UnitLiteral struct {
	nodeImpl
	expressionMarker
}

func NewUnitLiteral() *UnitLiteral {
	return &UnitLiteral{nodeImpl: newNodeImpl(NodeUnitLiteral)}
}

// PairExpression builds a Pair value, written (first, second).
type PairExpression struct {
	nodeImpl
	expressionMarker

	First  Expression `json:"first"`
	Second Expression `json:"second"`
}

func NewPairExpression(first, second Expression) *PairExpression {
	return &PairExpression{nodeImpl: newNodeImpl(NodePairExpression), First: first, Second: second}
}

// CallExpression applies a function or constructor to arguments. The callee
// is always a (possibly qualified) identifier; the language has no computed
// call heads outside of fold handlers, which the runtime invokes directly.
type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee *Identifier  `json:"callee"`
	Args   []Expression `json:"args"`
}

func NewCallExpression(callee *Identifier, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Args: args}
}

// LambdaExpression is an anonymous function, written fn(x, y) => body.
// Lambdas have no name and cannot self-recurse, so they are outside the
// structural-descent check.
type LambdaExpression struct {
	nodeImpl
	expressionMarker

	Params []*Identifier `json:"params"`
	Body   Expression    `json:"body"`
}

func NewLambdaExpression(params []*Identifier, body Expression) *LambdaExpression {
	return &LambdaExpression{nodeImpl: newNodeImpl(NodeLambdaExpression), Params: params, Body: body}
}

// MatchClause pairs a pattern with the expression evaluated when the
// pattern is the first to match.
type MatchClause struct {
	nodeImpl

	Pattern Pattern    `json:"pattern"`
	Body    Expression `json:"body"`
}

func NewMatchClause(pattern Pattern, body Expression) *MatchClause {
	return &MatchClause{nodeImpl: newNodeImpl(NodeMatchClause), Pattern: pattern, Body: body}
}

// MatchExpression scrutinizes a subject against ordered clauses;
// first structural match wins.
type MatchExpression struct {
	nodeImpl
	expressionMarker

	Subject Expression     `json:"subject"`
	Clauses []*MatchClause `json:"clauses"`
}

func NewMatchExpression(subject Expression, clauses []*MatchClause) *MatchExpression {
	return &MatchExpression{nodeImpl: newNodeImpl(NodeMatchExpression), Subject: subject, Clauses: clauses}
}

// Patterns

type WildcardPattern struct {
	nodeImpl
	patternMarker
}

func NewWildcardPattern() *WildcardPattern {
	return &WildcardPattern{nodeImpl: newNodeImpl(NodeWildcardPattern)}
}

// ConstructorPattern matches a value carrying the named tag and matches its
// fields against the sub-patterns in order. Zero, Succ, Pair, and Unit are
// ordinary constructor patterns.
type ConstructorPattern struct {
	nodeImpl
	patternMarker

	Name   *Identifier `json:"name"`
	Fields []Pattern   `json:"fields"`
}

func NewConstructorPattern(name *Identifier, fields []Pattern) *ConstructorPattern {
	return &ConstructorPattern{nodeImpl: newNodeImpl(NodeConstructorPattern), Name: name, Fields: fields}
}

// Declarations

// ConstructorSpec declares one variant of a datatype. Fields name the
// datatype each field inhabits; a field naming the enclosing datatype is a
// recursive position, which drives fold synthesis.
type ConstructorSpec struct {
	nodeImpl

	Name   *Identifier   `json:"name"`
	Fields []*Identifier `json:"fields"`
}

func NewConstructorSpec(name *Identifier, fields []*Identifier) *ConstructorSpec {
	return &ConstructorSpec{nodeImpl: newNodeImpl(NodeConstructorSpec), Name: name, Fields: fields}
}

// DatatypeDefinition declares a tagged variant, e.g.
// type List = Nil | Cons(Nat, List).
type DatatypeDefinition struct {
	nodeImpl
	declarationMarker

	ID           *Identifier        `json:"id"`
	Constructors []*ConstructorSpec `json:"constructors"`
}

func NewDatatypeDefinition(id *Identifier, constructors []*ConstructorSpec) *DatatypeDefinition {
	return &DatatypeDefinition{nodeImpl: newNodeImpl(NodeDatatypeDefinition), ID: id, Constructors: constructors}
}

// FunctionDefinition declares a possibly-recursive function. Decreasing is
// the parameter position the structural-descent check runs against, fixed
// at definition time and never changed.
type FunctionDefinition struct {
	nodeImpl
	declarationMarker

	ID         *Identifier   `json:"id"`
	Params     []*Identifier `json:"params"`
	Decreasing int           `json:"decreasing"`
	Body       Expression    `json:"body"`
}

func NewFunctionDefinition(id *Identifier, params []*Identifier, decreasing int, body Expression) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ID: id, Params: params, Decreasing: decreasing, Body: body}
}

// ImportDeclaration brings a library's definitions into scope under its
// qualified name: import math => math.double(...).
type ImportDeclaration struct {
	nodeImpl
	declarationMarker

	Name *Identifier `json:"name"`
}

func NewImportDeclaration(name *Identifier) *ImportDeclaration {
	return &ImportDeclaration{nodeImpl: newNodeImpl(NodeImportDeclaration), Name: name}
}

// Program root

// Program is a parsed source file: imports, then declarations, then an
// optional result expression. Library files have no result.
type Program struct {
	nodeImpl

	Imports []*ImportDeclaration `json:"imports,omitempty"`
	Decls   []Declaration        `json:"decls"`
	Result  Expression           `json:"result,omitempty"`
}

func NewProgram(imports []*ImportDeclaration, decls []Declaration, result Expression) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Imports: imports, Decls: decls, Result: result}
}
