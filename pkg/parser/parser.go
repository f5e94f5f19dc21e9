package parser

import (
	"strconv"

	"peano/interpreter-go/pkg/ast"
)

// Parser is a single-token-lookahead recursive-descent parser for the
// structural-recursion language:
//
//	type List = Nil | Cons(Nat, List)
//
//	fn add(n, m) decreasing n {
//	  match n {
//	    Zero => m,
//	    Succ(k) => Succ(add(k, m)),
//	  }
//	}
//
//	add(3, 4)
//
// Numeric literals desugar to Succ/Zero nesting here, at parse time, in
// both expression and pattern position.
type Parser struct {
	lex  *Lexer
	cur  Token
	peek Token
}

func New(src string) *Parser {
	p := &Parser{lex: NewLexer(src)}
	p.cur = p.lex.Next()
	p.peek = p.lex.Next()
	return p
}

// ParseProgram parses a whole source file: imports, declarations, and an
// optional trailing result expression.
func ParseProgram(src string) (*ast.Program, error) {
	return New(src).Program()
}

// ParseExpression parses a single expression and requires it to consume
// the whole input.
func ParseExpression(src string) (ast.Expression, error) {
	p := New(src)
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != EOF {
		return nil, p.errorf("unexpected %s after expression", p.cur.Type)
	}
	return expr, nil
}

func (p *Parser) Program() (*ast.Program, error) {
	var imports []*ast.ImportDeclaration
	for p.cur.Type == IMPORT {
		imp, err := p.importDeclaration()
		if err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}

	var decls []ast.Declaration
	var result ast.Expression
	for p.cur.Type != EOF {
		switch {
		case p.cur.Type == TYPE:
			decl, err := p.datatypeDefinition()
			if err != nil {
				return nil, err
			}
			decls = append(decls, decl)
		case p.cur.Type == FN && p.peek.Type == IDENT:
			decl, err := p.functionDefinition()
			if err != nil {
				return nil, err
			}
			decls = append(decls, decl)
		default:
			// Everything else is the result expression; it must close the file.
			expr, err := p.expression()
			if err != nil {
				return nil, err
			}
			if p.cur.Type != EOF {
				return nil, p.errorf("unexpected %s after result expression", p.cur.Type)
			}
			result = expr
		}
	}
	return ast.NewProgram(imports, decls, result), nil
}

//-----------------------------------------------------------------------------
// Declarations
//-----------------------------------------------------------------------------

func (p *Parser) importDeclaration() (*ast.ImportDeclaration, error) {
	tok := p.cur
	p.next() // import
	name, err := p.expectIdent("library name")
	if err != nil {
		return nil, err
	}
	imp := ast.NewImportDeclaration(name)
	ast.SetPos(imp, tok.Line, tok.Col)
	return imp, nil
}

func (p *Parser) datatypeDefinition() (*ast.DatatypeDefinition, error) {
	tok := p.cur
	p.next() // type
	id, err := p.expectConstructorIdent("datatype name")
	if err != nil {
		return nil, err
	}
	if err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	var constructors []*ast.ConstructorSpec
	for {
		spec, err := p.constructorSpec()
		if err != nil {
			return nil, err
		}
		constructors = append(constructors, spec)
		if p.cur.Type != PIPE {
			break
		}
		p.next()
	}
	def := ast.NewDatatypeDefinition(id, constructors)
	ast.SetPos(def, tok.Line, tok.Col)
	return def, nil
}

func (p *Parser) constructorSpec() (*ast.ConstructorSpec, error) {
	name, err := p.expectConstructorIdent("constructor name")
	if err != nil {
		return nil, err
	}
	var fields []*ast.Identifier
	if p.cur.Type == LPAREN {
		p.next()
		for {
			field, err := p.expectConstructorIdent("field datatype name")
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
			if p.cur.Type != COMMA {
				break
			}
			p.next()
		}
		if err := p.expect(RPAREN); err != nil {
			return nil, err
		}
	}
	return ast.NewConstructorSpec(name, fields), nil
}

func (p *Parser) functionDefinition() (*ast.FunctionDefinition, error) {
	tok := p.cur
	p.next() // fn
	id, err := p.expectIdent("function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parameterList()
	if err != nil {
		return nil, err
	}
	decreasing := 0
	if p.cur.Type == DECREASING {
		p.next()
		which, err := p.expectIdent("decreasing parameter name")
		if err != nil {
			return nil, err
		}
		decreasing = -1
		for idx, param := range params {
			if param.Name == which.Name {
				decreasing = idx
				break
			}
		}
		if decreasing < 0 {
			return nil, syntaxErrorf(tok.Line, tok.Col,
				"decreasing parameter '%s' is not a parameter of %s", which.Name, id.Name)
		}
	}
	if err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	def := ast.NewFunctionDefinition(id, params, decreasing, body)
	ast.SetPos(def, tok.Line, tok.Col)
	return def, nil
}

func (p *Parser) parameterList() ([]*ast.Identifier, error) {
	if err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Identifier
	if p.cur.Type == RPAREN {
		p.next()
		return params, nil
	}
	for {
		param, err := p.expectIdent("parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.cur.Type != COMMA {
			break
		}
		p.next()
	}
	if err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

func (p *Parser) expression() (ast.Expression, error) {
	switch p.cur.Type {
	case MATCH:
		return p.matchExpression()
	case FN:
		return p.lambdaExpression()
	default:
		return p.primary()
	}
}

func (p *Parser) matchExpression() (ast.Expression, error) {
	tok := p.cur
	p.next() // match
	subject, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	var clauses []*ast.MatchClause
	for p.cur.Type != RBRACE {
		pattern, err := p.pattern()
		if err != nil {
			return nil, err
		}
		if err := p.expect(ARROW); err != nil {
			return nil, err
		}
		body, err := p.expression()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, ast.NewMatchClause(pattern, body))
		if p.cur.Type == COMMA {
			p.next()
			continue
		}
		break
	}
	if err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	if len(clauses) == 0 {
		return nil, syntaxErrorf(tok.Line, tok.Col, "match expression has no clauses")
	}
	m := ast.NewMatchExpression(subject, clauses)
	ast.SetPos(m, tok.Line, tok.Col)
	return m, nil
}

func (p *Parser) lambdaExpression() (ast.Expression, error) {
	tok := p.cur
	p.next() // fn
	params, err := p.parameterList()
	if err != nil {
		return nil, err
	}
	if err := p.expect(ARROW); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	lam := ast.NewLambdaExpression(params, body)
	ast.SetPos(lam, tok.Line, tok.Col)
	return lam, nil
}

func (p *Parser) primary() (ast.Expression, error) {
	tok := p.cur
	switch tok.Type {
	case NUMBER:
		p.next()
		n, err := strconv.ParseUint(tok.Literal, 10, 64)
		if err != nil {
			return nil, syntaxErrorf(tok.Line, tok.Col, "numeral %s is out of range", tok.Literal)
		}
		return ast.Nat(n), nil
	case IDENT:
		return p.reference()
	case LPAREN:
		p.next()
		if p.cur.Type == RPAREN {
			p.next()
			unit := ast.NewUnitLiteral()
			ast.SetPos(unit, tok.Line, tok.Col)
			return unit, nil
		}
		first, err := p.expression()
		if err != nil {
			return nil, err
		}
		if p.cur.Type == COMMA {
			p.next()
			second, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.expect(RPAREN); err != nil {
				return nil, err
			}
			pair := ast.NewPairExpression(first, second)
			ast.SetPos(pair, tok.Line, tok.Col)
			return pair, nil
		}
		if err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return first, nil
	default:
		return nil, p.errorf("unexpected %s, expected an expression", tok.Type)
	}
}

// reference parses a (possibly qualified) identifier and an optional
// argument list: n, math.double(x), Succ(k).
func (p *Parser) reference() (ast.Expression, error) {
	tok := p.cur
	name := tok.Literal
	p.next()
	if p.cur.Type == DOT {
		p.next()
		member, err := p.expectIdent("qualified member name")
		if err != nil {
			return nil, err
		}
		name = name + "." + member.Name
	}
	id := ast.NewIdentifier(name)
	ast.SetPos(id, tok.Line, tok.Col)
	if p.cur.Type != LPAREN {
		return id, nil
	}
	p.next()
	var args []ast.Expression
	if p.cur.Type != RPAREN {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Type != COMMA {
				break
			}
			p.next()
		}
	}
	if err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	call := ast.NewCallExpression(id, args)
	ast.SetPos(call, tok.Line, tok.Col)
	return call, nil
}

//-----------------------------------------------------------------------------
// Patterns
//-----------------------------------------------------------------------------

func (p *Parser) pattern() (ast.Pattern, error) {
	tok := p.cur
	switch tok.Type {
	case NUMBER:
		p.next()
		n, err := strconv.ParseUint(tok.Literal, 10, 64)
		if err != nil {
			return nil, syntaxErrorf(tok.Line, tok.Col, "numeral %s is out of range", tok.Literal)
		}
		return natPattern(n), nil
	case IDENT:
		p.next()
		if tok.Literal == "_" {
			wc := ast.NewWildcardPattern()
			ast.SetPos(wc, tok.Line, tok.Col)
			return wc, nil
		}
		if !isUpper(tok.Literal) {
			binder := ast.NewIdentifier(tok.Literal)
			ast.SetPos(binder, tok.Line, tok.Col)
			return binder, nil
		}
		var fields []ast.Pattern
		if p.cur.Type == LPAREN {
			p.next()
			for {
				sub, err := p.pattern()
				if err != nil {
					return nil, err
				}
				fields = append(fields, sub)
				if p.cur.Type != COMMA {
					break
				}
				p.next()
			}
			if err := p.expect(RPAREN); err != nil {
				return nil, err
			}
		}
		ctor := ast.NewConstructorPattern(ast.NewIdentifier(tok.Literal), fields)
		ast.SetPos(ctor, tok.Line, tok.Col)
		return ctor, nil
	case LPAREN:
		p.next()
		if p.cur.Type == RPAREN {
			p.next()
			unit := ast.NewConstructorPattern(ast.NewIdentifier("Unit"), nil)
			ast.SetPos(unit, tok.Line, tok.Col)
			return unit, nil
		}
		first, err := p.pattern()
		if err != nil {
			return nil, err
		}
		if err := p.expect(COMMA); err != nil {
			return nil, err
		}
		second, err := p.pattern()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		pair := ast.NewConstructorPattern(ast.NewIdentifier("Pair"), []ast.Pattern{first, second})
		ast.SetPos(pair, tok.Line, tok.Col)
		return pair, nil
	default:
		return nil, p.errorf("unexpected %s, expected a pattern", tok.Type)
	}
}

// natPattern expands a numeral pattern into nested Succ patterns around a
// Zero pattern, so `match n { 3 => ... }` matches exactly three.
func natPattern(n uint64) ast.Pattern {
	var pat ast.Pattern = ast.NewConstructorPattern(ast.NewIdentifier("Zero"), nil)
	for ; n > 0; n-- {
		pat = ast.NewConstructorPattern(ast.NewIdentifier("Succ"), []ast.Pattern{pat})
	}
	return pat
}

//-----------------------------------------------------------------------------
// Token plumbing
//-----------------------------------------------------------------------------

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) expect(tt TokenType) error {
	if p.cur.Type != tt {
		return p.errorf("unexpected %s, expected %s", p.cur.Type, tt)
	}
	p.next()
	return nil
}

func (p *Parser) expectIdent(what string) (*ast.Identifier, error) {
	if p.cur.Type != IDENT || p.cur.Literal == "_" {
		return nil, p.errorf("unexpected %s, expected %s", p.cur.Type, what)
	}
	id := ast.NewIdentifier(p.cur.Literal)
	ast.SetPos(id, p.cur.Line, p.cur.Col)
	p.next()
	return id, nil
}

func (p *Parser) expectConstructorIdent(what string) (*ast.Identifier, error) {
	id, err := p.expectIdent(what)
	if err != nil {
		return nil, err
	}
	if !isUpper(id.Name) {
		return nil, syntaxErrorf(id.Pos().Line, id.Pos().Col, "%s must be capitalized, got '%s'", what, id.Name)
	}
	return id, nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return syntaxErrorf(p.cur.Line, p.cur.Col, format, args...)
}

func isUpper(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
