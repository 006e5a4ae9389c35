package token

import (
	"fmt"

	"github.com/tagc-lang/tagc/ast"
	"github.com/tagc-lang/tagc/internal/interner"
)

// Parser is a minimal recursive-descent parser producing ast.Stmt nodes.
// See the package doc comment: parsing is out of scope for the semantic
// core and this implementation exists only to drive it end-to-end.
type Parser struct {
	lex     *Lexer
	strings *interner.StringInterner
	cur     Token
	prev    Token
}

// NewParser returns a Parser over src, interning identifiers with strings.
func NewParser(src string, strings *interner.StringInterner) *Parser {
	p := &Parser{lex: New(src), strings: strings}
	p.cur = p.lex.Next()
	return p
}

func (p *Parser) advance() Token {
	p.prev = p.cur
	p.cur = p.lex.Next()
	return p.prev
}

func (p *Parser) at(kind Kind, text string) bool {
	return p.cur.Kind == kind && (text == "" || p.cur.Text == text)
}

func (p *Parser) atPunct(text string) bool  { return p.at(Punct, text) }
func (p *Parser) atKeyword(kw string) bool  { return p.at(Keyword, kw) }

func (p *Parser) expectPunct(text string) Token {
	if !p.atPunct(text) {
		panic(fmt.Sprintf("PARSE ERROR: expected %q, got %q at line %d", text, p.cur.Text, p.cur.Span.Start.Line))
	}
	return p.advance()
}

func (p *Parser) expectKeyword(kw string) Token {
	if !p.atKeyword(kw) {
		panic(fmt.Sprintf("PARSE ERROR: expected keyword %q, got %q at line %d", kw, p.cur.Text, p.cur.Span.Start.Line))
	}
	return p.advance()
}

func (p *Parser) ident() ast.IdentifierNode {
	if p.cur.Kind != Ident {
		panic(fmt.Sprintf("PARSE ERROR: expected identifier, got %q at line %d", p.cur.Text, p.cur.Span.Start.Line))
	}
	tok := p.advance()
	return ast.IdentifierNode{Name: p.strings.Intern(tok.Text), Span: tok.Span}
}

// ParseModule parses an entire source file into a list of statements.
func (p *Parser) ParseModule() []ast.Stmt {
	var stmts []ast.Stmt
	for p.cur.Kind != EOF {
		stmts = append(stmts, p.statement())
	}
	return stmts
}

func (p *Parser) statement() ast.Stmt {
	start := p.cur.Span.Start
	switch {
	case p.atKeyword("let"):
		return p.varDecl(start)
	case p.atKeyword("type"):
		return p.typeAliasDecl(start)
	case p.atKeyword("return"):
		p.advance()
		var value *ast.Expr
		if !p.atPunct(";") {
			e := p.expression()
			value = &e
		}
		end := p.cur.Span.End
		p.expectPunct(";")
		return ast.Stmt{Kind: ast.StReturn{Value: value}, Span: ast.Span{Start: start, End: end}}
	case p.atKeyword("break"):
		p.advance()
		end := p.cur.Span.End
		p.expectPunct(";")
		return ast.Stmt{Kind: ast.StBreak{}, Span: ast.Span{Start: start, End: end}}
	case p.atKeyword("continue"):
		p.advance()
		end := p.cur.Span.End
		p.expectPunct(";")
		return ast.Stmt{Kind: ast.StContinue{}, Span: ast.Span{Start: start, End: end}}
	case p.atKeyword("while"):
		return p.whileStmt(start)
	case p.atKeyword("from"):
		return p.fromStmt(start)
	default:
		return p.exprOrAssignment(start)
	}
}

func (p *Parser) varDecl(start ast.Position) ast.Stmt {
	p.expectKeyword("let")
	name := p.ident()
	var constraint *ast.TypeAnnotation
	if p.atPunct(":") {
		p.advance()
		c := p.typeAnnotation()
		constraint = &c
	}
	initialized := false
	var value *ast.Expr
	if p.atPunct("=") {
		p.advance()
		initialized = true
		e := p.expression()
		value = &e
	}
	end := p.cur.Span.End
	p.expectPunct(";")
	return ast.Stmt{
		Kind: ast.StVarDecl{Name: name, Constraint: constraint, Value: value, Initialized: initialized},
		Span: ast.Span{Start: start, End: end},
	}
}

func (p *Parser) typeAliasDecl(start ast.Position) ast.Stmt {
	p.expectKeyword("type")
	name := p.ident()
	p.expectPunct("=")
	value := p.typeAnnotation()
	end := p.cur.Span.End
	p.expectPunct(";")
	return ast.Stmt{Kind: ast.StTypeAliasDecl{Name: name, Value: &value}, Span: ast.Span{Start: start, End: end}}
}

func (p *Parser) whileStmt(start ast.Position) ast.Stmt {
	p.expectKeyword("while")
	p.expectPunct("(")
	cond := p.expression()
	p.expectPunct(")")
	body := p.codeBlock()
	return ast.Stmt{Kind: ast.StWhile{Cond: &cond, Body: &body}, Span: ast.Span{Start: start, End: body.Span.End}}
}

func (p *Parser) fromStmt(start ast.Position) ast.Stmt {
	p.expectKeyword("from")
	if p.cur.Kind != String {
		panic("PARSE ERROR: expected string path after 'from'")
	}
	path := p.advance().Text
	p.expectPunct("{")
	var names []ast.ImportedName
	for !p.atPunct("}") {
		n := p.ident()
		var alias *ast.IdentifierNode
		if p.atPunct(":") {
			p.advance()
			a := p.ident()
			alias = &a
		}
		names = append(names, ast.ImportedName{Name: n, Alias: alias})
		if p.atPunct(",") {
			p.advance()
		}
	}
	end := p.cur.Span.End
	p.expectPunct("}")
	return ast.Stmt{Kind: ast.StFrom{Path: path, Imports: names}, Span: ast.Span{Start: start, End: end}}
}

func (p *Parser) exprOrAssignment(start ast.Position) ast.Stmt {
	e := p.expression()
	if p.atPunct("=") {
		p.advance()
		value := p.expression()
		end := p.cur.Span.End
		p.expectPunct(";")
		return ast.Stmt{Kind: ast.StAssignment{Target: &e, Value: &value}, Span: ast.Span{Start: start, End: end}}
	}
	end := p.cur.Span.End
	if p.atPunct(";") {
		p.advance()
	}
	return ast.Stmt{Kind: ast.StExpression{Expr: &e}, Span: ast.Span{Start: start, End: end}}
}

// codeBlock parses `{ stmt* }` into an ExCodeBlock expression, matching
// spec §4.4.5's treatment of a function body as a code-block expression.
func (p *Parser) codeBlock() ast.Expr {
	start := p.cur.Span.Start
	p.expectPunct("{")
	var stmts []ast.Stmt
	for !p.atPunct("}") {
		stmts = append(stmts, p.statement())
	}
	end := p.cur.Span.End
	p.expectPunct("}")
	return ast.Expr{Kind: ast.ExCodeBlock{Stmts: stmts}, Span: ast.Span{Start: start, End: end}}
}

// --- expressions, precedence-climbing ---

func (p *Parser) expression() ast.Expr { return p.orExpr() }

func (p *Parser) orExpr() ast.Expr {
	left := p.andExpr()
	for p.atPunct("||") {
		p.advance()
		right := p.andExpr()
		left = ast.Expr{Kind: ast.ExBinary{Op: ast.BinOr, Left: &left, Right: &right}, Span: ast.Span{Start: left.Span.Start, End: right.Span.End}}
	}
	return left
}

func (p *Parser) andExpr() ast.Expr {
	left := p.equality()
	for p.atPunct("&&") {
		p.advance()
		right := p.equality()
		left = ast.Expr{Kind: ast.ExBinary{Op: ast.BinAnd, Left: &left, Right: &right}, Span: ast.Span{Start: left.Span.Start, End: right.Span.End}}
	}
	return left
}

func (p *Parser) equality() ast.Expr {
	left := p.relational()
	for {
		switch {
		case p.atPunct("=="):
			p.advance()
			right := p.relational()
			left = ast.Expr{Kind: ast.ExBinary{Op: ast.BinEqual, Left: &left, Right: &right}, Span: ast.Span{Start: left.Span.Start, End: right.Span.End}}
		case p.atPunct("!="):
			p.advance()
			right := p.relational()
			left = ast.Expr{Kind: ast.ExBinary{Op: ast.BinNotEqual, Left: &left, Right: &right}, Span: ast.Span{Start: left.Span.Start, End: right.Span.End}}
		case p.atKeyword("is"):
			p.advance()
			target := p.typeAnnotation()
			left = ast.Expr{Kind: ast.ExIsType{Left: &left, Target: &target}, Span: ast.Span{Start: left.Span.Start, End: target.Span.End}}
		default:
			return left
		}
	}
}

func (p *Parser) relational() ast.Expr {
	left := p.additive()
	for {
		var op ast.BinaryOp
		switch {
		case p.atPunct("<"):
			op = ast.BinLess
		case p.atPunct("<="):
			op = ast.BinLessEqual
		case p.atPunct(">"):
			op = ast.BinGreater
		case p.atPunct(">="):
			op = ast.BinGreaterEqual
		default:
			return left
		}
		p.advance()
		right := p.additive()
		left = ast.Expr{Kind: ast.ExBinary{Op: op, Left: &left, Right: &right}, Span: ast.Span{Start: left.Span.Start, End: right.Span.End}}
	}
}

func (p *Parser) additive() ast.Expr {
	left := p.multiplicative()
	for {
		var op ast.BinaryOp
		switch {
		case p.atPunct("+"):
			op = ast.BinAdd
		case p.atPunct("-"):
			op = ast.BinSub
		default:
			return left
		}
		p.advance()
		right := p.multiplicative()
		left = ast.Expr{Kind: ast.ExBinary{Op: op, Left: &left, Right: &right}, Span: ast.Span{Start: left.Span.Start, End: right.Span.End}}
	}
}

func (p *Parser) multiplicative() ast.Expr {
	left := p.unary()
	for {
		var op ast.BinaryOp
		switch {
		case p.atPunct("*"):
			op = ast.BinMul
		case p.atPunct("/"):
			op = ast.BinDiv
		case p.atPunct("%"):
			op = ast.BinMod
		default:
			return left
		}
		p.advance()
		right := p.unary()
		left = ast.Expr{Kind: ast.ExBinary{Op: op, Left: &left, Right: &right}, Span: ast.Span{Start: left.Span.Start, End: right.Span.End}}
	}
}

func (p *Parser) unary() ast.Expr {
	start := p.cur.Span.Start
	switch {
	case p.atPunct("-"):
		p.advance()
		operand := p.unary()
		return ast.Expr{Kind: ast.ExUnary{Op: ast.UnaryNeg, Operand: &operand}, Span: ast.Span{Start: start, End: operand.Span.End}}
	case p.atPunct("!"):
		p.advance()
		operand := p.unary()
		return ast.Expr{Kind: ast.ExUnary{Op: ast.UnaryNot, Operand: &operand}, Span: ast.Span{Start: start, End: operand.Span.End}}
	case p.atPunct("*"):
		p.advance()
		operand := p.unary()
		return ast.Expr{Kind: ast.ExUnary{Op: ast.UnaryDeref, Operand: &operand}, Span: ast.Span{Start: start, End: operand.Span.End}}
	default:
		return p.postfix()
	}
}

func (p *Parser) postfix() ast.Expr {
	e := p.primary()
	for {
		switch {
		case p.atPunct("."):
			p.advance()
			field := p.ident()
			e = ast.Expr{Kind: ast.ExAccess{Target: &e, Field: field}, Span: ast.Span{Start: e.Span.Start, End: field.Span.End}}
		case p.atPunct("["):
			p.advance()
			idx := p.expression()
			end := p.cur.Span.End
			p.expectPunct("]")
			e = ast.Expr{Kind: ast.ExIndex{Target: &e, Index: &idx}, Span: ast.Span{Start: e.Span.Start, End: end}}
		case p.atPunct("("):
			p.advance()
			var args []*ast.Expr
			for !p.atPunct(")") {
				a := p.expression()
				args = append(args, &a)
				if p.atPunct(",") {
					p.advance()
				}
			}
			end := p.cur.Span.End
			p.expectPunct(")")
			e = ast.Expr{Kind: ast.ExFnCall{Callee: &e, Args: args}, Span: ast.Span{Start: e.Span.Start, End: end}}
		case p.atKeyword("as"):
			p.advance()
			to := p.typeAnnotation()
			e = ast.Expr{Kind: ast.ExTypeCast{Target: &e, To: &to}, Span: ast.Span{Start: e.Span.Start, End: to.Span.End}}
		default:
			return e
		}
	}
}

func (p *Parser) primary() ast.Expr {
	start := p.cur.Span.Start
	switch {
	case p.cur.Kind == Number:
		tok := p.advance()
		kind, text := classifyNumber(tok.Text)
		return ast.Expr{Kind: ast.ExNumber{Kind: kind, Text: text}, Span: tok.Span}
	case p.cur.Kind == String:
		tok := p.advance()
		return ast.Expr{Kind: ast.ExString{Value: tok.Text}, Span: tok.Span}
	case p.atKeyword("true"):
		tok := p.advance()
		return ast.Expr{Kind: ast.ExBool{Value: true}, Span: tok.Span}
	case p.atKeyword("false"):
		tok := p.advance()
		return ast.Expr{Kind: ast.ExBool{Value: false}, Span: tok.Span}
	case p.atKeyword("null"):
		tok := p.advance()
		return ast.Expr{Kind: ast.ExNull{}, Span: tok.Span}
	case p.atKeyword("void"):
		tok := p.advance()
		return ast.Expr{Kind: ast.ExVoid{}, Span: tok.Span}
	case p.atKeyword("if"):
		return p.ifExpr()
	case p.atKeyword("fn"):
		return p.fnExpr()
	case p.atPunct("{"):
		return p.codeBlock()
	case p.atPunct("["):
		return p.listLiteral()
	case p.atPunct("#"):
		return p.tagExpr()
	case p.atPunct("("):
		p.advance()
		e := p.expression()
		p.expectPunct(")")
		return e
	case p.cur.Kind == Ident:
		id := p.ident()
		if p.atPunct("{") {
			return p.structLiteral(id, start)
		}
		return ast.Expr{Kind: ast.ExIdentifier{Name: id}, Span: id.Span}
	default:
		panic(fmt.Sprintf("PARSE ERROR: unexpected token %q at line %d", p.cur.Text, p.cur.Span.Start.Line))
	}
}

func (p *Parser) ifExpr() ast.Expr {
	start := p.cur.Span.Start
	p.expectKeyword("if")
	var branches []ast.IfBranch
	p.expectPunct("(")
	cond := p.expression()
	p.expectPunct(")")
	body := p.codeBlock()
	branches = append(branches, ast.IfBranch{Cond: &cond, Body: &body})
	end := body.Span.End
	var elseExpr *ast.Expr
	for p.atKeyword("else") {
		p.advance()
		if p.atKeyword("if") {
			p.expectKeyword("if")
			p.expectPunct("(")
			c := p.expression()
			p.expectPunct(")")
			b := p.codeBlock()
			branches = append(branches, ast.IfBranch{Cond: &c, Body: &b})
			end = b.Span.End
			continue
		}
		b := p.codeBlock()
		elseExpr = &b
		end = b.Span.End
		break
	}
	return ast.Expr{Kind: ast.ExIf{Branches: branches, Else: elseExpr}, Span: ast.Span{Start: start, End: end}}
}

func (p *Parser) fnExpr() ast.Expr {
	start := p.cur.Span.Start
	p.expectKeyword("fn")
	p.expectPunct("(")
	var params []ast.Param
	for !p.atPunct(")") {
		n := p.ident()
		p.expectPunct(":")
		c := p.typeAnnotation()
		params = append(params, ast.Param{Name: n, Constraint: &c})
		if p.atPunct(",") {
			p.advance()
		}
	}
	p.expectPunct(")")
	var ret *ast.TypeAnnotation
	if p.atPunct(":") {
		p.advance()
		r := p.typeAnnotation()
		ret = &r
	}
	body := p.codeBlock()
	return ast.Expr{Kind: ast.ExFn{Params: params, ReturnType: ret, Body: &body}, Span: ast.Span{Start: start, End: body.Span.End}}
}

func (p *Parser) listLiteral() ast.Expr {
	start := p.cur.Span.Start
	p.expectPunct("[")
	var items []*ast.Expr
	for !p.atPunct("]") {
		e := p.expression()
		items = append(items, &e)
		if p.atPunct(",") {
			p.advance()
		}
	}
	end := p.cur.Span.End
	p.expectPunct("]")
	return ast.Expr{Kind: ast.ExList{Items: items}, Span: ast.Span{Start: start, End: end}}
}

func (p *Parser) tagExpr() ast.Expr {
	start := p.cur.Span.Start
	p.expectPunct("#")
	name := p.ident()
	var value *ast.Expr
	if p.atPunct("(") {
		p.advance()
		v := p.expression()
		value = &v
		end := p.cur.Span.End
		p.expectPunct(")")
		return ast.Expr{Kind: ast.ExTag{Name: name, Value: value}, Span: ast.Span{Start: start, End: end}}
	}
	return ast.Expr{Kind: ast.ExTag{Name: name, Value: nil}, Span: ast.Span{Start: start, End: name.Span.End}}
}

func (p *Parser) structLiteral(name ast.IdentifierNode, start ast.Position) ast.Expr {
	_ = name // struct literals are structurally typed; the leading name is purely cosmetic
	p.expectPunct("{")
	var fields []ast.StructFieldInit
	for !p.atPunct("}") {
		n := p.ident()
		p.expectPunct(":")
		v := p.expression()
		fields = append(fields, ast.StructFieldInit{Name: n, Value: &v})
		if p.atPunct(",") {
			p.advance()
		}
	}
	end := p.cur.Span.End
	p.expectPunct("}")
	return ast.Expr{Kind: ast.ExStruct{Fields: fields}, Span: ast.Span{Start: start, End: end}}
}

// --- type annotations ---

var primitiveNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "usize": true,
	"f32": true, "f64": true, "bool": true, "void": true, "string": true,
}

func (p *Parser) typeAnnotation() ast.TypeAnnotation {
	left := p.typeAnnotationPrimary()
	if p.atPunct("|") {
		members := []*ast.TypeAnnotation{&left}
		end := left.Span.End
		for p.atPunct("|") {
			p.advance()
			m := p.typeAnnotationPrimary()
			end = m.Span.End
			members = append(members, &m)
		}
		return ast.TypeAnnotation{Kind: ast.TAUnion{Members: members}, Span: ast.Span{Start: left.Span.Start, End: end}}
	}
	return left
}

func (p *Parser) typeAnnotationPrimary() ast.TypeAnnotation {
	start := p.cur.Span.Start
	switch {
	case p.atPunct("*"):
		p.advance()
		c := p.typeAnnotationPrimary()
		return ast.TypeAnnotation{Kind: ast.TAPointer{Constraint: &c}, Span: ast.Span{Start: start, End: c.Span.End}}
	case p.atPunct("["):
		p.advance()
		item := p.typeAnnotation()
		end := p.cur.Span.End
		p.expectPunct("]")
		return ast.TypeAnnotation{Kind: ast.TAList{Item: &item}, Span: ast.Span{Start: start, End: end}}
	case p.atPunct("#"):
		p.advance()
		name := p.ident()
		var payload *ast.TypeAnnotation
		if p.atPunct("(") {
			p.advance()
			pl := p.typeAnnotation()
			payload = &pl
			end := p.cur.Span.End
			p.expectPunct(")")
			return ast.TypeAnnotation{Kind: ast.TATag{Name: name, Payload: payload}, Span: ast.Span{Start: start, End: end}}
		}
		return ast.TypeAnnotation{Kind: ast.TATag{Name: name}, Span: ast.Span{Start: start, End: name.Span.End}}
	case p.atKeyword("fn"):
		p.advance()
		p.expectPunct("(")
		var params []*ast.TypeAnnotation
		for !p.atPunct(")") {
			t := p.typeAnnotation()
			params = append(params, &t)
			if p.atPunct(",") {
				p.advance()
			}
		}
		p.expectPunct(")")
		p.expectPunct(":")
		ret := p.typeAnnotation()
		return ast.TypeAnnotation{Kind: ast.TAFn{Params: params, Return: &ret}, Span: ast.Span{Start: start, End: ret.Span.End}}
	case (p.cur.Kind == Ident || p.atKeyword("void")) && primitiveNames[p.cur.Text]:
		tok := p.advance()
		return ast.TypeAnnotation{Kind: ast.TAPrimitive{Name: tok.Text}, Span: tok.Span}
	case p.cur.Kind == Ident:
		name := p.ident()
		return ast.TypeAnnotation{Kind: ast.TAIdentifier{Name: name}, Span: name.Span}
	default:
		panic(fmt.Sprintf("PARSE ERROR: expected type annotation, got %q at line %d", p.cur.Text, p.cur.Span.Start.Line))
	}
}

func classifyNumber(text string) (ast.NumberKind, string) {
	suffixes := []struct {
		suffix string
		kind   ast.NumberKind
	}{
		{"i8", ast.NumI8}, {"i16", ast.NumI16}, {"i32", ast.NumI32}, {"i64", ast.NumI64}, {"isize", ast.NumISize},
		{"u8", ast.NumU8}, {"u16", ast.NumU16}, {"u32", ast.NumU32}, {"u64", ast.NumU64}, {"usize", ast.NumUSize},
		{"f32", ast.NumF32}, {"f64", ast.NumF64},
	}
	for _, s := range suffixes {
		if len(text) > len(s.suffix) && text[len(text)-len(s.suffix):] == s.suffix {
			return s.kind, text[:len(text)-len(s.suffix)]
		}
	}
	// No suffix: default to i32 for integer literals, f64 if it contains a '.'.
	for _, r := range text {
		if r == '.' {
			return ast.NumF64, text
		}
	}
	return ast.NumI32, text
}
