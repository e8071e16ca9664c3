package semantic

import (
	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/builtins"
	"github.com/tpascal/go-tpc/internal/types"
)

// analyzeStatement checks one statement and everything below it.
func (a *Analyzer) analyzeStatement(s ast.Statement) {
	switch stmt := s.(type) {
	case *ast.CompoundStatement:
		for _, inner := range stmt.Statements {
			a.analyzeStatement(inner)
		}

	case *ast.AssignmentStatement:
		a.analyzeAssignment(stmt)

	case *ast.ExpressionStatement:
		a.analyzeExpressionStatement(stmt)

	case *ast.IfStatement:
		a.requireBoolean(stmt.Condition, "if condition")
		a.analyzeStatement(stmt.Then)
		if stmt.Else != nil {
			a.analyzeStatement(stmt.Else)
		}

	case *ast.WhileStatement:
		a.requireBoolean(stmt.Condition, "while condition")
		a.loopDepth++
		a.analyzeStatement(stmt.Body)
		a.loopDepth--

	case *ast.RepeatStatement:
		a.loopDepth++
		for _, inner := range stmt.Statements {
			a.analyzeStatement(inner)
		}
		a.loopDepth--
		a.requireBoolean(stmt.Condition, "until condition")

	case *ast.ForStatement:
		a.analyzeFor(stmt)

	case *ast.CaseStatement:
		a.analyzeCase(stmt)

	case *ast.WithStatement:
		a.analyzeWith(stmt)

	case *ast.LabeledStatement:
		if !a.routineLabels.Has(labelName(stmt.Label)) {
			a.addError(stmt.Pos(), "label %s not declared", stmt.Label)
		}
		a.analyzeStatement(stmt.Stmt)

	case *ast.GotoStatement:
		if !a.routineLabels.Has(labelName(stmt.Label)) {
			a.addError(stmt.Pos(), "goto target %s not declared", stmt.Label)
		}

	case *ast.BreakStatement:
		if a.loopDepth == 0 {
			a.addError(stmt.Pos(), "'break' outside a loop")
		}

	case *ast.ContinueStatement:
		if a.loopDepth == 0 {
			a.addError(stmt.Pos(), "'continue' outside a loop")
		}

	case *ast.EmptyStatement:
		// nothing to do
	}
}

func (a *Analyzer) requireBoolean(e ast.Expression, what string) {
	t := a.typeExpression(e)
	if t.TypeKind() != "UNKNOWN" && types.Underlying(t).TypeKind() != "BOOLEAN" {
		a.addError(e.Pos(), "%s must be Boolean, got %s", what, t.String())
	}
}

func (a *Analyzer) analyzeAssignment(s *ast.AssignmentStatement) {
	if !isLValue(s.Target) {
		a.addError(s.Target.Pos(), "left side of ':=' is not assignable")
	}
	targetType := a.typeExpression(s.Target)
	valueType := a.typeExpression(s.Value)

	if targetType.TypeKind() == "UNKNOWN" || valueType.TypeKind() == "UNKNOWN" {
		return
	}
	if types.Underlying(targetType).TypeKind() == "VOID" {
		a.addError(s.Target.Pos(), "cannot assign to a procedure")
		return
	}
	// A single-character string constant narrows to char.
	if types.Underlying(targetType).TypeKind() == "CHAR" {
		if lit, ok := s.Value.(*ast.StringLiteral); ok && len(lit.Value) == 1 {
			return
		}
	}
	if !types.Compatible(targetType, valueType) {
		a.addError(s.Pos(), "cannot assign %s to %s", valueType.String(), targetType.String())
	}
}

func isLValue(e ast.Expression) bool {
	switch t := e.(type) {
	case *ast.Identifier:
		return true
	case *ast.IndexExpression:
		return isLValue(t.Array)
	case *ast.FieldAccessExpression:
		return isLValue(t.Record) || isDereference(t.Record)
	case *ast.DereferenceExpression:
		return true
	}
	return false
}

func isDereference(e ast.Expression) bool {
	_, ok := e.(*ast.DereferenceExpression)
	return ok
}

// analyzeExpressionStatement handles calls in statement position. A bare
// identifier that names a parameterless routine (or built-in procedure) is a
// call; the identifier is marked so the emitter appends the parentheses.
func (a *Analyzer) analyzeExpressionStatement(s *ast.ExpressionStatement) {
	if id, ok := s.Expression.(*ast.Identifier); ok {
		if sym, found := a.symbols.Lookup(id.Value); found && sym.IsRoutine() {
			if _, zeroary := a.symbols.LookupFunction(id.Value, nil); !zeroary {
				a.addError(id.Pos(), "routine '%s' requires arguments", id.Value)
			}
			id.Value = sym.Name
			id.AutoCall = true
			id.SetType(types.VOID)
			return
		}
		if !a.identResolvesLocally(id) {
			if b, isBuiltin := builtins.Lookup(id.Value); isBuiltin {
				id.AutoCall = true
				id.BuiltinCall = true
				id.SetType(b.Result(nil))
				return
			}
		}
	}

	t := a.typeExpression(s.Expression)
	if _, isCall := s.Expression.(*ast.CallExpression); !isCall {
		if id, isIdent := s.Expression.(*ast.Identifier); !isIdent || !id.AutoCall {
			if t.TypeKind() != "UNKNOWN" && t.TypeKind() != "VOID" {
				a.addError(s.Pos(), "expression used as a statement")
			}
		}
	}
}

// identResolvesLocally reports whether a name resolves to a user symbol or a
// with-context field, shadowing any built-in of the same name.
func (a *Analyzer) identResolvesLocally(id *ast.Identifier) bool {
	if _, ok := a.symbols.Lookup(id.Value); ok {
		return true
	}
	for i := len(a.withStack) - 1; i >= 0; i-- {
		if a.withStack[i].record != nil {
			if _, ok := a.withStack[i].record.Field(id.Value); ok {
				return true
			}
		}
	}
	return false
}

// analyzeFor checks the loop variable is a declared ordinal and the bounds
// are compatible with it.
func (a *Analyzer) analyzeFor(s *ast.ForStatement) {
	varType := a.typeExpression(s.Variable)
	if varType.TypeKind() != "UNKNOWN" && !types.IsOrdinal(varType) {
		a.addError(s.Variable.Pos(), "for-loop variable must be ordinal, got %s", varType.String())
	}

	startType := a.typeExpression(s.Start)
	limitType := a.typeExpression(s.Limit)
	if varType.TypeKind() != "UNKNOWN" {
		if startType.TypeKind() != "UNKNOWN" && !types.Compatible(varType, startType) {
			a.addError(s.Start.Pos(), "for-loop start value %s does not match %s", startType.String(), varType.String())
		}
		if limitType.TypeKind() != "UNKNOWN" && !types.Compatible(varType, limitType) {
			a.addError(s.Limit.Pos(), "for-loop limit %s does not match %s", limitType.String(), varType.String())
		}
	}

	a.loopDepth++
	a.analyzeStatement(s.Body)
	a.loopDepth--
}

// analyzeCase checks the selector is ordinal and every branch value's type is
// compatible with it; ranges cover both endpoints. Branch values are not
// checked for being constants.
func (a *Analyzer) analyzeCase(s *ast.CaseStatement) {
	selType := a.typeExpression(s.Expr)
	if selType.TypeKind() != "UNKNOWN" && !types.IsOrdinal(selType) {
		a.addError(s.Expr.Pos(), "case selector must be ordinal, got %s", selType.String())
	}

	for _, branch := range s.Branches {
		for _, value := range branch.Values {
			valueType := a.typeExpression(value)
			if selType.TypeKind() == "UNKNOWN" || valueType.TypeKind() == "UNKNOWN" {
				continue
			}
			if !types.Compatible(selType, valueType) && !types.Compatible(valueType, selType) {
				a.addError(value.Pos(), "case value type %s does not match selector %s",
					valueType.String(), selType.String())
			}
		}
		a.analyzeStatement(branch.Body)
	}
	if s.Else != nil {
		a.analyzeStatement(s.Else)
	}
}

// analyzeWith pushes one frame per target, each remembering the target's
// lvalue and record descriptor, then pops them on exit.
func (a *Analyzer) analyzeWith(s *ast.WithStatement) {
	pushed := 0
	for _, target := range s.Targets {
		targetType := a.typeExpression(target)
		rec, ok := types.Underlying(targetType).(*types.RecordType)
		if !ok {
			if targetType.TypeKind() != "UNKNOWN" {
				a.addError(target.Pos(), "with target must be a record, got %s", targetType.String())
			}
			rec = nil
		}
		if !isLValue(target) {
			a.addError(target.Pos(), "with target must be a variable")
		}
		a.withStack = append(a.withStack, withFrame{target: target, record: rec, index: a.withCounter})
		a.withCounter++
		pushed++
	}

	a.analyzeStatement(s.Body)
	a.withStack = a.withStack[:len(a.withStack)-pushed]
}
