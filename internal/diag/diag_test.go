package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagc-lang/tagc/ast"
)

func TestBag_AddAccumulatesInEmissionOrder(t *testing.T) {
	var bag Bag
	assert.False(t, bag.HasErrors())

	bag.Add(UndeclaredIdentifier{Name: "x"}, ast.Span{})
	bag.Add(BreakKeywordOutsideLoop{}, ast.Span{})

	require.True(t, bag.HasErrors())
	assert.Equal(t, 2, bag.Len())

	all := bag.All()
	require.Len(t, all, 2)
	assert.Equal(t, 5, all[0].Kind.Code())
	assert.Equal(t, 7, all[1].Kind.Code())
}

func TestBag_ZeroValueIsUsable(t *testing.T) {
	var bag Bag
	assert.Equal(t, 0, bag.Len())
	assert.False(t, bag.HasErrors())
}

func TestDiagnosticKinds_MessagesResolveProvidedStrings(t *testing.T) {
	assert.Contains(t, UndeclaredIdentifier{Name: "foo"}.Message(), "foo")
	assert.Contains(t, TypeMismatch{Expected: "i32", Received: "bool"}.Message(), "i32")
	assert.Contains(t, TypeMismatch{Expected: "i32", Received: "bool"}.Message(), "bool")
}

func TestDiagnosticKinds_CodesAreStableAndDistinct(t *testing.T) {
	seen := map[int]bool{}
	kinds := []Kind{
		ArithmeticOperandNotNumeric{}, MixedSignedAndUnsigned{}, MixedFloatAndInteger{},
		CannotCompareType{}, UndeclaredIdentifier{}, ReturnKeywordOutsideFunction{},
		BreakKeywordOutsideLoop{}, ContinueKeywordOutsideLoop{}, InvalidLValue{},
		TypeMismatch{}, ReturnNotLastStatement{}, ReturnTypeMismatch{}, UndeclaredType{},
		CannotAccess{}, CannotCall{}, CannotUseTypeDeclarationAsValue{},
		CannotUseVariableDeclarationAsType{}, VarDeclWithoutInitializer{}, AccessToUndefinedField{},
		DuplicateIdentifier{}, FnArgumentCountMismatch{}, DuplicateStructFieldInitializer{},
		UnknownStructFieldInitializer{}, MissingStructFieldInitializer{}, CannotApplyStructInitializer{},
		ModuleNotFound{}, SymbolNotExported{}, ClosuresNotSupportedYet{}, UseOfUninitializedVariable{},
		IncompatibleBranchTypes{}, CannotCastType{}, IfExpressionMissingElse{}, DuplicateUnionVariant{},
		IndexOnNonList{}, CannotDeref{}, MissingReturnOnSomePath{}, MatchArmUnknownTag{},
		ExpectedTypeAnnotation{}, CannotInferType{}, StaticAccessNotSupported{},
	}
	for _, k := range kinds {
		code := k.Code()
		assert.False(t, seen[code], "duplicate diagnostic code %d", code)
		seen[code] = true
	}
}
