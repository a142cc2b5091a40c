package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usaHierarchy() *RecordHierarchy {
	h := NewRecordHierarchy("H")
	h.AddChild("P", "H")
	return h
}

func TestRecordHierarchyRootAndParent(t *testing.T) {
	h := usaHierarchy()
	assert.Equal(t, "H", h.Root())

	parent, ok := h.Parent("P")
	require.True(t, ok)
	assert.Equal(t, "H", parent)

	_, ok = h.Parent("H")
	assert.False(t, ok, "root has no parent")
}

func TestRecordHierarchyCommonAncestorChainSameType(t *testing.T) {
	h := usaHierarchy()
	chain, ok := h.CommonAncestorChain("P", "P")
	require.True(t, ok)
	assert.Equal(t, []string{"P"}, chain)
}

func TestRecordHierarchyCommonAncestorChainParentChild(t *testing.T) {
	h := usaHierarchy()
	chain, ok := h.CommonAncestorChain("P", "H")
	require.True(t, ok)
	assert.Equal(t, []string{"P", "H"}, chain)
}

func TestRecordHierarchyCommonAncestorChainUnknown(t *testing.T) {
	h := usaHierarchy()
	_, ok := h.CommonAncestorChain("P", "A")
	assert.False(t, ok)
}

func TestInferSemantic(t *testing.T) {
	tests := []struct {
		code, label string
		want        CategorySemantic
	}{
		{"999", "Missing", SemanticMissing},
		{"998", "Unknown/illegible", SemanticMissing},
		{"99", "N/A or blank", SemanticNotApplicable},
		{"0", "Not in universe", SemanticNotInUniverse},
		{"0", "NIU", SemanticNotInUniverse},
		{"1", "Male", SemanticValue},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferSemantic(tt.code, tt.label), "code=%s label=%s", tt.code, tt.label)
	}
}
