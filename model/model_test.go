package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gto-format/gto/types"
)

func TestProperty_TotalScalarsAndPayloadBytes(t *testing.T) {
	p := &Property{
		Kind:  types.Float,
		Size:  3,
		Width: 3,
		Dims:  NewScalarDims(),
	}

	assert.Equal(t, uint64(9), p.TotalScalars())
	assert.Equal(t, uint64(36), p.PayloadBytes())
}

func TestProperty_Validate(t *testing.T) {
	p := &Property{
		Kind:  types.Int,
		Size:  3,
		Width: 1,
		Dims:  NewScalarDims(),
		Value: Value{Ints: []int32{1, 2, 3}},
	}

	require.NoError(t, p.Validate())

	p.Value.Ints = []int32{1, 2}
	require.Error(t, p.Validate())
}

func TestProperty_Validate_UnknownKind(t *testing.T) {
	p := &Property{Kind: types.DataType(200), Dims: NewScalarDims()}
	require.Error(t, p.Validate())
}

func TestObject_FindComponent(t *testing.T) {
	obj := &Object{
		Components: []*Component{
			{Name: "meta", Depth: 0},
			{Name: "geometry", Depth: 0},
		},
	}

	c := obj.FindComponent("geometry")
	require.NotNil(t, c)
	assert.Equal(t, "geometry", c.Name)

	assert.Nil(t, obj.FindComponent("missing"))
}

func TestObject_Children_FlatAllTopLevel(t *testing.T) {
	obj := &Object{
		Components: []*Component{
			{Name: "a", Depth: 0},
			{Name: "b", Depth: 0},
		},
	}

	roots := obj.Children(nil)
	require.Len(t, roots, 2)
	assert.Equal(t, "a", roots[0].Name)
	assert.Equal(t, "b", roots[1].Name)
}

func TestObject_Children_NestedTree(t *testing.T) {
	// Depths reconstruct: root(0) -> childA(1), childB(1) -> grandchild(2)
	root := &Component{Name: "root", Depth: 0}
	childA := &Component{Name: "childA", Depth: 1}
	childB := &Component{Name: "childB", Depth: 1}
	grandchild := &Component{Name: "grandchild", Depth: 2}

	obj := &Object{Components: []*Component{root, childA, childB, grandchild}}

	roots := obj.Children(nil)
	require.Len(t, roots, 1)
	assert.Same(t, root, roots[0])

	kids := obj.Children(root)
	require.Len(t, kids, 2)
	assert.Same(t, childA, kids[0])
	assert.Same(t, childB, kids[1])

	grandkids := obj.Children(childB)
	require.Len(t, grandkids, 1)
	assert.Same(t, grandchild, grandkids[0])

	assert.Empty(t, obj.Children(childA))
}

func TestFile_Validate(t *testing.T) {
	f := New()
	f.Objects = append(f.Objects, &Object{
		Name: "cube", Protocol: "polygon",
		Components: []*Component{{
			Name: "meta",
			Properties: []*Property{{
				Kind: types.Int, Size: 1, Width: 1, Dims: NewScalarDims(),
				Value: Value{Ints: []int32{7}},
			}},
		}},
	})

	require.NoError(t, f.Validate())
	assert.Equal(t, uint32(types.CurrentVersion), f.Version)
}

func TestValue_Len(t *testing.T) {
	assert.Equal(t, 0, Value{}.Len())
	assert.Equal(t, 3, Value{Ints: []int32{1, 2, 3}}.Len())
	assert.Equal(t, 2, Value{Strings: []string{"a", "b"}}.Len())
}
