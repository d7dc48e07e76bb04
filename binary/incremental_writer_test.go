package binary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gto-format/gto/errs"
	"github.com/gto-format/gto/model"
	"github.com/gto-format/gto/types"
)

func TestWriter_HappyPath(t *testing.T) {
	w := NewWriter()

	require.NoError(t, w.BeginObject("cube", "polygon", 2))
	require.NoError(t, w.BeginComponent("meta", "", 0))
	require.NoError(t, w.Property(&model.Property{
		Name: "counts", Kind: types.Int, Size: 3, Width: 1, Dims: model.NewScalarDims(),
		Value: model.Value{Ints: []int32{1, 2, 3}},
	}))
	require.NoError(t, w.EndComponent())
	require.NoError(t, w.EndObject())

	b, err := w.Close()
	require.NoError(t, err)

	got, err := Read(b)
	require.NoError(t, err)
	assert.Equal(t, "cube", got.Objects[0].Name)
}

func TestWriter_MatchesStructuralAPI(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.BeginObject("cube", "polygon", 2))
	require.NoError(t, w.BeginComponent("meta", "", 0))
	require.NoError(t, w.Property(&model.Property{
		Name: "counts", Kind: types.Int, Size: 3, Width: 1, Dims: model.NewScalarDims(),
		Value: model.Value{Ints: []int32{1, 2, 3}},
	}))
	require.NoError(t, w.EndComponent())
	require.NoError(t, w.EndObject())

	incremental, err := w.Close()
	require.NoError(t, err)

	structural, err := Write(buildCubeModel())
	require.NoError(t, err)

	assert.Equal(t, structural, incremental)
}

func TestWriter_StateViolation_PropertyOutsideComponent(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.BeginObject("o", "p", 0))

	err := w.Property(&model.Property{Name: "x", Kind: types.Int, Dims: model.NewScalarDims()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrStateViolation))
}

func TestWriter_StateViolation_EndComponentOutsideObject(t *testing.T) {
	w := NewWriter()

	err := w.EndComponent()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrStateViolation))
}

func TestWriter_StateViolation_EndObjectWhileInComponent(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.BeginObject("o", "p", 0))
	require.NoError(t, w.BeginComponent("c", "", 0))

	err := w.EndObject()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrStateViolation))
}

func TestWriter_StateViolation_DoubleBeginObject(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.BeginObject("o", "p", 0))

	err := w.BeginObject("o2", "p2", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrStateViolation))
}

func TestWriter_CloseTwiceFails(t *testing.T) {
	w := NewWriter()
	_, err := w.Close()
	require.NoError(t, err)

	_, err = w.Close()
	require.Error(t, err)
	assert.Equal(t, "Closed", w.State())
}

func TestWriter_WithEngineOption(t *testing.T) {
	w := NewWriter(WithEngine(littleEndianDefault))
	assert.Equal(t, "Initial", w.State())
}
