package binary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gto-format/gto/endian"
	"github.com/gto-format/gto/model"
	"github.com/gto-format/gto/types"
)

func TestWrite_EmptyFile(t *testing.T) {
	f := model.New()

	b, err := Write(f)
	require.NoError(t, err)

	// spec §8 scenario 1: exactly 20 bytes, this literal layout.
	want := []byte{0x9F, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	assert.Equal(t, want, b)
}

func TestReadWrite_EmptyFileRoundTrip(t *testing.T) {
	f := model.New()

	b, err := Write(f)
	require.NoError(t, err)

	got, err := Read(b)
	require.NoError(t, err)

	assert.Equal(t, f.Version, got.Version)
	assert.Empty(t, got.Objects)
}

func buildCubeModel() *model.File {
	f := model.New()
	f.Objects = append(f.Objects, &model.Object{
		Name: "cube", Protocol: "polygon", ProtocolVersion: 2,
		Components: []*model.Component{{
			Name: "meta",
			Properties: []*model.Property{{
				Name: "counts", Kind: types.Int, Size: 3, Width: 1, Dims: model.NewScalarDims(),
				Value: model.Value{Ints: []int32{1, 2, 3}},
			}},
		}},
	})

	return f
}

func TestReadWrite_OneObjectOneComponentOneProperty(t *testing.T) {
	f := buildCubeModel()

	b, err := Write(f)
	require.NoError(t, err)

	got, err := Read(b)
	require.NoError(t, err)

	require.Len(t, got.Objects, 1)
	obj := got.Objects[0]
	assert.Equal(t, "cube", obj.Name)
	assert.Equal(t, "polygon", obj.Protocol)
	assert.Equal(t, uint32(2), obj.ProtocolVersion)

	require.Len(t, obj.Components, 1)
	comp := obj.Components[0]
	assert.Equal(t, "meta", comp.Name)

	require.Len(t, comp.Properties, 1)
	prop := comp.Properties[0]
	assert.Equal(t, "counts", prop.Name)
	assert.Equal(t, types.Int, prop.Kind)
	assert.Equal(t, []int32{1, 2, 3}, prop.Value.Ints)
}

func TestReadWrite_VectorProperty(t *testing.T) {
	f := model.New()
	f.Objects = append(f.Objects, &model.Object{
		Name: "obj", Protocol: "proto",
		Components: []*model.Component{{
			Name: "xform",
			Properties: []*model.Property{{
				Name: "position", Kind: types.Float, Size: 3, Width: 3, Dims: model.NewScalarDims(),
				Value: model.Value{Floats: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}},
			}},
		}},
	})

	b, err := Write(f)
	require.NoError(t, err)

	got, err := Read(b)
	require.NoError(t, err)

	prop := got.Objects[0].Components[0].Properties[0]
	assert.Equal(t, uint32(3), prop.Size)
	assert.Equal(t, uint32(3), prop.Width)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, prop.Value.Floats)
}

func TestReadWrite_StringInterningDeduped(t *testing.T) {
	f := model.New()
	for _, name := range []string{"obj1", "obj2"} {
		f.Objects = append(f.Objects, &model.Object{
			Name: name, Protocol: "proto",
			Components: []*model.Component{{
				Name:           "comp",
				Interpretation: "coordinate",
			}},
		})
	}

	b, err := Write(f)
	require.NoError(t, err)

	// The shared interpretation string appears once in the string pool.
	assert.Equal(t, 1, bytes.Count(b, []byte("coordinate\x00")))

	got, err := Read(b)
	require.NoError(t, err)

	assert.Equal(t, "coordinate", got.Objects[0].Components[0].Interpretation)
	assert.Equal(t, "coordinate", got.Objects[1].Components[0].Interpretation)
}

func TestReadWrite_HalfFloatSpecialValues(t *testing.T) {
	f := model.New()
	f.Objects = append(f.Objects, &model.Object{
		Name: "obj", Protocol: "proto",
		Components: []*model.Component{{
			Name: "comp",
			Properties: []*model.Property{{
				Name: "data", Kind: types.Half, Size: 5, Width: 1, Dims: model.NewScalarDims(),
				Value: model.Value{Halves: []uint16{0x3C00, 0x7E00, 0x7C00, 0xFC00, 0x0000}},
			}},
		}},
	})

	b, err := Write(f)
	require.NoError(t, err)

	got, err := Read(b)
	require.NoError(t, err)

	halves := got.Objects[0].Components[0].Properties[0].Value.Halves
	assert.Equal(t, uint16(0x3C00), halves[0]) // 1.0
	assert.Equal(t, uint16(0x7C00), halves[2]) // +Inf
	assert.Equal(t, uint16(0xFC00), halves[3]) // -Inf
	assert.Equal(t, uint16(0x0000), halves[4]) // 0.0
}

func TestReadWrite_QuotedComponentNameWithColons(t *testing.T) {
	f := model.New()
	f.Objects = append(f.Objects, &model.Object{
		Name: "paint1", Protocol: "RVPaint",
		Components: []*model.Component{{Name: "pen:42:7:user"}},
	})

	b, err := Write(f)
	require.NoError(t, err)

	got, err := Read(b)
	require.NoError(t, err)

	assert.Equal(t, "pen:42:7:user", got.Objects[0].Components[0].Name)
}

func TestWriteEngine_BigEndianRoundTrip(t *testing.T) {
	f := buildCubeModel()

	b, err := WriteEngine(f, endian.GetBigEndianEngine())
	require.NoError(t, err)

	// Magic bytes are byte-swapped in the buffer itself.
	assert.Equal(t, []byte{0x00, 0x00, 0x02, 0x9F}, b[0:4])

	got, err := Read(b)
	require.NoError(t, err)

	assert.Equal(t, "cube", got.Objects[0].Name)
	assert.Equal(t, []int32{1, 2, 3}, got.Objects[0].Components[0].Properties[0].Value.Ints)
}

func TestRead_BadMagic(t *testing.T) {
	_, err := Read([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	require.Error(t, err)
}

func TestRead_Truncated(t *testing.T) {
	f := buildCubeModel()
	b, err := Write(f)
	require.NoError(t, err)

	_, err = Read(b[:len(b)-5])
	require.Error(t, err)
}

func TestRead_UnsupportedVersion(t *testing.T) {
	f := model.New()
	f.Version = 99

	b, err := Write(f)
	require.NoError(t, err)

	_, err = Read(b)
	require.Error(t, err)
}

func TestCrossEncodingEquivalence(t *testing.T) {
	f := buildCubeModel()

	bLE, err := WriteEngine(f, endian.GetLittleEndianEngine())
	require.NoError(t, err)
	bBE, err := WriteEngine(f, endian.GetBigEndianEngine())
	require.NoError(t, err)

	gotLE, err := Read(bLE)
	require.NoError(t, err)
	gotBE, err := Read(bBE)
	require.NoError(t, err)

	assert.Equal(t, gotLE.Objects[0].Name, gotBE.Objects[0].Name)
	assert.Equal(t, gotLE.Objects[0].Components[0].Properties[0].Value.Ints,
		gotBE.Objects[0].Components[0].Properties[0].Value.Ints)
}
