package serialization

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrimsonAS/qmvvm/model"
)

func TestVariantRoundTrip(t *testing.T) {
	combo, err := model.NewComboProperty("a", "b", "c").WithIndex(2)
	require.NoError(t, err)

	for _, v := range []model.Variant{
		model.Invalid(),
		model.BoolVariant(true),
		model.IntVariant(-7),
		model.DoubleVariant(42.5),
		model.StringVariant("layer"),
		model.ComboVariant(combo),
		model.VectorVariant(1, 2.5, 3),
		model.VectorVariant(),
	} {
		data, err := MarshalVariant(v)
		require.NoError(t, err)
		back, err := UnmarshalVariant(data)
		require.NoError(t, err, string(data))
		assert.True(t, v.IsTheSame(back), "%s became %s", v, back)
	}
}

func TestVariantTypeNames(t *testing.T) {
	data, err := MarshalVariant(model.StringVariant("x"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"std::string","value":"x"}`, string(data))

	data, err = MarshalVariant(model.VectorVariant(1, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"std::vector<double>","value":[1,2]}`, string(data))

	_, err = UnmarshalVariant([]byte(`{"type":"QColor","value":"red"}`))
	assert.ErrorIs(t, err, ErrUnknownVariantType)

	_, err = UnmarshalVariant([]byte(`{"type":"int","value":"red"}`))
	assert.Error(t, err)

	_, err = UnmarshalVariant([]byte(`{"type":"ComboProperty","value":{"values":["a"],"selectedIndex":4}}`))
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
}

func TestVariantNonFiniteDoubles(t *testing.T) {
	for _, v := range []model.Variant{
		model.DoubleVariant(math.Inf(1)),
		model.DoubleVariant(math.Inf(-1)),
		model.DoubleVariant(math.NaN()),
		model.VectorVariant(math.Inf(-1), 0, math.NaN()),
	} {
		data, err := MarshalVariant(v)
		require.NoError(t, err)
		back, err := UnmarshalVariant(data)
		require.NoError(t, err, string(data))
		assert.True(t, v.IsTheSame(back), "%s became %s", v, back)
	}

	data, err := MarshalVariant(model.VectorVariant(math.Inf(1), 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"std::vector<double>","value":["inf",2]}`, string(data))

	_, err = UnmarshalVariant([]byte(`{"type":"double","value":"huge"}`))
	assert.Error(t, err)
}

func TestModelWithNonFiniteValues(t *testing.T) {
	source := model.NewSessionModel("SampleModel")
	vector, err := source.InsertNewItem(model.VectorType, nil, "", -1)
	require.NoError(t, err)
	require.NoError(t, vector.SetProperty(model.VectorX, model.DoubleVariant(math.Inf(-1))))
	require.NoError(t, vector.SetProperty(model.VectorY, model.DoubleVariant(math.NaN())))

	data, err := ModelToJSON(source)
	require.NoError(t, err)
	target := model.NewSessionModel("SampleModel")
	require.NoError(t, JSONToModel(data, target))

	restored := target.TopItems()[0]
	assert.True(t, math.IsInf(restored.Property(model.VectorX).Double(), -1))
	assert.True(t, math.IsNaN(restored.Property(model.VectorY).Double()))
}

func newLayer() *model.SessionItem {
	layer := model.NewCompoundItem("Layer")
	layer.AddProperty("thickness", model.DoubleVariant(0))
	layer.AddProperty("material", model.ComboVariant(model.NewComboProperty("air", "silicon")))
	layer.RegisterTag(model.UniversalTag("children"), true)
	return layer
}

func testCatalogue(t *testing.T) *model.ItemCatalogue {
	c := model.StandardCatalogue()
	require.NoError(t, c.RegisterItem("Layer", "", newLayer))
	return c
}

func TestItemRoundTrip(t *testing.T) {
	catalogue := testCatalogue(t)
	layer := newLayer()
	require.NoError(t, layer.SetProperty("thickness", model.DoubleVariant(12.5)))
	require.NoError(t, layer.SetDisplayName("Top"))
	require.NoError(t, layer.InsertItem(model.NewVectorItem(), "children", -1))
	layer.RegisterItem(model.NewItemPool())

	data, err := ItemToJSON(layer)
	require.NoError(t, err)

	back, err := JSONToItem(catalogue, data)
	require.NoError(t, err)
	assert.Equal(t, "Layer", back.ModelType())
	assert.Equal(t, "Top", back.DisplayName())
	assert.Equal(t, layer.Identifier(), back.Identifier())
	assert.Equal(t, 12.5, back.Property("thickness").Double())
	assert.Equal(t, "air", back.Property("material").Combo().Value())
	assert.Equal(t, "children", back.DefaultTag())
	require.Equal(t, 1, back.ItemCount("children"))
	assert.Equal(t, model.VectorType, back.GetItem("children", 0).ModelType())

	again, err := ItemToJSON(back)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestItemJSONShape(t *testing.T) {
	item := model.NewPropertyItem()
	item.SetData(model.IntVariant(3), model.RoleData)

	data, err := ItemToJSON(item)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, model.PropertyType, doc["model"])
	assert.Len(t, doc["itemData"], 1)
	tags := doc["itemTags"].(map[string]interface{})
	assert.Equal(t, model.DefaultTagName, tags["defaultTag"])
	assert.Len(t, tags["containers"], 1)
}

func TestJSONToItemErrors(t *testing.T) {
	catalogue := testCatalogue(t)

	_, err := JSONToItem(catalogue, []byte(`{"model":"Unknown","itemData":[],"itemTags":{"containers":[]}}`))
	assert.ErrorIs(t, err, model.ErrUnknownModelType)

	_, err = JSONToItem(catalogue, []byte(`{"model":"Property","itemData":[],"itemTags":{"defaultTag":"x","containers":[]}}`))
	assert.ErrorIs(t, err, model.ErrUnknownTag)

	_, err = JSONToItem(catalogue, []byte(`not json`))
	assert.Error(t, err)
}

func TestCopyItem(t *testing.T) {
	catalogue := testCatalogue(t)
	m := model.NewSessionModelWithOptions("SampleModel", model.ModelOptions{Catalogue: catalogue})
	layer, err := m.InsertNewItem("Layer", nil, "", -1)
	require.NoError(t, err)

	clone, err := CopyItem(catalogue, layer)
	require.NoError(t, err)
	assert.Equal(t, "", clone.Identifier())

	require.NoError(t, m.InsertItem(clone, nil, "", -1))
	assert.NotEqual(t, layer.Identifier(), clone.Identifier())
	assert.NotEqual(t, layer.PropertyItem("thickness").Identifier(), clone.PropertyItem("thickness").Identifier())
}

func TestModelRoundTrip(t *testing.T) {
	catalogue := testCatalogue(t)
	source := model.NewSessionModelWithOptions("SampleModel", model.ModelOptions{Catalogue: catalogue})
	layer, err := source.InsertNewItem("Layer", nil, "", -1)
	require.NoError(t, err)
	vector, err := source.InsertNewItem(model.VectorType, layer, "children", -1)
	require.NoError(t, err)
	require.NoError(t, vector.SetProperty(model.VectorX, model.DoubleVariant(1.5)))

	data, err := ModelToJSON(source)
	require.NoError(t, err)
	assert.True(t, IsModel(data))

	target := model.NewSessionModelWithOptions("SampleModel", model.ModelOptions{Catalogue: catalogue})
	resets := 0
	target.Mapper().SetOnModelReset(func(*model.SessionModel) { resets++ }, t)
	require.NoError(t, JSONToModel(data, target))
	assert.Equal(t, 1, resets)

	require.Len(t, target.TopItems(), 1)
	found, err := target.FindItem(vector.Identifier())
	require.NoError(t, err)
	assert.Equal(t, 1.5, found.Property(model.VectorX).Double())

	sourcePath, err := source.PathFromItem(vector)
	require.NoError(t, err)
	targetPath, err := target.PathFromItem(found)
	require.NoError(t, err)
	assert.True(t, sourcePath.Equal(targetPath))
}

func TestJSONToModelMismatch(t *testing.T) {
	source := model.NewSessionModel("SampleModel")
	_, err := source.InsertNewItem(model.VectorType, nil, "", -1)
	require.NoError(t, err)
	data, err := ModelToJSON(source)
	require.NoError(t, err)

	other := model.NewSessionModel("MaterialModel")
	assert.ErrorIs(t, JSONToModel(data, other), ErrModelMismatch)

	target := model.NewSessionModel("SampleModel")
	existing, err := target.InsertNewItem(model.PropertyType, nil, "", -1)
	require.NoError(t, err)
	broken := []byte(`{"model":"SampleModel","items":[{"model":"Unknown","itemData":[],"itemTags":{"containers":[]}}]}`)
	assert.ErrorIs(t, JSONToModel(broken, target), model.ErrUnknownModelType)
	assert.False(t, existing.IsDestroyed(), "a broken document leaves the model alone")

	assert.False(t, IsModel([]byte(`{"model":"x"}`)))
}
