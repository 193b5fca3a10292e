package serialization

import (
	"encoding/json"
	"fmt"

	"github.com/CrimsonAS/qmvvm/model"
)

type modelJSON struct {
	Model string     `json:"model"`
	Items []itemJSON `json:"items"`
}

// ModelToJSON writes the model type and every top level item.
func ModelToJSON(m *model.SessionModel) ([]byte, error) {
	mj := modelJSON{Model: m.ModelType(), Items: []itemJSON{}}
	for _, item := range m.TopItems() {
		ij, err := itemToJSON(item)
		if err != nil {
			return nil, err
		}
		mj.Items = append(mj.Items, ij)
	}
	return json.Marshal(mj)
}

// IsModel reports whether data looks like a model document.
func IsModel(data []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	_, hasModel := probe["model"]
	_, hasItems := probe["items"]
	return hasModel && hasItems
}

// JSONToModel replaces the content of m by the document. The document must
// have been written by a model of the same type. The whole tree is built
// before the model is touched, so a broken document leaves m unchanged.
func JSONToModel(data []byte, m *model.SessionModel) error {
	var mj modelJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return err
	}
	if mj.Model != m.ModelType() {
		return fmt.Errorf("%q into %q: %w", mj.Model, m.ModelType(), ErrModelMismatch)
	}

	items := make([]*model.SessionItem, 0, len(mj.Items))
	destroyAll := func() {
		for _, item := range items {
			item.Destroy()
		}
	}
	for i := range mj.Items {
		item, err := jsonToItem(m.Catalogue(), &mj.Items[i])
		if err != nil {
			destroyAll()
			return err
		}
		items = append(items, item)
	}

	var insertErr error
	m.Clear(func(root *model.SessionItem) {
		for _, item := range items {
			if insertErr != nil {
				item.Destroy()
				continue
			}
			insertErr = root.InsertItem(item, "", -1)
			if insertErr != nil {
				item.Destroy()
			}
		}
	})
	return insertErr
}
