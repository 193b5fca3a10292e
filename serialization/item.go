package serialization

import (
	"encoding/json"
	"fmt"

	"github.com/CrimsonAS/qmvvm/model"
)

type dataRoleJSON struct {
	Role    int         `json:"role"`
	Variant variantJSON `json:"variant"`
}

type tagInfoJSON struct {
	Name       string   `json:"name"`
	Min        int      `json:"min"`
	Max        int      `json:"max"`
	ModelTypes []string `json:"modelTypes"`
}

type containerJSON struct {
	TagInfo tagInfoJSON `json:"tagInfo"`
	Items   []itemJSON  `json:"items"`
}

type itemTagsJSON struct {
	DefaultTag string          `json:"defaultTag"`
	Containers []containerJSON `json:"containers"`
}

type itemJSON struct {
	Model    string         `json:"model"`
	ItemData []dataRoleJSON `json:"itemData"`
	ItemTags itemTagsJSON   `json:"itemTags"`
}

// ItemToJSON writes item with its data, tags and whole subtree.
func ItemToJSON(item *model.SessionItem) ([]byte, error) {
	ij, err := itemToJSON(item)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ij)
}

// JSONToItem builds a detached item tree from a document. Every item is
// first created through catalogue, so items get their factory
// configuration, and then data and tags are replaced by the stored ones.
// Identifiers are kept.
func JSONToItem(catalogue *model.ItemCatalogue, data []byte) (*model.SessionItem, error) {
	var ij itemJSON
	if err := json.Unmarshal(data, &ij); err != nil {
		return nil, err
	}
	return jsonToItem(catalogue, &ij)
}

// CopyItem returns a detached deep copy of item with all identifiers
// removed, so the copy gets fresh ones when it enters a model.
func CopyItem(catalogue *model.ItemCatalogue, item *model.SessionItem) (*model.SessionItem, error) {
	ij, err := itemToJSON(item)
	if err != nil {
		return nil, err
	}
	stripIdentifiers(&ij)
	return jsonToItem(catalogue, &ij)
}

func stripIdentifiers(ij *itemJSON) {
	kept := ij.ItemData[:0]
	for _, d := range ij.ItemData {
		if d.Role != model.RoleIdentifier {
			kept = append(kept, d)
		}
	}
	ij.ItemData = kept
	for i := range ij.ItemTags.Containers {
		for j := range ij.ItemTags.Containers[i].Items {
			stripIdentifiers(&ij.ItemTags.Containers[i].Items[j])
		}
	}
}

func itemToJSON(item *model.SessionItem) (itemJSON, error) {
	ij := itemJSON{
		Model:    item.ModelType(),
		ItemData: []dataRoleJSON{},
		ItemTags: itemTagsJSON{DefaultTag: item.DefaultTag(), Containers: []containerJSON{}},
	}
	for _, role := range item.Roles() {
		vj, err := variantToJSON(item.Data(role))
		if err != nil {
			return itemJSON{}, fmt.Errorf("%s role %d: %w", item.ModelType(), role, err)
		}
		ij.ItemData = append(ij.ItemData, dataRoleJSON{Role: role, Variant: vj})
	}
	for _, info := range item.TagInfos() {
		cj := containerJSON{
			TagInfo: tagInfoJSON{Name: info.Name, Min: info.Min, Max: info.Max, ModelTypes: info.ModelTypes},
			Items:   []itemJSON{},
		}
		if cj.TagInfo.ModelTypes == nil {
			cj.TagInfo.ModelTypes = []string{}
		}
		for _, child := range item.GetItems(info.Name) {
			childJSON, err := itemToJSON(child)
			if err != nil {
				return itemJSON{}, err
			}
			cj.Items = append(cj.Items, childJSON)
		}
		ij.ItemTags.Containers = append(ij.ItemTags.Containers, cj)
	}
	return ij, nil
}

func jsonToItem(catalogue *model.ItemCatalogue, ij *itemJSON) (*model.SessionItem, error) {
	item, err := catalogue.Create(ij.Model)
	if err != nil {
		return nil, err
	}
	if err := fillItem(catalogue, item, ij); err != nil {
		item.Destroy()
		return nil, err
	}
	return item, nil
}

func fillItem(catalogue *model.ItemCatalogue, item *model.SessionItem, ij *itemJSON) error {
	for _, role := range item.Roles() {
		if _, err := item.SetData(model.Invalid(), role); err != nil {
			return err
		}
	}
	for _, d := range ij.ItemData {
		v, err := jsonToVariant(d.Variant)
		if err != nil {
			return fmt.Errorf("%s role %d: %w", ij.Model, d.Role, err)
		}
		if _, err := item.SetData(v, d.Role); err != nil {
			return fmt.Errorf("%s role %d: %w", ij.Model, d.Role, err)
		}
	}

	infos := make([]model.TagInfo, len(ij.ItemTags.Containers))
	for i, cj := range ij.ItemTags.Containers {
		infos[i] = model.TagInfo{Name: cj.TagInfo.Name, Min: cj.TagInfo.Min, Max: cj.TagInfo.Max, ModelTypes: cj.TagInfo.ModelTypes}
	}
	if err := item.ResetTags(infos, ij.ItemTags.DefaultTag); err != nil {
		return fmt.Errorf("%s tags: %w", ij.Model, err)
	}

	for i := range ij.ItemTags.Containers {
		cj := &ij.ItemTags.Containers[i]
		for j := range cj.Items {
			child, err := jsonToItem(catalogue, &cj.Items[j])
			if err != nil {
				return err
			}
			if err := item.InsertItem(child, cj.TagInfo.Name, -1); err != nil {
				child.Destroy()
				return fmt.Errorf("%s tag %q: %w", ij.Model, cj.TagInfo.Name, err)
			}
		}
	}
	return nil
}
