package model

// TagInfo describes a named slot for children: how many it accepts and of
// which model types.
type TagInfo struct {
	Name string
	Min  int
	// Max is -1 for an unbounded tag.
	Max int
	// ModelTypes restricts the children; empty accepts every type.
	ModelTypes []string
}

// UniversalTag accepts any number of children.
func UniversalTag(name string, modelTypes ...string) TagInfo {
	return TagInfo{Name: name, Min: 0, Max: -1, ModelTypes: append([]string(nil), modelTypes...)}
}

// PropertyTag holds exactly one child of the given type.
func PropertyTag(name, modelType string) TagInfo {
	return TagInfo{Name: name, Min: 1, Max: 1, ModelTypes: []string{modelType}}
}

func (t TagInfo) IsSinglePropertyTag() bool {
	return t.Min == 1 && t.Max == 1
}

func (t TagInfo) IsValidChild(modelType string) bool {
	if len(t.ModelTypes) == 0 {
		return true
	}
	for _, m := range t.ModelTypes {
		if m == modelType {
			return true
		}
	}
	return false
}

func (t TagInfo) Equal(other TagInfo) bool {
	if t.Name != other.Name || t.Min != other.Min || t.Max != other.Max || len(t.ModelTypes) != len(other.ModelTypes) {
		return false
	}
	for i := range t.ModelTypes {
		if t.ModelTypes[i] != other.ModelTypes[i] {
			return false
		}
	}
	return true
}

// TagRow locates a child within its parent.
type TagRow struct {
	Tag string
	Row int
}
