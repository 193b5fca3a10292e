package model

// Listeners register with a client value (usually a pointer to themselves)
// and drop all of their callbacks at once with Unsubscribe. The client must
// be comparable.
//
// Callbacks run synchronously and may change the tree; every call iterates
// over a snapshot of the listener list, so subscribing or unsubscribing
// during a callback takes effect from the next notification.

type slot[F any] struct {
	client interface{}
	fn     F
}

type signal[F any] struct {
	slots []slot[F]
}

func (s *signal[F]) connect(fn F, client interface{}) {
	s.slots = append(s.slots, slot[F]{client: client, fn: fn})
}

func (s *signal[F]) remove(client interface{}) {
	kept := s.slots[:0:0]
	for _, sl := range s.slots {
		if sl.client != client {
			kept = append(kept, sl)
		}
	}
	s.slots = kept
}

func (s *signal[F]) snapshot() []F {
	fns := make([]F, len(s.slots))
	for i, sl := range s.slots {
		fns[i] = sl.fn
	}
	return fns
}

type (
	DataChangeFunc     func(item *SessionItem, role int)
	TagRowFunc         func(parent *SessionItem, tagRow TagRow)
	ItemFunc           func(item *SessionItem)
	PropertyChangeFunc func(item *SessionItem, name string)
	ModelFunc          func(model *SessionModel)
)

// ModelMapper delivers model-wide change notifications, the contract
// between a model and its views.
type ModelMapper struct {
	model  *SessionModel
	active bool

	onDataChange          signal[DataChangeFunc]
	onAboutToInsertItem   signal[TagRowFunc]
	onItemInserted        signal[TagRowFunc]
	onAboutToRemoveItem   signal[TagRowFunc]
	onItemRemoved         signal[TagRowFunc]
	onModelAboutToBeReset signal[ModelFunc]
	onModelReset          signal[ModelFunc]
	onModelDestroyed      signal[ModelFunc]
}

func newModelMapper(model *SessionModel) *ModelMapper {
	return &ModelMapper{model: model, active: true}
}

// SetActive mutes (false) or resumes (true) all notifications.
func (m *ModelMapper) SetActive(active bool) { m.active = active }
func (m *ModelMapper) IsActive() bool        { return m.active }

func (m *ModelMapper) SetOnDataChange(fn DataChangeFunc, client interface{}) {
	m.onDataChange.connect(fn, client)
}

func (m *ModelMapper) SetOnAboutToInsertItem(fn TagRowFunc, client interface{}) {
	m.onAboutToInsertItem.connect(fn, client)
}

func (m *ModelMapper) SetOnItemInserted(fn TagRowFunc, client interface{}) {
	m.onItemInserted.connect(fn, client)
}

func (m *ModelMapper) SetOnAboutToRemoveItem(fn TagRowFunc, client interface{}) {
	m.onAboutToRemoveItem.connect(fn, client)
}

func (m *ModelMapper) SetOnItemRemoved(fn TagRowFunc, client interface{}) {
	m.onItemRemoved.connect(fn, client)
}

func (m *ModelMapper) SetOnModelAboutToBeReset(fn ModelFunc, client interface{}) {
	m.onModelAboutToBeReset.connect(fn, client)
}

func (m *ModelMapper) SetOnModelReset(fn ModelFunc, client interface{}) {
	m.onModelReset.connect(fn, client)
}

func (m *ModelMapper) SetOnModelDestroyed(fn ModelFunc, client interface{}) {
	m.onModelDestroyed.connect(fn, client)
}

// Unsubscribe removes every callback registered by client.
func (m *ModelMapper) Unsubscribe(client interface{}) {
	m.onDataChange.remove(client)
	m.onAboutToInsertItem.remove(client)
	m.onItemInserted.remove(client)
	m.onAboutToRemoveItem.remove(client)
	m.onItemRemoved.remove(client)
	m.onModelAboutToBeReset.remove(client)
	m.onModelReset.remove(client)
	m.onModelDestroyed.remove(client)
}

func (m *ModelMapper) callOnDataChange(item *SessionItem, role int) {
	if !m.active {
		return
	}
	for _, fn := range m.onDataChange.snapshot() {
		fn(item, role)
	}
}

func (m *ModelMapper) callTagRow(s *signal[TagRowFunc], parent *SessionItem, tagRow TagRow) {
	if !m.active {
		return
	}
	for _, fn := range s.snapshot() {
		fn(parent, tagRow)
	}
}

func (m *ModelMapper) callOnAboutToInsertItem(parent *SessionItem, tagRow TagRow) {
	m.callTagRow(&m.onAboutToInsertItem, parent, tagRow)
}

func (m *ModelMapper) callOnItemInserted(parent *SessionItem, tagRow TagRow) {
	m.callTagRow(&m.onItemInserted, parent, tagRow)
}

func (m *ModelMapper) callOnAboutToRemoveItem(parent *SessionItem, tagRow TagRow) {
	m.callTagRow(&m.onAboutToRemoveItem, parent, tagRow)
}

func (m *ModelMapper) callOnItemRemoved(parent *SessionItem, tagRow TagRow) {
	m.callTagRow(&m.onItemRemoved, parent, tagRow)
}

func (m *ModelMapper) callModel(s *signal[ModelFunc]) {
	if !m.active {
		return
	}
	for _, fn := range s.snapshot() {
		fn(m.model)
	}
}

func (m *ModelMapper) callOnModelAboutToBeReset() { m.callModel(&m.onModelAboutToBeReset) }
func (m *ModelMapper) callOnModelReset()          { m.callModel(&m.onModelReset) }
func (m *ModelMapper) callOnModelDestroyed()      { m.callModel(&m.onModelDestroyed) }

// ItemMapper delivers the notifications concerning a single item.
type ItemMapper struct {
	onItemDestroy       signal[ItemFunc]
	onDataChange        signal[DataChangeFunc]
	onPropertyChange    signal[PropertyChangeFunc]
	onItemInserted      signal[TagRowFunc]
	onAboutToRemoveItem signal[TagRowFunc]
}

func newItemMapper() *ItemMapper {
	return &ItemMapper{}
}

func (m *ItemMapper) SetOnItemDestroy(fn ItemFunc, client interface{}) {
	m.onItemDestroy.connect(fn, client)
}

func (m *ItemMapper) SetOnDataChange(fn DataChangeFunc, client interface{}) {
	m.onDataChange.connect(fn, client)
}

// SetOnPropertyChange fires when the data of a child changes; name is the
// child's tag.
func (m *ItemMapper) SetOnPropertyChange(fn PropertyChangeFunc, client interface{}) {
	m.onPropertyChange.connect(fn, client)
}

func (m *ItemMapper) SetOnItemInserted(fn TagRowFunc, client interface{}) {
	m.onItemInserted.connect(fn, client)
}

func (m *ItemMapper) SetOnAboutToRemoveItem(fn TagRowFunc, client interface{}) {
	m.onAboutToRemoveItem.connect(fn, client)
}

func (m *ItemMapper) Unsubscribe(client interface{}) {
	m.onItemDestroy.remove(client)
	m.onDataChange.remove(client)
	m.onPropertyChange.remove(client)
	m.onItemInserted.remove(client)
	m.onAboutToRemoveItem.remove(client)
}

func (m *ItemMapper) clear() {
	*m = ItemMapper{}
}

func (m *ItemMapper) callOnItemDestroy(item *SessionItem) {
	for _, fn := range m.onItemDestroy.snapshot() {
		fn(item)
	}
}

func (m *ItemMapper) callOnDataChange(item *SessionItem, role int) {
	for _, fn := range m.onDataChange.snapshot() {
		fn(item, role)
	}
}

func (m *ItemMapper) callOnPropertyChange(item *SessionItem, name string) {
	for _, fn := range m.onPropertyChange.snapshot() {
		fn(item, name)
	}
}

func (m *ItemMapper) callOnItemInserted(item *SessionItem, tagRow TagRow) {
	for _, fn := range m.onItemInserted.snapshot() {
		fn(item, tagRow)
	}
}

func (m *ItemMapper) callOnAboutToRemoveItem(item *SessionItem, tagRow TagRow) {
	for _, fn := range m.onAboutToRemoveItem.snapshot() {
		fn(item, tagRow)
	}
}
