package model

import (
	"fmt"

	uuid "github.com/satori/go.uuid"
)

// KeyGenerator produces new pool identifiers.
type KeyGenerator func() string

// NewUUIDKey returns a random UUID v4 string.
func NewUUIDKey() string {
	u, _ := uuid.NewV4()
	return u.String()
}

// ItemPool maps identifiers to live items and back. The pool does not own
// its items: destroying an item, or detaching it from its model, prunes its
// entry.
type ItemPool struct {
	keyToItem map[string]*SessionItem
	itemToKey map[*SessionItem]string
	generate  KeyGenerator
}

func NewItemPool() *ItemPool {
	return NewItemPoolWithGenerator(nil)
}

// NewItemPoolWithGenerator uses generate for fresh identifiers; nil selects
// UUIDs.
func NewItemPoolWithGenerator(generate KeyGenerator) *ItemPool {
	if generate == nil {
		generate = NewUUIDKey
	}
	return &ItemPool{
		keyToItem: make(map[string]*SessionItem),
		itemToKey: make(map[*SessionItem]string),
		generate:  generate,
	}
}

func (p *ItemPool) Size() int {
	return len(p.keyToItem)
}

// RegisterItem records item under key and returns the key actually used. An
// empty key asks for a fresh one. An item already in the pool keeps its key.
// An item lives in at most one pool: registering it here removes it from
// the previous one, and the key is written to the item's identifier role.
func (p *ItemPool) RegisterItem(item *SessionItem, key string) (string, error) {
	if item == nil || item.destroyed {
		return "", ErrInvalidItem
	}
	if existing, ok := p.itemToKey[item]; ok {
		return existing, nil
	}
	if key == "" {
		key = p.freshKey()
	} else if _, taken := p.keyToItem[key]; taken {
		return "", fmt.Errorf("%q: %w", key, ErrDuplicateKey)
	}
	if item.pool != nil && item.pool != p {
		item.pool.UnregisterItem(item)
	}
	p.keyToItem[key] = item
	p.itemToKey[item] = key
	item.pool = p

	if item.Identifier() != key {
		// the role may hold a non-string value set before registration
		item.data.SetData(Invalid(), RoleIdentifier)
		item.data.SetData(StringVariant(key), RoleIdentifier)
	}
	return key, nil
}

func (p *ItemPool) freshKey() string {
	for {
		key := p.generate()
		if _, taken := p.keyToItem[key]; !taken {
			return key
		}
	}
}

// UnregisterItem forgets item; unknown items are ignored.
func (p *ItemPool) UnregisterItem(item *SessionItem) {
	if key, ok := p.itemToKey[item]; ok {
		delete(p.itemToKey, item)
		delete(p.keyToItem, key)
	}
	if item != nil && item.pool == p {
		item.pool = nil
	}
}

func (p *ItemPool) KeyForItem(item *SessionItem) (string, error) {
	key, ok := p.itemToKey[item]
	if !ok {
		return "", ErrNotRegistered
	}
	return key, nil
}

// ItemForKey never returns a destroyed item.
func (p *ItemPool) ItemForKey(key string) (*SessionItem, error) {
	item, ok := p.keyToItem[key]
	if !ok || item.destroyed {
		return nil, fmt.Errorf("%q: %w", key, ErrUnknownIdentifier)
	}
	return item, nil
}

func (p *ItemPool) rekey(item *SessionItem, oldKey, newKey string) {
	if p.keyToItem[oldKey] == item {
		delete(p.keyToItem, oldKey)
	}
	p.keyToItem[newKey] = item
	p.itemToKey[item] = newKey
}
