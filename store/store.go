// Package store keeps model documents in BadgerDB. Every save of a changed
// model adds a revision; older revisions stay loadable until the document
// is deleted.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/CrimsonAS/qmvvm/internal/observability"
	"github.com/CrimsonAS/qmvvm/model"
	"github.com/CrimsonAS/qmvvm/serialization"
)

var (
	// ErrNotFound indicates that no document has the name.
	ErrNotFound = errors.New("document not found")

	// ErrRevisionNotFound indicates that the document has no such revision.
	ErrRevisionNotFound = errors.New("revision not found")
)

// timeNow returns current time (allows for mock in tests)
var timeNow = time.Now

const (
	docPrefix = "doc/"
	revPrefix = "rev/"
)

// Options configures a Store.
type Options struct {
	// Dir holds the database files. Ignored when InMemory is set.
	Dir string
	// InMemory keeps everything in memory; nothing survives Close.
	InMemory bool
}

// Revision describes one saved snapshot of a document.
type Revision struct {
	Number  int       `json:"number"`
	SavedAt time.Time `json:"savedAt"`
	Size    int       `json:"size"`
}

type document struct {
	Name      string     `json:"name"`
	ModelType string     `json:"modelType"`
	Revisions []Revision `json:"revisions"`
}

func (d *document) latest() int {
	if len(d.Revisions) == 0 {
		return 0
	}
	return d.Revisions[len(d.Revisions)-1].Number
}

// Store is safe for concurrent use. The models passed to it are not; the
// caller serializes access to them.
type Store struct {
	db *badger.DB
}

func Open(options Options) (*Store, error) {
	var opts badger.Options
	if options.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if options.Dir == "" {
			return nil, fmt.Errorf("store directory not set")
		}
		opts = badger.DefaultOptions(options.Dir)
	}
	opts = opts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func docKey(name string) []byte {
	return []byte(docPrefix + name)
}

func revKey(name string, number int) []byte {
	return []byte(fmt.Sprintf("%s%s/%08d", revPrefix, name, number))
}

func getDocument(txn *badger.Txn, name string) (*document, error) {
	item, err := txn.Get(docKey(name))
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	} else if err != nil {
		return nil, err
	}
	doc := &document{}
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, doc)
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document %q: %w", name, err)
	}
	return doc, nil
}

func getRevision(txn *badger.Txn, name string, number int) ([]byte, error) {
	item, err := txn.Get(revKey(name, number))
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("%q revision %d: %w", name, number, ErrRevisionNotFound)
	} else if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// Save stores the model under its model type and returns the revision
// holding it. A model equal to the latest revision adds no new one.
func (s *Store) Save(m *model.SessionModel) (int, error) {
	return s.SaveAs(m.ModelType(), m)
}

// SaveAs stores the model under name.
func (s *Store) SaveAs(name string, m *model.SessionModel) (int, error) {
	if name == "" || strings.Contains(name, "/") {
		return 0, fmt.Errorf("invalid document name %q", name)
	}
	data, err := serialization.ModelToJSON(m)
	if err != nil {
		return 0, err
	}

	var number int
	err = s.db.Update(func(txn *badger.Txn) error {
		doc, err := getDocument(txn, name)
		if errors.Is(err, ErrNotFound) {
			doc = &document{Name: name, ModelType: m.ModelType(), Revisions: []Revision{}}
		} else if err != nil {
			return err
		}

		if latest := doc.latest(); latest > 0 {
			previous, err := getRevision(txn, name, latest)
			if err != nil {
				return err
			}
			if bytes.Equal(previous, data) {
				number = latest
				return nil
			}
		}

		number = doc.latest() + 1
		doc.ModelType = m.ModelType()
		doc.Revisions = append(doc.Revisions, Revision{Number: number, SavedAt: timeNow(), Size: len(data)})
		meta, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		if err := txn.Set(revKey(name, number), data); err != nil {
			return err
		}
		return txn.Set(docKey(name), meta)
	})
	if err != nil {
		return 0, err
	}
	observability.Component("store").Debug("saved", "document", name, "revision", number)
	return number, nil
}

// Load replaces the content of m by the latest revision saved under its
// model type.
func (s *Store) Load(m *model.SessionModel) error {
	return s.LoadRevision(m, m.ModelType(), 0)
}

// LoadRevision loads a revision of the named document into m; revision 0
// means the latest.
func (s *Store) LoadRevision(m *model.SessionModel, name string, revision int) error {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		doc, err := getDocument(txn, name)
		if err != nil {
			return err
		}
		if revision == 0 {
			revision = doc.latest()
		}
		data, err = getRevision(txn, name, revision)
		return err
	})
	if err != nil {
		return err
	}
	return serialization.JSONToModel(data, m)
}

// Revisions lists the revisions of a document, oldest first.
func (s *Store) Revisions(name string) ([]Revision, error) {
	var doc *document
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		doc, err = getDocument(txn, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc.Revisions, nil
}

// List returns the document names in key order.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(docPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), docPrefix))
		}
		return nil
	})
	return names, err
}

// Delete removes a document with all its revisions.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		doc, err := getDocument(txn, name)
		if err != nil {
			return err
		}
		for _, rev := range doc.Revisions {
			if err := txn.Delete(revKey(name, rev.Number)); err != nil {
				return err
			}
		}
		return txn.Delete(docKey(name))
	})
}
