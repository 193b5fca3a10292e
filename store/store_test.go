package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrimsonAS/qmvvm/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	s := openTestStore(t)

	source := model.NewSessionModel("SampleModel")
	vector, err := source.InsertNewItem(model.VectorType, nil, "", -1)
	require.NoError(t, err)
	require.NoError(t, vector.SetProperty(model.VectorY, model.DoubleVariant(2.5)))

	rev, err := s.Save(source)
	require.NoError(t, err)
	assert.Equal(t, 1, rev)

	target := model.NewSessionModel("SampleModel")
	require.NoError(t, s.Load(target))
	found, err := target.FindItem(vector.Identifier())
	require.NoError(t, err)
	assert.Equal(t, 2.5, found.Property(model.VectorY).Double())

	assert.ErrorIs(t, s.Load(model.NewSessionModel("Other")), ErrNotFound)
}

func TestRevisions(t *testing.T) {
	saved := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return saved }
	defer func() { timeNow = time.Now }()

	s := openTestStore(t)
	m := model.NewSessionModel("SampleModel")

	rev, err := s.Save(m)
	require.NoError(t, err)
	assert.Equal(t, 1, rev)

	rev, err = s.Save(m)
	require.NoError(t, err)
	assert.Equal(t, 1, rev, "unchanged model adds no revision")

	_, err = m.InsertNewItem(model.PropertyType, nil, "", -1)
	require.NoError(t, err)
	rev, err = s.Save(m)
	require.NoError(t, err)
	assert.Equal(t, 2, rev)

	revisions, err := s.Revisions("SampleModel")
	require.NoError(t, err)
	require.Len(t, revisions, 2)
	assert.Equal(t, 1, revisions[0].Number)
	assert.Equal(t, saved, revisions[1].SavedAt.UTC())

	first := model.NewSessionModel("SampleModel")
	require.NoError(t, s.LoadRevision(first, "SampleModel", 1))
	assert.Empty(t, first.TopItems())

	latest := model.NewSessionModel("SampleModel")
	require.NoError(t, s.LoadRevision(latest, "SampleModel", 0))
	assert.Len(t, latest.TopItems(), 1)

	assert.ErrorIs(t, s.LoadRevision(latest, "SampleModel", 9), ErrRevisionNotFound)
}

func TestListDelete(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Save(model.NewSessionModel("SampleModel"))
	require.NoError(t, err)
	_, err = s.SaveAs("backup", model.NewSessionModel("SampleModel"))
	require.NoError(t, err)

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"SampleModel", "backup"}, names)

	require.NoError(t, s.Delete("backup"))
	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"SampleModel"}, names)

	assert.ErrorIs(t, s.Delete("backup"), ErrNotFound)
	_, err = s.Revisions("backup")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.SaveAs("a/b", model.NewSessionModel("SampleModel"))
	assert.Error(t, err)
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Options{Dir: dir})
	require.NoError(t, err)
	_, err = s.Save(model.NewSessionModel("SampleModel"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(Options{Dir: dir})
	require.NoError(t, err)
	defer s.Close()
	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"SampleModel"}, names)

	_, err = Open(Options{})
	assert.Error(t, err)
}
