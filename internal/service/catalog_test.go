package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

// sequenceSource returns its results in order, repeating the last one.
type sequenceSource struct {
	results []func() (*entities.Catalog, error)
	calls   int
}

func (s *sequenceSource) Load(context.Context) (*entities.Catalog, error) {
	i := min(s.calls, len(s.results)-1)
	s.calls++
	return s.results[i]()
}

type reloadRecorder struct{ errs []error }

func (r *reloadRecorder) CatalogReloaded(err error) { r.errs = append(r.errs, err) }

func catalogWith(quizzes ...*entities.Quiz) func() (*entities.Catalog, error) {
	return func() (*entities.Catalog, error) {
		return entities.NewCatalog(quizzes, nil, nil)
	}
}

func TestCatalogService_FailedReloadKeepsSnapshot(t *testing.T) {
	first := sampleQuiz(1)
	dup := sampleQuiz(1)
	src := &sequenceSource{results: []func() (*entities.Catalog, error){
		catalogWith(first),
		catalogWith(first, dup),
	}}
	rec := &reloadRecorder{}

	svc, err := NewCatalogService(context.Background(), src, []string{"admin"}, rec, zap.NewNop())
	require.NoError(t, err)
	before := svc.Snapshot()

	_, err = svc.ReloadAs(context.Background(), "admin")
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	assert.Same(t, before, svc.Snapshot())
	require.Len(t, rec.errs, 2)
	assert.NoError(t, rec.errs[0])
	assert.Error(t, rec.errs[1])
}

func TestCatalogService_ReloadSwapsSnapshot(t *testing.T) {
	other := entities.NewQuiz("Other", 0, entities.NewQuestion("?", [5]string{"a", "b", "c", "d", "e"}, 0))
	src := &sequenceSource{results: []func() (*entities.Catalog, error){
		catalogWith(sampleQuiz(1)),
		catalogWith(sampleQuiz(1), other),
	}}

	svc, err := NewCatalogService(context.Background(), src, []string{"admin"}, nil, zap.NewNop())
	require.NoError(t, err)

	c, err := svc.ReloadAs(context.Background(), "admin")
	require.NoError(t, err)
	assert.Same(t, c, svc.Snapshot())
	assert.Equal(t, []string{"Sample", "Other"}, svc.Snapshot().QuizTitles())
	assert.Equal(t, "Reloaded 2 quizzes, 0 tests and 0 games.", ReloadSummary(c))
}

func TestCatalogService_UnauthorizedReload(t *testing.T) {
	src := &sequenceSource{results: []func() (*entities.Catalog, error){catalogWith(sampleQuiz(1))}}

	svc, err := NewCatalogService(context.Background(), src, []string{"admin"}, nil, zap.NewNop())
	require.NoError(t, err)

	_, err = svc.ReloadAs(context.Background(), "stranger")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, src.calls)
	assert.True(t, svc.IsAdmin("admin"))
	assert.False(t, svc.IsAdmin("stranger"))
}

func TestCatalogService_InitialLoadFailure(t *testing.T) {
	boom := errors.New("boom")
	src := &sequenceSource{results: []func() (*entities.Catalog, error){
		func() (*entities.Catalog, error) { return nil, boom },
	}}

	_, err := NewCatalogService(context.Background(), src, nil, nil, zap.NewNop())
	require.ErrorIs(t, err, boom)
}

func TestCatalogService_BadScheduleRejected(t *testing.T) {
	src := &sequenceSource{results: []func() (*entities.Catalog, error){catalogWith(sampleQuiz(1))}}
	svc, err := NewCatalogService(context.Background(), src, nil, nil, zap.NewNop())
	require.NoError(t, err)

	require.Error(t, svc.StartSchedule(context.Background(), "not a cron spec"))
	require.NoError(t, svc.StartSchedule(context.Background(), ""))
}
