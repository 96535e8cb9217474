package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/internal/placement"
)

func TestRosterServiceLoadsLazilyOnce(t *testing.T) {
	loader := &fakeRosterLoader{students: testRoster()}
	svc := NewRosterService(loader, nil, zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Students(ctx)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, loader.calls)

	student, ok, err := svc.Resolve(ctx, "jaiby joseph")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "24MCAB060", student.RegNo)

	class, err := svc.StudentClass(ctx, "Nobody Here")
	require.NoError(t, err)
	assert.Empty(t, class)

	class, err = svc.StudentClass(ctx, "kishan")
	require.NoError(t, err)
	assert.Equal(t, placement.ClassMScAIML, class)
}

func TestRosterServiceReloadAndInvalidate(t *testing.T) {
	loader := &fakeRosterLoader{students: testRoster()}
	svc := NewRosterService(loader, nil, zap.NewNop())
	ctx := context.Background()

	students, err := svc.Students(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 5)

	loader.students = loader.students[:2]
	require.NoError(t, svc.Reload(ctx))
	students, err = svc.Students(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Equal(t, 2, loader.calls)

	svc.Invalidate()
	_, ok, err := svc.Resolve(ctx, "ANSON THOMAS")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, loader.calls)
}

func TestRosterServiceLoadError(t *testing.T) {
	loader := &fakeRosterLoader{err: assert.AnError}
	svc := NewRosterService(loader, nil, zap.NewNop())

	_, err := svc.Matcher(context.Background())
	assert.ErrorIs(t, err, assert.AnError)

	loader.err = nil
	loader.students = testRoster()
	m, err := svc.Matcher(context.Background())
	require.NoError(t, err)
	_, ok := m.Resolve("R02")
	assert.True(t, ok)
}
