package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/cabinetcut/pkg/cabinet"
	"github.com/chazu/cabinetcut/pkg/cutlist"
	"github.com/chazu/cabinetcut/pkg/db"
	"github.com/chazu/cabinetcut/pkg/db/models"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	client, err := db.Open(context.Background(), dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRepository(client)
}

func TestRepositorySaveAndList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	s := NewStore(WithClock(fixedClock()))

	base := cabinet.New(cabinet.TypeBase, 120)
	base.IncludeShelf = true
	wall := cabinet.New(cabinet.TypeWall, 80)
	wall.DoorOrientation = cabinet.OrientationHorizontal

	for _, cfg := range []cabinet.Config{base, wall} {
		u := s.Append(cfg, mustCompute(t, cfg))
		require.NoError(t, repo.Save(ctx, u))
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	want := s.List()
	require.Len(t, got, len(want))

	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Seq, got[i].Seq)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
		assert.Equal(t, want[i].Config, got[i].Config)
		assert.True(t, want[i].CutList.Equal(got[i].CutList))
		assert.Equal(t, want[i].Rows, got[i].Rows)
	}

	restored := Restore(got)
	next := restored.Append(base, mustCompute(t, base))
	assert.Equal(t, 3, next.Seq)
}

func TestRepositoryRejectsDuplicateUnit(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cfg := cabinet.New(cabinet.TypeBase, 100)
	u := NewStore().Append(cfg, mustCompute(t, cfg))

	require.NoError(t, repo.Save(ctx, u))
	assert.ErrorIs(t, repo.Save(ctx, u), ErrDuplicateUnit)

	sameSeq := u
	sameSeq.ID = uuid.New()
	assert.ErrorIs(t, repo.Save(ctx, sameSeq), ErrDuplicateUnit)

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, u.ID, got[0].ID)
}

func TestRepositoryRowsSurviveRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cfg := cabinet.New(cabinet.TypeWall, 80)
	cfg.DoorOrientation = cabinet.OrientationHorizontal
	cl := mustCompute(t, cfg)
	u := NewStore().Append(cfg, cl)
	require.NoError(t, repo.Save(ctx, u))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	var qeyd string
	for _, r := range got[0].Rows {
		if r.Role == cutlist.RoleDoorQeyd {
			qeyd = r.Text
		}
	}
	assert.Equal(t, "7x55.8 ( x 1 )", qeyd)
}

func TestRepositoryListRejectsIncompleteCutlist(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	client, err := db.Open(context.Background(), dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	row := models.HistoryUnit{
		ID:          uuid.New(),
		Seq:         1,
		CabinetType: "base",
		Config:      []byte(`{"type":"base","length":100}`),
		CutList:     []byte(`[{"role":"floor","spec":{"width":100,"height":56,"quantity":1}}]`),
		Rows:        []byte(`[]`),
		CreatedAt:   fixedClock()(),
	}
	require.NoError(t, client.DB().Create(&row).Error)

	_, err = NewRepository(client).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lacks")
}
