package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/datatide/relstore/internal/domain/entity"
	errs "github.com/datatide/relstore/internal/domain/error"
	"github.com/datatide/relstore/internal/domain/port/persistence"
	"github.com/datatide/relstore/internal/infrastructure/adapter/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeOwner stands in for the owning unit of work: it serves a plain session
// and records staged changes without flushing them.
type fakeOwner struct {
	db     *gorm.DB
	closed bool
	staged []Change
}

func (o *fakeOwner) EnsureContext() error {
	if o.closed {
		return errs.ErrContextClosed
	}
	return nil
}

func (o *fakeOwner) Conn(ctx context.Context) *gorm.DB {
	return o.db.WithContext(ctx)
}

func (o *fakeOwner) Stage(change Change) error {
	o.staged = append(o.staged, change)
	return nil
}

var repoTestDBCounter int

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	repoTestDBCounter++
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", repoTestDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Customer{}, &entity.Order{}))
	return db
}

func newTestRepository(t *testing.T) (*GormRepository[uint64, entity.Customer], *fakeOwner) {
	t.Helper()
	owner := &fakeOwner{db: newRepoTestDB(t)}
	return NewGormRepository[uint64, entity.Customer](owner, logger.NewNoopLogger()), owner
}

func seedCustomer(t *testing.T, db *gorm.DB, name, email string, active bool) *entity.Customer {
	t.Helper()
	c := &entity.Customer{Name: name, Email: email, Active: active}
	require.NoError(t, db.Create(c).Error)
	return c
}

func TestGormRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	repo, owner := newTestRepository(t)

	t.Run("missing id yields nil without error", func(t *testing.T) {
		found, err := repo.FindByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("existing id resolves the entity", func(t *testing.T) {
		seeded := seedCustomer(t, owner.db, "Ada", "ada@example.com", true)
		found, err := repo.FindByID(ctx, seeded.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, seeded.Email, found.Email)
	})
}

func TestGormRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo, owner := newTestRepository(t)

	seedCustomer(t, owner.db, "Active", "active@example.com", true)
	seedCustomer(t, owner.db, "Dormant", "dormant@example.com", false)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.List(ctx, persistence.NewFilter("active = ?", true))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Active", active[0].Name)
}

func TestGormRepository_ListIncludingPreloadsRelations(t *testing.T) {
	ctx := context.Background()
	repo, owner := newTestRepository(t)

	seeded := seedCustomer(t, owner.db, "Ada", "ada@example.com", true)
	order := &entity.Order{CustomerID: seeded.ID, Reference: "ord-100", TotalCents: 4200}
	require.NoError(t, owner.db.Create(order).Error)

	plain, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, plain, 1)
	assert.Empty(t, plain[0].Orders)

	loaded, err := repo.ListIncluding(ctx, nil, "Orders")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Len(t, loaded[0].Orders, 1)
	assert.Equal(t, "ord-100", loaded[0].Orders[0].Reference)
}

func TestGormRepository_AddStagesWithoutWriting(t *testing.T) {
	ctx := context.Background()
	repo, owner := newTestRepository(t)

	require.NoError(t, repo.Add(ctx, entity.NewCustomer("Ada", "ada@example.com")))

	require.Len(t, owner.staged, 1)
	assert.Equal(t, ChangeInsert, owner.staged[0].Kind)

	var count int64
	require.NoError(t, owner.db.Model(&entity.Customer{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGormRepository_UpdateStagesFullEntity(t *testing.T) {
	ctx := context.Background()
	repo, owner := newTestRepository(t)

	seeded := seedCustomer(t, owner.db, "Ada", "ada@example.com", true)
	seeded.Name = "Ada King"
	require.NoError(t, repo.Update(ctx, seeded))

	require.Len(t, owner.staged, 1)
	assert.Equal(t, ChangeUpdate, owner.staged[0].Kind)
	assert.Same(t, seeded, owner.staged[0].Entity)
}

func TestGormRepository_NilEntityRejected(t *testing.T) {
	ctx := context.Background()
	repo, owner := newTestRepository(t)

	assert.True(t, errs.IsPersistenceError(repo.Add(ctx, nil)))
	assert.True(t, errs.IsPersistenceError(repo.Update(ctx, nil)))
	assert.Empty(t, owner.staged)
}

func TestGormRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, owner := newTestRepository(t)

	t.Run("missing id", func(t *testing.T) {
		err := repo.Delete(ctx, 12345)
		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.Empty(t, owner.staged)
	})

	t.Run("existing id stages the loaded entity", func(t *testing.T) {
		seeded := seedCustomer(t, owner.db, "Ada", "ada@example.com", true)
		require.NoError(t, repo.Delete(ctx, seeded.ID))

		require.Len(t, owner.staged, 1)
		assert.Equal(t, ChangeDelete, owner.staged[0].Kind)
		staged, ok := owner.staged[0].Entity.(*entity.Customer)
		require.True(t, ok)
		assert.Equal(t, seeded.ID, staged.ID)
	})
}

func TestGormRepository_ClosedOwnerBlocksEverything(t *testing.T) {
	ctx := context.Background()
	repo, owner := newTestRepository(t)
	owner.closed = true

	_, err := repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, errs.ErrContextClosed)
	_, err = repo.GetAll(ctx)
	assert.ErrorIs(t, err, errs.ErrContextClosed)
	_, err = repo.List(ctx, nil)
	assert.ErrorIs(t, err, errs.ErrContextClosed)
	_, err = repo.ListIncluding(ctx, nil, "Orders")
	assert.ErrorIs(t, err, errs.ErrContextClosed)
	assert.ErrorIs(t, repo.Add(ctx, entity.NewCustomer("a", "a@example.com")), errs.ErrContextClosed)
	assert.ErrorIs(t, repo.Update(ctx, entity.NewCustomer("a", "a@example.com")), errs.ErrContextClosed)
	assert.ErrorIs(t, repo.Delete(ctx, 1), errs.ErrContextClosed)
	assert.Empty(t, owner.staged)
}

func TestChangeKind_String(t *testing.T) {
	assert.Equal(t, "insert", ChangeInsert.String())
	assert.Equal(t, "update", ChangeUpdate.String())
	assert.Equal(t, "delete", ChangeDelete.String())
	assert.Equal(t, "unknown", ChangeKind(42).String())
}
