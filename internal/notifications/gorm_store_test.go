package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/whatnewads/safeshift-sub006/internal/database/testutil"
	"github.com/whatnewads/safeshift-sub006/internal/models"
)

func newTestStore(t *testing.T) (*GormStore, *gorm.DB) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store, err := NewGormStore(db)
	require.NoError(t, err)

	return store, db
}

func seedRoleMembers(t *testing.T, db *gorm.DB, roleName string, members ...models.User) models.Role {
	t.Helper()

	role := models.Role{Name: roleName}
	require.NoError(t, db.Create(&role).Error)

	for i := range members {
		require.NoError(t, db.Create(&members[i]).Error)
		require.NoError(t, db.Model(&members[i]).Association("Roles").Append(&role))
	}

	return role
}

func TestCreateForRoleFansOutToActiveMembers(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	seedRoleMembers(t, db, "Clinician",
		models.User{Username: "alice", Email: "alice@example.com", IsActive: true},
		models.User{Username: "bob", Email: "bob@example.com", IsActive: true},
		models.User{Username: "carol", Email: "carol@example.com", IsActive: false},
	)

	expires := time.Now().UTC().Add(30 * 24 * time.Hour)
	created, err := store.CreateForRole(ctx, "Clinician", models.Notification{
		Type:      models.TypeSystemAlert,
		Priority:  models.PriorityNormal,
		Title:     "Policy Update",
		Message:   "New handoff policy takes effect Monday",
		ExpiresAt: &expires,
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, created)

	var rows []models.Notification
	require.NoError(t, db.Where("type = ?", models.TypeSystemAlert).Find(&rows).Error)
	require.Len(t, rows, 2)

	owners := map[string]bool{}
	for _, row := range rows {
		owners[row.UserID] = true
		require.Equal(t, "Policy Update", row.Title)
		require.NotEmpty(t, row.ID)
	}
	require.Len(t, owners, 2)
}

func TestCreateForRoleWithNoMembers(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	seedRoleMembers(t, db, "Pharmacist")

	created, err := store.CreateForRole(ctx, "Pharmacist", models.Notification{
		Type:  models.TypeSystemAlert,
		Title: "Inventory Audit",
	})
	require.NoError(t, err)
	require.Zero(t, created)

	created, err = store.CreateForRole(ctx, "NoSuchRole", models.Notification{
		Type:  models.TypeSystemAlert,
		Title: "Inventory Audit",
	})
	require.NoError(t, err)
	require.Zero(t, created)
}

func TestDeleteExpiredBoundaryIsStrict(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	atBoundary := now
	justPast := now.Add(-time.Second)

	require.NoError(t, store.CreateBatch(ctx, []*models.Notification{
		{UserID: "u", Type: "t", Title: "boundary", ExpiresAt: &atBoundary},
		{UserID: "u", Type: "t", Title: "past", ExpiresAt: &justPast},
		{UserID: "u", Type: "t", Title: "no expiry"},
	}))

	deleted, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	counts, err := store.Counts(ctx, "u")
	require.NoError(t, err)
	require.EqualValues(t, 2, counts.Total)
}

func TestHasAny(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	has, err := store.HasAny(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, has)

	_, err = store.Create(ctx, &models.Notification{UserID: "user-1", Type: "t", Title: "x"})
	require.NoError(t, err)

	has, err = store.HasAny(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, has)

	has, err = store.HasAny(ctx, "user-2")
	require.NoError(t, err)
	require.False(t, has)
}

func TestNormaliseIDs(t *testing.T) {
	require.Nil(t, normaliseIDs(nil))
	require.Nil(t, normaliseIDs([]string{"", "  "}))
	require.Equal(t, []string{"a", "b"}, normaliseIDs([]string{" a ", "b", "a", ""}))
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	store, err := NewGormStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	_, err = store.Create(ctx, &models.Notification{UserID: "u", Type: "t", Title: "x"})
	require.NoError(t, err)
}
