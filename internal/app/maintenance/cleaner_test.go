package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"github.com/whatnewads/safeshift-sub006/internal/database/testutil"
	"github.com/whatnewads/safeshift-sub006/internal/models"
	"github.com/whatnewads/safeshift-sub006/internal/notifications"
)

func newTestManager(t *testing.T) (*notifications.Manager, *notifications.GormStore) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store, err := notifications.NewGormStore(db)
	require.NoError(t, err)

	mgr, err := notifications.NewManager(store)
	require.NoError(t, err)

	return mgr, store
}

func TestCleanerRunOnceRemovesExpired(t *testing.T) {
	mgr, store := newTestManager(t)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	require.NoError(t, store.CreateBatch(ctx, []*models.Notification{
		{UserID: "u-1", Type: models.TypeSystemAlert, Title: "stale", ExpiresAt: &past},
		{UserID: "u-1", Type: models.TypeSystemAlert, Title: "fresh", ExpiresAt: &future},
	}))

	cleaner := NewCleaner(mgr)
	require.NoError(t, cleaner.RunOnce(ctx))

	counts, err := store.Counts(ctx, "u-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.Total)
}

func TestCleanerRunOnceWithNilManager(t *testing.T) {
	cleaner := NewCleaner(nil)
	require.NoError(t, cleaner.RunOnce(context.Background()))
}

func TestCleanerStartAndStop(t *testing.T) {
	mgr, _ := newTestManager(t)

	cleaner := NewCleaner(mgr,
		WithCron(cron.New(cron.WithLogger(cron.DiscardLogger))),
		WithCleanupSchedule("@every 1h"),
	)
	require.NoError(t, cleaner.Start())

	done := cleaner.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("expected scheduler to stop promptly")
	}
}

func TestCleanerStartRejectsBadSchedule(t *testing.T) {
	mgr, _ := newTestManager(t)

	cleaner := NewCleaner(mgr, WithCleanupSchedule("not-a-spec"))
	require.Error(t, cleaner.Start())
}
