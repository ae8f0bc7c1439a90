package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/pickup-line-api/internal/testutil"
	"github.com/yukikurage/pickup-line-api/internal/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (HistoryRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewHistoryRepository(db), mock
}

func TestHistoryRepository_Delete_NoRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "pickup_history" WHERE id = $1 AND user_id = $2`)).
		WithArgs(id.String(), userID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(id, userID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_Delete_RemovesOwnedRow(t *testing.T) {
	repo, mock := newMockRepository(t)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "pickup_history" WHERE id = $1 AND user_id = $2`)).
		WithArgs(id.String(), userID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(id, userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_List_PropagatesCountError(t *testing.T) {
	repo, mock := newMockRepository(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "pickup_history" WHERE user_id = $1`)).
		WithArgs(userID.String()).
		WillReturnError(errors.New("connection reset"))

	_, _, err := repo.List(HistoryFilter{UserID: userID})
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_List_FiltersAndOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewHistoryRepository(db)

	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")

	base := time.Now().Add(-time.Hour)
	oldUsed := testutil.CreateEntry(t, db, owner.ID, testutil.WithUsed(true), testutil.WithCreatedAt(base))
	testutil.CreateEntry(t, db, owner.ID, testutil.WithUsed(false), testutil.WithCreatedAt(base.Add(time.Minute)))
	newUsed := testutil.CreateEntry(t, db, owner.ID, testutil.WithUsed(true), testutil.WithSuccess(true),
		testutil.WithRating(4), testutil.WithStyle("funny"), testutil.WithCreatedAt(base.Add(2*time.Minute)))
	testutil.CreateEntry(t, db, other.ID, testutil.WithUsed(true))

	entries, total, err := repo.List(HistoryFilter{UserID: owner.ID, UsedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)
	assert.Equal(t, newUsed.ID, entries[0].ID)
	assert.Equal(t, oldUsed.ID, entries[1].ID)

	style := "funny"
	minRating := 3
	entries, total, err = repo.List(HistoryFilter{
		UserID:      owner.ID,
		Style:       &style,
		MinRating:   &minRating,
		SuccessOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, newUsed.ID, entries[0].ID)
}

func TestHistoryRepository_List_Paginates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewHistoryRepository(db)
	owner := testutil.CreateUser(t, db, "owner")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		testutil.CreateEntry(t, db, owner.ID, testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Minute)))
	}

	entries, total, err := repo.List(HistoryFilter{
		UserID:     owner.ID,
		Pagination: utils.NewPaginationParams(3, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, entries, 1)
}

func TestHistoryRepository_FindByID_ScopedToOwner(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewHistoryRepository(db)

	owner := testutil.CreateUser(t, db, "owner")
	intruder := testutil.CreateUser(t, db, "intruder")
	entry := testutil.CreateEntry(t, db, owner.ID)

	found, err := repo.FindByID(entry.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.PickupLine, found.PickupLine)

	_, err = repo.FindByID(entry.ID, intruder.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(entry.ID, intruder.ID), gorm.ErrRecordNotFound)
	require.NoError(t, repo.Delete(entry.ID, owner.ID))
}

func TestHistoryRepository_CountByStyle_GroupsInDatabase(t *testing.T) {
	repo, mock := newMockRepository(t)
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"style", "total", "used_count", "successful", "used_successful"}).
		AddRow("playful", 4, 2, 2, 1).
		AddRow("funny", 1, 0, 0, 0)
	mock.ExpectQuery(`SELECT style, COUNT\(\*\) AS total, .+ FROM "pickup_history" WHERE user_id = \$1 GROUP BY style`).
		WithArgs(userID.String()).
		WillReturnRows(rows)

	counts, err := repo.CountByStyle(userID)
	require.NoError(t, err)
	assert.Equal(t, []StyleCount{
		{Style: "playful", Total: 4, UsedCount: 2, Successful: 2, UsedSuccessful: 1},
		{Style: "funny", Total: 1},
	}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_Aggregates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewHistoryRepository(db)

	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")

	now := time.Now()
	testutil.CreateEntry(t, db, owner.ID, testutil.WithStyle("playful"), testutil.WithUsed(true), testutil.WithSuccess(true), testutil.WithRating(5))
	testutil.CreateEntry(t, db, owner.ID, testutil.WithStyle("playful"), testutil.WithUsed(true), testutil.WithSuccess(false), testutil.WithRating(2))
	// successful but never marked used
	testutil.CreateEntry(t, db, owner.ID, testutil.WithStyle("funny"), testutil.WithSuccess(true), testutil.WithDirtiness(8))
	testutil.CreateEntry(t, db, owner.ID, testutil.WithStyle("funny"), testutil.WithDirtiness(8),
		testutil.WithCreatedAt(now.Add(-10*24*time.Hour)))
	testutil.CreateEntry(t, db, other.ID, testutil.WithStyle("cheesy"), testutil.WithRating(1))

	styles, err := repo.CountByStyle(owner.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []StyleCount{
		{Style: "playful", Total: 2, UsedCount: 2, Successful: 1, UsedSuccessful: 1},
		{Style: "funny", Total: 2, UsedCount: 0, Successful: 1, UsedSuccessful: 0},
	}, styles)

	dirtiness, err := repo.CountByDirtiness(owner.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []DirtinessCount{
		{DirtinessLevel: 3, Total: 2},
		{DirtinessLevel: 8, Total: 2},
	}, dirtiness)

	ratings, err := repo.RatingTotals(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, RatingTotals{Sum: 7, Count: 2}, ratings)

	recent, err := repo.CreatedSince(owner.ID, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	empty, err := repo.RatingTotals(uuid.New())
	require.NoError(t, err)
	assert.Zero(t, empty)
}
