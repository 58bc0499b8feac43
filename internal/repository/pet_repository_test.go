package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trailpaw/custody-api/internal/lifecycle"
	"github.com/trailpaw/custody-api/internal/models"
)

func newSqliteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Pet{},
		&models.Checkpoint{},
		&models.CheckpointPhoto{},
		&models.CheckpointSetting{},
		&models.TrackingSequence{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func newMockRepo(t *testing.T) (PetRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewPetRepository(db), mock
}

// A losing concurrent writer matches no row in the status-guarded update. The
// transaction must roll back without touching the checkpoints table.
func TestApplyTransition_ConflictRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	pet := &models.Pet{ID: 7, OrganizationID: 3, Status: lifecycle.StatusReceived}
	checkpoint := &models.Checkpoint{CheckpointType: lifecycle.StatusPrepared}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ApplyTransition(pet, lifecycle.StatusReceived, lifecycle.StatusPrepared,
		time.Now(), checkpoint, nil)

	require.ErrorIs(t, err, ErrTransitionConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransition_CommitsStatusAndCheckpoint(t *testing.T) {
	repo, mock := newMockRepo(t)

	pet := &models.Pet{ID: 7, OrganizationID: 3, Status: lifecycle.StatusReceived}
	checkpoint := &models.Checkpoint{CheckpointType: lifecycle.StatusPrepared, CompletedBy: 12}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "checkpoints"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.ApplyTransition(pet, lifecycle.StatusReceived, lifecycle.StatusPrepared,
		time.Now(), checkpoint, nil)

	require.NoError(t, err)
	require.EqualValues(t, 7, checkpoint.PetID)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The sequence row is seeded at provisioning. Intake must fail, not
// self-repair, when it is missing.
func TestCreateWithIntake_MissingSequenceFails(t *testing.T) {
	db := newSqliteDB(t)

	org := &models.Organization{Name: "Sunset Pets", Slug: "sunset-pets", TrackingPrefix: "SUN"}
	require.NoError(t, db.Create(org).Error)

	repo := NewPetRepository(db)
	pet := &models.Pet{
		OrganizationID: org.ID,
		Name:           "Biscuit",
		PetType:        models.PetTypeDog,
		OwnerFirstName: "Jamie",
		OwnerLastName:  "Okafor",
		OwnerEmail:     "jamie@example.com",
		ServiceType:    models.ServicePrivate,
		Status:         lifecycle.StatusReceived,
		CreatedBy:      1,
	}

	err := repo.CreateWithIntake(org, pet, &models.Checkpoint{
		CheckpointType: lifecycle.StatusReceived,
		CompletedAt:    time.Now(),
		CompletedBy:    1,
	}, nil)

	require.Error(t, err)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Pet{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestAllocateTrackingPrefix_SuffixesCollisions(t *testing.T) {
	db := newSqliteDB(t)

	require.NoError(t, db.Create(&models.Organization{
		Name: "Sunset Pets", Slug: "sunset-pets", TrackingPrefix: "SUN",
	}).Error)
	require.NoError(t, db.Create(&models.Organization{
		Name: "Sunrise Care", Slug: "sunrise-care", TrackingPrefix: "SUN2",
	}).Error)

	prefix, err := allocateTrackingPrefix(db, "sundown-aftercare")
	require.NoError(t, err)
	require.Equal(t, "SUN3", prefix)

	prefix, err = allocateTrackingPrefix(db, "harbor-aftercare")
	require.NoError(t, err)
	require.Equal(t, "HAR", prefix)
}

func TestTrackingPrefix(t *testing.T) {
	cases := []struct {
		slug string
		want string
	}{
		{"sunset-pet-cremation", "SUN"},
		{"harbor-aftercare", "HAR"},
		{"a1-b", "A1B"},
		{"st", "ST"},
		{"---", "PET"},
		{"", "PET"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, trackingPrefix(tc.slug), "trackingPrefix(%q)", tc.slug)
	}
}
