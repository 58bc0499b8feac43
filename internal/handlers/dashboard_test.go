package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trailpaw/custody-api/internal/constants"
	"github.com/trailpaw/custody-api/internal/database"
	"github.com/trailpaw/custody-api/internal/lifecycle"
	"github.com/trailpaw/custody-api/internal/models"
	"github.com/trailpaw/custody-api/internal/repository"
	"github.com/trailpaw/custody-api/internal/roles"
	"github.com/trailpaw/custody-api/internal/services"
)

func TestDashboardHandler_GetStats(t *testing.T) {
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

	database.SetDB(db)
	gin.SetMode(gin.TestMode)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	org := &models.Organization{Name: "Sunset Pet Cremation", Slug: "sunset-pet-cremation", TrackingPrefix: "SUN"}
	require.NoError(t, db.Create(org).Error)
	user := &models.User{
		OrganizationID: org.ID,
		Email:          "staff@sunset.example",
		PasswordHash:   "hashedpassword",
		Role:           roles.RoleStaff,
		IsActive:       true,
	}
	require.NoError(t, db.Create(user).Error)

	statuses := []lifecycle.Status{
		lifecycle.StatusReceived,
		lifecycle.StatusReceived,
		lifecycle.StatusPrepared,
		lifecycle.StatusCremated,
		lifecycle.StatusReady,
		lifecycle.StatusCompleted,
	}
	for i, status := range statuses {
		pet := &models.Pet{
			OrganizationID: org.ID,
			TrackingCode:   fmt.Sprintf("SUN-%06d", i+1),
			Name:           fmt.Sprintf("Pet %d", i+1),
			PetType:        models.PetTypeDog,
			OwnerFirstName: "Jamie",
			OwnerLastName:  "Okafor",
			OwnerEmail:     "jamie@example.com",
			ServiceType:    models.ServicePrivate,
			Status:         status,
			CreatedBy:      user.ID,
		}
		require.NoError(t, db.Create(pet).Error)
	}

	// A second tenant's cases never show up in the counts
	otherOrg := &models.Organization{Name: "Harbor Aftercare", Slug: "harbor-aftercare", TrackingPrefix: "HAR"}
	require.NoError(t, db.Create(otherOrg).Error)
	require.NoError(t, db.Create(&models.Pet{
		OrganizationID: otherOrg.ID,
		TrackingCode:   "HAR-000001",
		Name:           "Other",
		PetType:        models.PetTypeCat,
		OwnerFirstName: "Robin",
		OwnerLastName:  "Tanaka",
		OwnerEmail:     "robin@example.com",
		ServiceType:    models.ServiceCommunal,
		Status:         lifecycle.StatusReceived,
		CreatedBy:      user.ID,
	}).Error)

	petRepo := repository.NewPetRepository(db)
	handler := NewDashboardHandler(services.NewDashboardService(petRepo))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	c.Set(constants.ContextKeyUser, user)
	c.Set(constants.ContextKeyOrganization, org)

	handler.GetStats(c)

	require.Equal(t, http.StatusOK, w.Code)

	var stats services.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.EqualValues(t, 2, stats.Awaiting)
	require.EqualValues(t, 2, stats.InProgress)
	require.EqualValues(t, 1, stats.Ready)
	require.EqualValues(t, 6, stats.TodayIntake)
}
