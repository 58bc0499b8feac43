package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trailpaw/custody-api/internal/constants"
	"github.com/trailpaw/custody-api/internal/database"
	"github.com/trailpaw/custody-api/internal/dto"
	"github.com/trailpaw/custody-api/internal/middleware"
	"github.com/trailpaw/custody-api/internal/models"
	"github.com/trailpaw/custody-api/internal/repository"
	"github.com/trailpaw/custody-api/internal/roles"
	"github.com/trailpaw/custody-api/internal/services"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Pet{},
		&models.Checkpoint{},
		&models.CheckpointPhoto{},
		&models.CheckpointSetting{},
		&models.TrackingSequence{},
	)
	require.NoError(t, err)

	database.SetDB(db)
	gin.SetMode(gin.TestMode)

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	authService := services.NewAuthService(userRepo, orgRepo)
	handler := NewAuthHandler(authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
	}
}

func (env authTestEnv) router() *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/signup", env.handler.Signup)
	r.POST("/api/auth/login", env.handler.Login)
	r.POST("/api/auth/logout", env.handler.Logout)
	r.GET("/api/auth/me", middleware.RequireAuth(), middleware.RequireTenant(env.authService), env.handler.GetCurrentUser)
	return r
}

func jsonRequest(t *testing.T, method, url string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	req := jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":             "owner@sunset.example",
		"password":          "supersecret",
		"first_name":        "Dana",
		"last_name":         "Reyes",
		"organization_name": "Sunset Pet Cremation",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "owner@sunset.example", response.Email)
	require.Equal(t, roles.RoleOwner, response.Role)
	require.True(t, response.IsActive)

	var org models.Organization
	require.NoError(t, env.db.Where("slug = ?", "sunset-pet-cremation").First(&org).Error)
	require.Equal(t, models.PlanStarter, org.SubscriptionPlan)
	require.Equal(t, models.SubscriptionTrialing, org.SubscriptionStatus)
	require.Equal(t, "SUN", org.TrackingPrefix)
	require.NotNil(t, org.TrialEndsAt)

	var seq models.TrackingSequence
	require.NoError(t, env.db.Where("organization_id = ?", org.ID).First(&seq).Error)
	require.EqualValues(t, 1, seq.NextValue)

	var settingsCount int64
	require.NoError(t, env.db.Model(&models.CheckpointSetting{}).
		Where("organization_id = ?", org.ID).Count(&settingsCount).Error)
	require.EqualValues(t, 7, settingsCount)
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	payload := map[string]string{
		"email":             "owner@sunset.example",
		"password":          "supersecret",
		"first_name":        "Dana",
		"last_name":         "Reyes",
		"organization_name": "Sunset Pet Cremation",
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/signup", payload))
	require.Equal(t, http.StatusCreated, w.Code)

	payload["organization_name"] = "Another Crematory"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/signup", payload))
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Signup_ShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":             "owner@sunset.example",
		"password":          "short",
		"first_name":        "Dana",
		"last_name":         "Reyes",
		"organization_name": "Sunset Pet Cremation",
	}))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Signup_UnusableOrganizationName(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	for _, orgName := range []string{"   ", "---"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
			"email":             "owner@sunset.example",
			"password":          "supersecret",
			"first_name":        "Dana",
			"last_name":         "Reyes",
			"organization_name": orgName,
		}))
		require.Equal(t, http.StatusBadRequest, w.Code, "organization_name %q", orgName)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Equal(t, "VALIDATION_ERROR", response["code"])
	}
}

func TestAuthHandler_Signup_StorageFailure(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":             "owner@sunset.example",
		"password":          "supersecret",
		"first_name":        "Dana",
		"last_name":         "Reyes",
		"organization_name": "Sunset Pet Cremation",
	}))

	// A store fault is 503, and the driver's error text never leaks
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "STORAGE_UNAVAILABLE", response["code"])
	require.NotContains(t, response["message"], "database is closed")
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	_, err := env.authService.Signup(services.SignupInput{
		Email:            "owner@sunset.example",
		Password:         "supersecret",
		FirstName:        "Dana",
		LastName:         "Reyes",
		OrganizationName: "Sunset Pet Cremation",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "owner@sunset.example",
		"password": "supersecret",
	}))

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "owner@sunset.example", response.Email)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	_, err := env.authService.Signup(services.SignupInput{
		Email:            "owner@sunset.example",
		Password:         "supersecret",
		FirstName:        "Dana",
		LastName:         "Reyes",
		OrganizationName: "Sunset Pet Cremation",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "owner@sunset.example",
		"password": "wrongpassword",
	}))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_Deactivated(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	user, err := env.authService.Signup(services.SignupInput{
		Email:            "owner@sunset.example",
		Password:         "supersecret",
		FirstName:        "Dana",
		LastName:         "Reyes",
		OrganizationName: "Sunset Pet Cremation",
	})
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", user.ID).Update("is_active", false).Error)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "owner@sunset.example",
		"password": "supersecret",
	}))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	_, err := env.authService.Signup(services.SignupInput{
		Email:            "owner@sunset.example",
		Password:         "supersecret",
		FirstName:        "Dana",
		LastName:         "Reyes",
		OrganizationName: "Sunset Pet Cremation",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "owner@sunset.example",
		"password": "supersecret",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User         dto.UserDTO         `json:"user"`
		Organization dto.OrganizationDTO `json:"organization"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "owner@sunset.example", response.User.Email)
	require.Equal(t, "sunset-pet-cremation", response.Organization.Slug)
}

func TestAuthHandler_GetCurrentUser_DeactivatedMidSession(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	user, err := env.authService.Signup(services.SignupInput{
		Email:            "owner@sunset.example",
		Password:         "supersecret",
		FirstName:        "Dana",
		LastName:         "Reyes",
		OrganizationName: "Sunset Pet Cremation",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "owner@sunset.example",
		"password": "supersecret",
	}))
	require.Equal(t, http.StatusOK, w.Code)
	loginCookies := w.Result().Cookies()

	// Deactivation takes effect on the next request, not the next login
	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", user.ID).Update("is_active", false).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range loginCookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "ACCOUNT_DEACTIVATED", response["code"])
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := env.router()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
