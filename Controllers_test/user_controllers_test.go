package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/deniortyann66-art/vite-et-gourmand/controllers"
	"github.com/deniortyann66-art/vite-et-gourmand/middlewares"
	"github.com/deniortyann66-art/vite-et-gourmand/models"
	"github.com/deniortyann66-art/vite-et-gourmand/utils"
)

func setupTestDBForUsers() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:users_test?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		panic(err)
	}
	return db
}

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.POST("/api/auth/register", userCtrl.Register)
	router.POST("/api/auth/login", userCtrl.Login)
	authed := router.Group("/api")
	authed.Use(middlewares.AuthMiddleware())
	authed.GET("/profile", userCtrl.GetProfile)
	authed.PATCH("/profile", userCtrl.UpdateProfile)
	authed.DELETE("/profile", userCtrl.DeleteAccount)
	return router
}

func TestRegisterLoginAndProfile(t *testing.T) {
	db := setupTestDBForUsers()
	router := setupUserRouter(db)

	payload := map[string]interface{}{
		"first_name": "Julie",
		"last_name":  "Martin",
		"email":      "Julie.Martin@example.com",
		"password":   "motdepasse",
		"phone":      "0612345678",
	}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, _ := http.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// The email is stored lowercased and no plaintext password survives.
	var user models.User
	assert.NoError(t, db.Where("email = ?", "julie.martin@example.com").First(&user).Error)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, "motdepasse", user.Password)

	// Duplicate registration is rejected.
	req, _ = http.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login with the right password returns a token.
	loginBytes, _ := json.Marshal(map[string]string{
		"email":    "julie.martin@example.com",
		"password": "motdepasse",
	})
	req, _ = http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(loginBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var loginResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	data := loginResp["data"].(map[string]interface{})
	token, ok := data["token"].(string)
	assert.True(t, ok)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleCustomer, data["user_role"])

	// The token opens the profile endpoint.
	req, _ = http.NewRequest("GET", "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var profileResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &profileResp))
	profile := profileResp["data"].(map[string]interface{})
	assert.Equal(t, "julie.martin@example.com", profile["email"])
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDBForUsers()
	router := setupUserRouter(db)

	payloadBytes, _ := json.Marshal(map[string]interface{}{
		"first_name": "Paul",
		"last_name":  "Roux",
		"email":      "paul@example.com",
		"password":   "motdepasse",
	})
	req, _ := http.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	loginBytes, _ := json.Marshal(map[string]string{
		"email":    "paul@example.com",
		"password": "mauvais-mdp",
	})
	req, _ = http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(loginBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileRequiresToken(t *testing.T) {
	db := setupTestDBForUsers()
	router := setupUserRouter(db)

	req, _ := http.NewRequest("GET", "/api/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req, _ = http.NewRequest("GET", "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDBForUsers()
	router := setupUserRouter(db)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("motdepasse"), bcrypt.DefaultCost)
	user := models.User{FirstName: "Léa", LastName: "Bernard",
		Email: "lea.bernard@example.com", Password: string(hashed),
		Role: models.RoleCustomer, Phone: "0611111111"}
	assert.NoError(t, db.Create(&user).Error)
	token := tokenFor(&user)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", "/api/profile", map[string]interface{}{
		"phone":     "0622222222",
		"address":   "4 cours de l'Intendance, Bordeaux",
		"allergies": "arachide",
		"email":     "Lea.B@example.com",
		"password":  "nouveaumdp",
	}, token))
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.User
	assert.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "lea.b@example.com", reloaded.Email)
	assert.Equal(t, "0622222222", reloaded.Phone)
	assert.Equal(t, "4 cours de l'Intendance, Bordeaux", reloaded.Address)
	assert.Equal(t, "arachide", reloaded.Allergies)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("nouveaumdp")))
	// Untouched fields survive a partial edit.
	assert.Equal(t, "Léa", reloaded.FirstName)

	// A password shorter than the registration minimum is rejected.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", "/api/profile", map[string]interface{}{
		"password": "court",
	}, token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Taking another account's email answers 409.
	other := models.User{FirstName: "Marc", LastName: "Petit",
		Email: "marc.petit@example.com", Password: "hashed", Role: models.RoleCustomer}
	assert.NoError(t, db.Create(&other).Error)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", "/api/profile", map[string]interface{}{
		"email": "marc.petit@example.com",
	}, token))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteAccountAnonymizes(t *testing.T) {
	db := setupTestDBForUsers()
	router := setupUserRouter(db)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("motdepasse"), bcrypt.DefaultCost)
	user := models.User{FirstName: "Hugo", LastName: "Laurent",
		Email: "hugo.laurent@example.com", Password: string(hashed),
		Role: models.RoleCustomer, Phone: "0633333333",
		Address: "2 rue Fondaudège", Allergies: "gluten"}
	assert.NoError(t, db.Create(&user).Error)
	token := tokenFor(&user)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("DELETE", "/api/profile", nil, token))
	assert.Equal(t, http.StatusOK, w.Code)

	// The row stays so order history keeps a valid owner, stripped of
	// everything personal.
	var reloaded models.User
	assert.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.NotContains(t, reloaded.Email, "hugo.laurent")
	assert.Empty(t, reloaded.Phone)
	assert.Empty(t, reloaded.Address)
	assert.Empty(t, reloaded.Allergies)
	assert.Empty(t, reloaded.Password)

	// The old credentials no longer open a session.
	loginBytes, _ := json.Marshal(map[string]string{
		"email":    "hugo.laurent@example.com",
		"password": "motdepasse",
	})
	req, _ := http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(loginBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func tokenFor(user *models.User) string {
	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		panic(err)
	}
	return token
}
