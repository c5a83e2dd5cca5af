package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/deniortyann66-art/vite-et-gourmand/controllers"
	"github.com/deniortyann66-art/vite-et-gourmand/middlewares"
	"github.com/deniortyann66-art/vite-et-gourmand/models"
	"github.com/deniortyann66-art/vite-et-gourmand/services"
)

func setupTestDBForReviews() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:reviews_test?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.User{}, &models.Menu{}, &models.Order{},
		&models.OrderStatusHistory{}, &models.Review{})
	if err != nil {
		panic(err)
	}
	return db
}

func setupReviewRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	reviews := services.NewReviewService(db)
	reviewCtrl := controllers.NewReviewController(db, reviews)

	router.GET("/api/reviews/validated", reviewCtrl.Validated)

	authed := router.Group("/api")
	authed.Use(middlewares.AuthMiddleware())
	authed.POST("/orders/:order_id/review", reviewCtrl.CreateForOrder)

	staff := router.Group("/api")
	staff.Use(middlewares.AuthMiddleware(), middlewares.RequireStaff())
	{
		staff.GET("/reviews/pending", reviewCtrl.Pending)
		staff.POST("/reviews/:review_id/validate", reviewCtrl.ValidateReview)
		staff.DELETE("/reviews/:review_id", reviewCtrl.RefuseReview)
	}

	return router
}

// completeOrderFor drives a fresh order through the whole lifecycle.
func completeOrderFor(db *gorm.DB, customer, employee models.User, menuID uint) *models.Order {
	orders := services.NewOrderService(db, nil)
	order, err := orders.Create(models.ActorForUser(&customer), services.CreateOrderInput{
		MenuID:         menuID,
		PeopleCount:    10,
		ServiceAddress: "12 rue Sainte-Catherine",
		ServiceCity:    "Bordeaux",
		ServiceDate:    mustDate("2026-10-03"),
		ServiceTime:    "19:30",
		Km:             decimal.Zero,
	})
	if err != nil {
		panic(err)
	}
	staff := models.ActorForUser(&employee)
	for _, status := range []string{
		models.OrderStatusAccepted,
		models.OrderStatusInPreparation,
		models.OrderStatusInDelivery,
		models.OrderStatusDelivered,
		models.OrderStatusAwaitingReturn,
		models.OrderStatusCompleted,
	} {
		if _, err := orders.SetStatus(staff, order.ID, status); err != nil {
			panic(err)
		}
	}
	return order
}

func TestReviewModerationFlow(t *testing.T) {
	db := setupTestDBForReviews()
	router := setupReviewRouter(db)
	customer, employee, menu := seedOrderFixtures(db)

	order := completeOrderFor(db, customer, employee, menu.ID)

	// Submit the review.
	reviewURL := fmt.Sprintf("/api/orders/%d/review", order.ID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", reviewURL, map[string]interface{}{
		"rating":  5,
		"comment": "Excellent repas, équipe au top",
	}, tokenFor(&customer)))
	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	reviewID := int(createResp["data"].(map[string]interface{})["id"].(float64))

	// Not public yet.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/reviews/validated", nil, ""))
	assert.Equal(t, http.StatusOK, w.Code)
	var listResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Nil(t, listResp["data"])

	// Moderation queue is staff-only.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/reviews/pending", nil, tokenFor(&customer)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/reviews/pending", nil, tokenFor(&employee)))
	assert.Equal(t, http.StatusOK, w.Code)

	// Validate, then the review is public.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", fmt.Sprintf("/api/reviews/%d/validate", reviewID), nil, tokenFor(&employee)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/reviews/validated", nil, ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	published := listResp["data"].([]interface{})
	assert.Len(t, published, 1)
}

func TestReviewRefusalReopensOrder(t *testing.T) {
	db := setupTestDBForReviews()
	router := setupReviewRouter(db)
	customer, employee, menu := seedOrderFixtures(db)

	order := completeOrderFor(db, customer, employee, menu.ID)
	reviewURL := fmt.Sprintf("/api/orders/%d/review", order.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", reviewURL, map[string]interface{}{
		"rating":  2,
		"comment": "Livraison en retard",
	}, tokenFor(&customer)))
	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	reviewID := int(createResp["data"].(map[string]interface{})["id"].(float64))

	// Duplicate submission conflicts while the review exists.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", reviewURL, map[string]interface{}{
		"rating":  3,
		"comment": "Deuxième avis",
	}, tokenFor(&customer)))
	assert.Equal(t, http.StatusConflict, w.Code)

	// Refusal deletes it; the customer may then submit again.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("DELETE", fmt.Sprintf("/api/reviews/%d", reviewID), nil, tokenFor(&employee)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", reviewURL, map[string]interface{}{
		"rating":  3,
		"comment": "Deuxième essai",
	}, tokenFor(&customer)))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReviewRejectedWhileOrderOpen(t *testing.T) {
	db := setupTestDBForReviews()
	router := setupReviewRouter(db)
	customer, _, menu := seedOrderFixtures(db)

	orders := services.NewOrderService(db, nil)
	order, err := orders.Create(models.ActorForUser(&customer), services.CreateOrderInput{
		MenuID:         menu.ID,
		PeopleCount:    10,
		ServiceAddress: "12 rue Sainte-Catherine",
		ServiceCity:    "Bordeaux",
		ServiceDate:    mustDate("2026-10-03"),
		ServiceTime:    "19:30",
		Km:             decimal.Zero,
	})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", fmt.Sprintf("/api/orders/%d/review", order.ID), map[string]interface{}{
		"rating":  5,
		"comment": "Trop tôt",
	}, tokenFor(&customer)))
	assert.Equal(t, http.StatusConflict, w.Code)
}
