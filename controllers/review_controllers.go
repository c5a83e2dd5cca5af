package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/deniortyann66-art/vite-et-gourmand/services"
	"github.com/deniortyann66-art/vite-et-gourmand/utils"
)

type ReviewController struct {
	DB      *gorm.DB
	Reviews *services.ReviewService
}

func NewReviewController(db *gorm.DB, reviews *services.ReviewService) *ReviewController {
	return &ReviewController{DB: db, Reviews: reviews}
}

// Validated -> public listing of published reviews
func (rc *ReviewController) Validated(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "9"))

	reviews, err := rc.Reviews.ListValidated(limit)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Validated reviews", reviews)
}

// CreateForOrder -> customer review on their completed order
func (rc *ReviewController) CreateForOrder(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	type reqBody struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	review, err := rc.Reviews.Submit(actor, orderID, body.Rating, body.Comment)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Review #%d submitted for order #%d", review.ID, orderID)

	utils.RespondJSON(c, http.StatusCreated, "Review submitted", review)
}

// Pending -> reviews awaiting moderation (staff)
func (rc *ReviewController) Pending(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	reviews, err := rc.Reviews.ListPending(actor)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Pending reviews", reviews)
}

// ValidateReview -> publish a review (staff)
func (rc *ReviewController) ValidateReview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}
	reviewID, ok := paramUint(c, "review_id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid review id"))
		return
	}

	review, err := rc.Reviews.Validate(actor, reviewID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Review validated", review)
}

// RefuseReview -> hard delete, the order becomes reviewable again (staff)
func (rc *ReviewController) RefuseReview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}
	reviewID, ok := paramUint(c, "review_id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid review id"))
		return
	}

	if err := rc.Reviews.Reject(actor, reviewID); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Review refused", nil)
}
