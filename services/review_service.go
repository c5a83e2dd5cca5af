package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/deniortyann66-art/vite-et-gourmand/models"
)

const (
	defaultValidatedReviewLimit = 9
	maxValidatedReviewLimit     = 50
)

// ReviewService gates review submission on the owning order's state and
// handles staff moderation. A review may exist only for a completed order
// and each order carries at most one.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Submit creates the review for a completed order owned by the actor.
func (s *ReviewService) Submit(actor models.Actor, orderID uint, rating int, comment string) (*models.Review, error) {
	comment = strings.TrimSpace(comment)
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", models.ErrInvalidInput)
	}
	if comment == "" {
		return nil, fmt.Errorf("comment is required: %w", models.ErrInvalidInput)
	}

	var review models.Review

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %d: %w", orderID, models.ErrNotFound)
			}
			return err
		}
		if order.UserID != actor.ID {
			return fmt.Errorf("order %d: %w", orderID, models.ErrForbidden)
		}
		if order.Status != models.OrderStatusCompleted {
			return fmt.Errorf("order %d is not completed: %w", orderID, models.ErrConflict)
		}

		review = models.Review{
			OrderID: orderID,
			UserID:  actor.ID,
			Rating:  rating,
			Comment: comment,
		}
		// The unique index on order_id decides between two concurrent
		// submits; the loser comes back as a duplicate key.
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("order %d already reviewed: %w", orderID, models.ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// Validate marks a review as publishable. Staff only.
func (s *ReviewService) Validate(actor models.Actor, reviewID uint) (*models.Review, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("review validation: %w", models.ErrForbidden)
	}

	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review %d: %w", reviewID, models.ErrNotFound)
		}
		return nil, err
	}

	now := time.Now()
	review.IsValidated = true
	review.ValidatedAt = &now
	if err := s.db.Save(&review).Error; err != nil {
		return nil, err
	}

	return &review, nil
}

// Reject deletes a review outright, making the order reviewable again.
// Staff only.
func (s *ReviewService) Reject(actor models.Actor, reviewID uint) error {
	if !actor.IsStaff() {
		return fmt.Errorf("review rejection: %w", models.ErrForbidden)
	}

	res := s.db.Delete(&models.Review{}, reviewID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review %d: %w", reviewID, models.ErrNotFound)
	}
	return nil
}

// ListValidated returns published reviews, newest first. The limit falls
// back to the default when absent or out of bounds.
func (s *ReviewService) ListValidated(limit int) ([]models.Review, error) {
	if limit <= 0 || limit > maxValidatedReviewLimit {
		limit = defaultValidatedReviewLimit
	}

	var reviews []models.Review
	err := s.db.Preload("User").
		Where("is_validated = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

// ListPending returns reviews awaiting moderation. Staff only.
func (s *ReviewService) ListPending(actor models.Actor) ([]models.Review, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("pending reviews: %w", models.ErrForbidden)
	}

	var reviews []models.Review
	err := s.db.Preload("User").
		Where("is_validated = ?", false).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
