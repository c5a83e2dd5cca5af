package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/deniortyann66-art/vite-et-gourmand/models"
	"github.com/deniortyann66-art/vite-et-gourmand/utils"
)

// AdminController manages employee accounts and the admin dashboard.
// Routes are gated by RequireAdmin.
type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// CreateEmployee -> admin provisions an employee account
func (ac *AdminController) CreateEmployee(c *gin.Context) {
	type request struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		Phone     string `json:"phone"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	employee := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hashed),
		Role:      models.RoleEmployee,
		Phone:     req.Phone,
	}

	if err := ac.DB.Create(&employee).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("email already registered"))
		return
	}

	utils.InfoLogger.Printf("Employee account created: %s", employee.Email)

	utils.RespondJSON(c, http.StatusCreated, "Employee created", gin.H{
		"user_id": employee.ID,
	})
}

// ListEmployees -> every employee account
func (ac *AdminController) ListEmployees(c *gin.Context) {
	var employees []models.User
	if err := ac.DB.Where("role = ?", models.RoleEmployee).Order("id").Find(&employees).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Employees", employees)
}

// DeleteEmployee -> removes an employee account (never admins or customers)
func (ac *AdminController) DeleteEmployee(c *gin.Context) {
	userID, ok := paramUint(c, "user_id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid user id"))
		return
	}

	res := ac.DB.Where("id = ? AND role = ?", userID, models.RoleEmployee).Delete(&models.User{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("employee not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Employee deleted", nil)
}

// GetDashboardStats -> order counts per status, revenue, review backlog
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var stats struct {
		TotalOrders    int64            `json:"total_orders"`
		TodayOrders    int64            `json:"today_orders"`
		Revenue        decimal.Decimal  `json:"revenue"`
		PendingReviews int64            `json:"pending_reviews"`
		OrderStats     map[string]int64 `json:"order_stats"`
	}
	stats.OrderStats = make(map[string]int64)

	if err := ac.DB.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		utils.ErrorLogger.Printf("Dashboard stats: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := ac.DB.Model(&models.Order{}).Where("DATE(created_at) = ?", today).Count(&stats.TodayOrders).Error; err != nil {
		utils.ErrorLogger.Printf("Dashboard stats: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for _, status := range models.OrderStatuses() {
		var count int64
		if err := ac.DB.Model(&models.Order{}).Where("status = ?", status).Count(&count).Error; err != nil {
			utils.ErrorLogger.Printf("Dashboard stats: %v", err)
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		stats.OrderStats[status] = count
	}

	// Revenue counts completed orders only.
	if err := ac.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted).
		Select("COALESCE(SUM(total), 0)").
		Row().Scan(&stats.Revenue); err != nil {
		utils.ErrorLogger.Printf("Dashboard stats: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := ac.DB.Model(&models.Review{}).Where("is_validated = ?", false).Count(&stats.PendingReviews).Error; err != nil {
		utils.ErrorLogger.Printf("Dashboard stats: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
