package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/deniortyann66-art/vite-et-gourmand/feed"
	"github.com/deniortyann66-art/vite-et-gourmand/services"
	"github.com/deniortyann66-art/vite-et-gourmand/utils"
)

// EmployeeController is the staff order board: listing with filters,
// status transitions and cancellation with a mandatory reason. Routes are
// gated by RequireStaff.
type EmployeeController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewEmployeeController(db *gorm.DB, orders *services.OrderService) *EmployeeController {
	return &EmployeeController{DB: db, Orders: orders}
}

// ListOrders -> all orders, optionally filtered by status and/or customer email
func (ec *EmployeeController) ListOrders(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	status := c.Query("status")
	email := c.Query("email")

	orders, err := ec.Orders.ListAll(actor, status, email)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Orders", orders)
}

// UpdateStatus -> staff status transition with history entry
func (ec *EmployeeController) UpdateStatus(c *gin.Context) {
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
		Status string `json:"status" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := ec.Orders.SetStatus(actor, orderID, body.Status)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order #%d set to %s by user %d", order.ID, order.Status, actor.ID)
	feed.BroadcastOrderStatus(*order)
	feed.BroadcastStaffNotification(fmt.Sprintf("Order #%d is now %s", order.ID, order.Status))

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CancelOrder -> staff cancellation, reason mandatory
func (ec *EmployeeController) CancelOrder(c *gin.Context) {
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
		CancelReason string `json:"cancel_reason" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := ec.Orders.Cancel(actor, orderID, body.CancelReason)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	feed.BroadcastOrderCancelled(*order)

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
