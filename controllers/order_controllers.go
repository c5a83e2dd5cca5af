package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/deniortyann66-art/vite-et-gourmand/feed"
	"github.com/deniortyann66-art/vite-et-gourmand/services"
	"github.com/deniortyann66-art/vite-et-gourmand/utils"
)

// OrderController exposes the customer-facing order endpoints. All
// lifecycle rules live in the order service; the controller parses,
// delegates and broadcasts.
type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService) *OrderController {
	return &OrderController{DB: db, Orders: orders}
}

// MyOrders -> list the authenticated customer's orders
func (oc *OrderController) MyOrders(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	orders, err := oc.Orders.ListForCustomer(actor)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "My orders", orders)
}

// GetOrderByID -> one order, owner or staff only
func (oc *OrderController) GetOrderByID(c *gin.Context) {
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

	order, err := oc.Orders.Get(actor, orderID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CreateOrder -> place an order on a menu
func (oc *OrderController) CreateOrder(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	type reqBody struct {
		MenuID         uint             `json:"menu_id" binding:"required"`
		ServiceAddress string           `json:"service_address" binding:"required"`
		ServiceCity    string           `json:"service_city" binding:"required"`
		ServiceDate    string           `json:"service_date" binding:"required"`
		ServiceTime    string           `json:"service_time" binding:"required"`
		PeopleCount    int              `json:"people_count" binding:"required"`
		Km             *decimal.Decimal `json:"km"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	serviceDate, err := time.Parse("2006-01-02", body.ServiceDate)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("service_date must be YYYY-MM-DD"))
		return
	}

	km := decimal.Zero
	if body.Km != nil {
		km = *body.Km
	}

	order, err := oc.Orders.Create(actor, services.CreateOrderInput{
		MenuID:         body.MenuID,
		PeopleCount:    body.PeopleCount,
		ServiceAddress: body.ServiceAddress,
		ServiceCity:    body.ServiceCity,
		ServiceDate:    serviceDate,
		ServiceTime:    body.ServiceTime,
		Km:             km,
	})
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order #%d created by user %d (total %s)", order.ID, actor.ID, order.Total.StringFixed(2))
	feed.BroadcastOrderCreated(*order)

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// EditOrder -> customer edit, allowed while the order is still "received"
func (oc *OrderController) EditOrder(c *gin.Context) {
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
		ServiceAddress *string          `json:"service_address"`
		ServiceCity    *string          `json:"service_city"`
		ServiceDate    *string          `json:"service_date"`
		ServiceTime    *string          `json:"service_time"`
		PeopleCount    *int             `json:"people_count"`
		Km             *decimal.Decimal `json:"km"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	in := services.EditOrderInput{
		ServiceAddress: body.ServiceAddress,
		ServiceCity:    body.ServiceCity,
		ServiceTime:    body.ServiceTime,
		PeopleCount:    body.PeopleCount,
		Km:             body.Km,
	}
	if body.ServiceDate != nil {
		d, err := time.Parse("2006-01-02", *body.ServiceDate)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("service_date must be YYYY-MM-DD"))
			return
		}
		in.ServiceDate = &d
	}

	order, err := oc.Orders.Edit(actor, orderID, in)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// CancelOrder -> customer cancellation, only while "received"
func (oc *OrderController) CancelOrder(c *gin.Context) {
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
		CancelReason string `json:"cancel_reason"`
	}
	var body reqBody
	// An empty body is fine, the service fills in the default reason.
	_ = c.ShouldBindJSON(&body)

	order, err := oc.Orders.Cancel(actor, orderID, body.CancelReason)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	feed.BroadcastOrderCancelled(*order)

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
