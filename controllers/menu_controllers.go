package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/deniortyann66-art/vite-et-gourmand/models"
	"github.com/deniortyann66-art/vite-et-gourmand/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

type dishInput struct {
	Title       string   `json:"title" binding:"required"`
	Type        string   `json:"type" binding:"required"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Allergens   []string `json:"allergens"`
}

// buildDishes resolves allergen labels against the shared allergen table,
// creating labels seen for the first time.
func buildDishes(tx *gorm.DB, inputs []dishInput) ([]models.Dish, error) {
	dishes := make([]models.Dish, 0, len(inputs))
	for _, in := range inputs {
		dish := models.Dish{
			Title:       in.Title,
			Type:        in.Type,
			Description: in.Description,
			ImageURL:    in.ImageURL,
		}
		for _, label := range in.Allergens {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			var allergen models.Allergen
			if err := tx.Where("label = ?", label).FirstOrCreate(&allergen, models.Allergen{Label: label}).Error; err != nil {
				return nil, err
			}
			dish.Allergens = append(dish.Allergens, allergen)
		}
		dishes = append(dishes, dish)
	}
	return dishes, nil
}

// GetAllMenus -> public catalog, optional theme/diet filters
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	query := mc.DB.Order("id")
	if theme := c.Query("theme"); theme != "" {
		query = query.Where("theme = ?", theme)
	}
	if diet := c.Query("diet"); diet != "" {
		query = query.Where("diet = ?", diet)
	}

	var menus []models.Menu
	if err := query.Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByID -> public menu detail
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	menuID, ok := paramUint(c, "menu_id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu id"))
		return
	}

	var menu models.Menu
	if err := mc.DB.Preload("Dishes.Allergens").First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// CreateMenu -> staff adds a catalog entry
func (mc *MenuController) CreateMenu(c *gin.Context) {
	type reqBody struct {
		Title          string          `json:"title" binding:"required"`
		Description    string          `json:"description"`
		Theme          string          `json:"theme"`
		Diet           *string         `json:"diet"`
		MinPeople      int             `json:"min_people" binding:"required"`
		MinPrice       decimal.Decimal `json:"min_price" binding:"required"`
		Stock          *int            `json:"stock" binding:"required"`
		ConditionsText string          `json:"conditions_text"`
		Dishes         []dishInput     `json:"dishes"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.MinPeople <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("min_people must be positive"))
		return
	}
	if body.MinPrice.IsNegative() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("min_price must not be negative"))
		return
	}
	if *body.Stock < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("stock must not be negative"))
		return
	}

	menu := models.Menu{
		Title:          body.Title,
		Description:    body.Description,
		Theme:          body.Theme,
		Diet:           body.Diet,
		MinPeople:      body.MinPeople,
		MinPrice:       body.MinPrice,
		Stock:          *body.Stock,
		ConditionsText: body.ConditionsText,
	}

	if err := mc.DB.Transaction(func(tx *gorm.DB) error {
		dishes, err := buildDishes(tx, body.Dishes)
		if err != nil {
			return err
		}
		menu.Dishes = dishes
		return tx.Create(&menu).Error
	}); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// UpdateMenu -> staff partial update
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	menuID, ok := paramUint(c, "menu_id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu id"))
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type reqBody struct {
		Title          *string          `json:"title"`
		Description    *string          `json:"description"`
		Theme          *string          `json:"theme"`
		Diet           *string          `json:"diet"`
		MinPeople      *int             `json:"min_people"`
		MinPrice       *decimal.Decimal `json:"min_price"`
		Stock          *int             `json:"stock"`
		ConditionsText *string          `json:"conditions_text"`
		Dishes         *[]dishInput     `json:"dishes"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Title != nil {
		menu.Title = *body.Title
	}
	if body.Description != nil {
		menu.Description = *body.Description
	}
	if body.Theme != nil {
		menu.Theme = *body.Theme
	}
	if body.Diet != nil {
		menu.Diet = body.Diet
	}
	if body.MinPeople != nil {
		if *body.MinPeople <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("min_people must be positive"))
			return
		}
		menu.MinPeople = *body.MinPeople
	}
	if body.MinPrice != nil {
		if body.MinPrice.IsNegative() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("min_price must not be negative"))
			return
		}
		menu.MinPrice = *body.MinPrice
	}
	if body.Stock != nil {
		if *body.Stock < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("stock must not be negative"))
			return
		}
		menu.Stock = *body.Stock
	}
	if body.ConditionsText != nil {
		menu.ConditionsText = *body.ConditionsText
	}

	if err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if body.Dishes != nil {
			// Replace the whole composition; partial dish edits are not supported.
			if err := tx.Exec("DELETE FROM dish_allergens WHERE dish_id IN (SELECT id FROM dishes WHERE menu_id = ?)", menu.ID).Error; err != nil {
				return err
			}
			if err := tx.Where("menu_id = ?", menu.ID).Delete(&models.Dish{}).Error; err != nil {
				return err
			}
			dishes, err := buildDishes(tx, *body.Dishes)
			if err != nil {
				return err
			}
			menu.Dishes = dishes
		}
		return tx.Save(&menu).Error
	}); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// DeleteMenu -> staff removes a catalog entry without orders
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	menuID, ok := paramUint(c, "menu_id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu id"))
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var orderCount int64
	if err := mc.DB.Model(&models.Order{}).Where("menu_id = ?", menu.ID).Count(&orderCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if orderCount > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("menu has orders and cannot be deleted"))
		return
	}

	if err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM dish_allergens WHERE dish_id IN (SELECT id FROM dishes WHERE menu_id = ?)", menu.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("menu_id = ?", menu.ID).Delete(&models.Dish{}).Error; err != nil {
			return err
		}
		return tx.Delete(&menu).Error
	}); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu deleted", nil)
}
