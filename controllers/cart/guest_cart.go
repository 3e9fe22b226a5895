package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trendyware/storefront-api/models"
	"gorm.io/gorm"
)

// POST /guest/cart?guest_id=...
func (ctl *Controller) UpdateGuestCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := ctl.db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			status := http.StatusInternalServerError
			errMsg := "Failed to validate product"
			if errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusBadRequest
				errMsg = "Product does not exist"
			}
			c.JSON(status, gin.H{"error": errMsg})
			return
		}

		if !guardQuantity(input.Quantity, product.Stock) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "requested quantity exceeds available stock",
				"stock": product.Stock,
			})
			return
		}

		var cart models.GuestCart
		if err := ctl.db.Where("guest_id = ?", guestID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				cart = models.GuestCart{GuestID: guestID}
				if err := ctl.db.Create(&cart).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest cart"})
					return
				}
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch guest cart"})
				return
			}
		}

		var item models.GuestCartItem
		err := ctl.db.Where("cart_id = ? AND product_id = ?", cart.CartID, input.ProductID).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				newItem := models.GuestCartItem{
					CartID:        cart.CartID,
					ProductID:     product.ID,
					Title:         product.Title,
					Flavor:        product.Flavor,
					Image:         product.Image,
					StockSnapshot: product.Stock,
					UnitPrice:     product.SalePrice,
					RegularPrice:  product.RegularPrice,
					Weight:        product.Weight,
					Quantity:      input.Quantity,
					AddedAt:       time.Now(),
				}
				if err := ctl.db.Create(&newItem).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to guest cart"})
					return
				}
				c.JSON(http.StatusCreated, newItem)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch guest cart item"})
			return
		}

		item.Quantity = input.Quantity
		item.StockSnapshot = product.Stock
		item.AddedAt = time.Now()
		if err := ctl.db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update guest cart item"})
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// GET /guest/cart?guest_id=...
func (ctl *Controller) GetGuestCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		var cart models.GuestCart
		if err := ctl.db.Preload("Items").Where("guest_id = ?", guestID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, []models.GuestCartItem{})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch guest cart"})
			return
		}

		c.JSON(http.StatusOK, cart.Items)
	}
}

// DELETE /guest/cart?guest_id=...
func (ctl *Controller) ClearGuestCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		var cart models.GuestCart
		if err := ctl.db.Where("guest_id = ?", guestID).First(&cart).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch guest cart"})
			return
		}

		if err := ctl.db.Where("cart_id = ?", cart.CartID).Delete(&models.GuestCartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear guest cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Guest cart cleared"})
	}
}
