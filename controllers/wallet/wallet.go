package walletControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/trendyware/storefront-api/middleware"
	"github.com/trendyware/storefront-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Controller struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewController(db *gorm.DB, log *zap.Logger) *Controller {
	return &Controller{db: db, log: log}
}

type DepositRequest struct {
	UserID      string  `json:"user_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// GET /user/wallet
func (ctl *Controller) GetBalance() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var profile models.Profile
		if err := ctl.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"user_id": userID, "balance": 0.0})
				return
			}
			ctl.log.Error("failed to fetch wallet balance",
				zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch balance"})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// GET /user/wallet/transactions
func (ctl *Controller) ListTransactions() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var transactions []models.Transaction
		if err := ctl.db.
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&transactions).Error; err != nil {
			ctl.log.Error("failed to list transactions",
				zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch transactions"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	}
}

// POST /admin/wallet/deposit
// The balance increment and the deposit ledger row commit together.
func (ctl *Controller) Deposit() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DepositRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deposit payload"})
			return
		}

		description := req.Description
		if description == "" {
			description = "wallet deposit"
		}

		err := ctl.db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Profile{}).
				Where("user_id = ?", req.UserID).
				UpdateColumn("balance", gorm.Expr("balance + ?", req.Amount))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				profile := models.Profile{UserID: req.UserID, Balance: req.Amount}
				if err := tx.Create(&profile).Error; err != nil {
					return err
				}
			}

			entry := models.Transaction{
				ID:          uuid.NewString(),
				UserID:      req.UserID,
				Type:        models.TransactionTypeDeposit,
				Amount:      req.Amount,
				Status:      models.TransactionStatusCompleted,
				Description: description,
				CreatedAt:   time.Now(),
			}
			return tx.Create(&entry).Error
		})
		if err != nil {
			ctl.log.Error("wallet deposit failed",
				zap.String("user_id", req.UserID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false, "message": "operation failed, please try again",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "deposit recorded"})
	}
}
