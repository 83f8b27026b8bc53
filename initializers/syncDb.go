package initializers

import (
	"github.com/Kariqs/lawlaw-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table the API owns, in migration order.
func Models() []any {
	return []any{
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.TrackingHistory{},
		&models.Recipe{},
		&models.FavoriteRecipe{},
		&models.SavedRecipe{},
		&models.Conversation{},
		&models.Message{},
		&models.OTP{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func SyncDatabase() {
	if err := Migrate(DB); err != nil {
		zap.L().Fatal("database migration failed", zap.Error(err))
	}
	zap.L().Info("Database synced successfully.")
}
