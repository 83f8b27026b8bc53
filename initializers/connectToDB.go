package initializers

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql", "":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

func ConnectToDB() {
	d, err := dialector(Config.DBDriver, Config.DBURL)
	if err != nil {
		zap.L().Fatal("database configuration", zap.Error(err))
	}
	DB, err = gorm.Open(d, &gorm.Config{})
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.String("driver", Config.DBDriver), zap.Error(err))
	}
	zap.L().Info("connected to database", zap.String("driver", Config.DBDriver))
}
