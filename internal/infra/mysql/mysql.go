package mysql

import (
	"time"

	mysqlrepo "nexus-market/internal/repository/mysql"
	"nexus-market/pkg/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func NewMySQL(cfg config.MySQLConfig) (*gorm.DB, error) {
	return Open(mysql.Open(cfg.DSN()))
}

// Open connects through any gorm dialector and migrates the slot table.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// one logical writer; a small pool is plenty
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := mysqlrepo.Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}
