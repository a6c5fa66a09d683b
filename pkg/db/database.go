package db

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var gormDB *gorm.DB
var databaseOnce sync.Once

// InitDB 初始化数据库（支持 mysql/postgres）
func InitDB(cfg *Config) error {
	var err error
	databaseOnce.Do(func() {
		driver := strings.ToLower(cfg.Driver)
		var dial gorm.Dialector
		if driver == "postgres" {
			dial = postgres.Open(cfg.DSN())
		} else {
			dial = mysql.New(mysql.Config{DSN: cfg.DSN()})
		}
		gormDB, err = gorm.Open(dial, &gorm.Config{
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return
		}
		if cfg.Debug {
			gormDB = gormDB.Debug()
		}
		zap.S().Debug("*** 数据库初始化完成 ***")
	})
	return err
}

func GetDB() *gorm.DB {
	return gormDB
}
