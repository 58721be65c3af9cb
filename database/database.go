package database

import (
	"fmt"
	"metalflow-app/config"
	"metalflow-app/utils"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	dbConn  *gorm.DB
	dbMutex sync.Mutex
)

// getDSNAndDialector memilih driver berdasarkan DB_DRIVER
func getDSNAndDialector(driver, dbName string) (string, gorm.Dialector, error) {
	switch driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, dbName, config.DBPort)
		return dsn, postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return dsn, mysql.Open(dsn), nil
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return dsn, sqlserver.Open(dsn), nil
	case "sqlite":
		// untuk sqlite, DB_NAME adalah path file
		return dbName, sqlite.Open(dbName), nil
	default:
		return "", nil, fmt.Errorf("unsupported DB_DRIVER: %s", driver)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(
			utils.Log,
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

// OpenDatabaseConnection membuka koneksi baru ke database dbName
func OpenDatabaseConnection(dbName string) (*gorm.DB, error) {
	_, dialector, err := getDSNAndDialector(config.DBDriver, dbName)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database %s", config.DBDriver, dbName)
	}
	return db, nil
}

// GetDBConnection mengembalikan koneksi yang sama untuk seluruh aplikasi
func GetDBConnection() (*gorm.DB, error) {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	if dbConn != nil {
		return dbConn, nil
	}

	db, err := OpenDatabaseConnection(config.DBName)
	if err != nil {
		return nil, err
	}
	dbConn = db
	return dbConn, nil
}
