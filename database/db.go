// Package database opens the GORM connection, migrates the schema and seeds
// the role catalogue.
package database

import (
	"errors"
	"os"

	"github.com/quillpress/blog-api/config"
	"github.com/quillpress/blog-api/database/model"
	"github.com/quillpress/blog-api/logger"
	"github.com/quillpress/blog-api/util/crypto"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	db       *gorm.DB
	dbConfig *config.DatabaseConfig
)

func initModels() error {
	models := []any{
		&model.Role{},
		&model.User{},
		&model.Blog{},
		&model.Comment{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			logger.Errorf("Error auto migrating model %T: %v", m, err)
			return err
		}
	}
	return nil
}

// initRoles upserts the default roles so their capability flags always match
// the catalogue, even if an operator edited them by hand.
func initRoles() error {
	for _, role := range model.DefaultRoles() {
		var existing model.Role
		err := db.Where("title = ?", role.Title).First(&existing).Error
		switch {
		case IsNotFound(err):
			if err := db.Create(&role).Error; err != nil {
				return err
			}
			logger.Infof("Created %s role", role.Title)
		case err != nil:
			return err
		default:
			err = db.Model(&existing).Select("CanComment", "CanCreateBlog", "CanModerate", "IsAdmin").
				Updates(role).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// initAdmin creates the first administrator from QP_ADMIN_* variables when the
// users table is empty.
func initAdmin() error {
	email := os.Getenv("QP_ADMIN_EMAIL")
	password := os.Getenv("QP_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	empty, err := isTableEmpty(&model.User{})
	if err != nil || !empty {
		return err
	}

	var role model.Role
	if err := db.Where("title = ?", "admin").First(&role).Error; err != nil {
		return err
	}
	// an already hashed password is stored as given
	hash := password
	if !crypto.IsBcryptHash(password) {
		if hash, err = crypto.HashPasswordAsBcrypt(password); err != nil {
			return err
		}
	}
	username := os.Getenv("QP_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	admin := &model.User{
		Email:    email,
		Name:     "Administrator",
		Username: username,
		Password: hash,
		RoleId:   role.Id,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	logger.Noticef("Created initial administrator %s", email)
	return nil
}

func isTableEmpty(m any) (bool, error) {
	var count int64
	err := db.Model(m).Count(&count).Error
	return count == 0, err
}

// InitDB opens the database described by cfg, migrates the schema and seeds
// the default roles.
func InitDB(cfg *config.DatabaseConfig) error {
	if err := cfg.ValidateConfig(); err != nil {
		return err
	}
	if err := cfg.EnsureDirectoryExists(); err != nil {
		return err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	var dialector gorm.Dialector
	if cfg.IsPostgreSQL() {
		dialector = postgres.Open(cfg.GetDSN())
	} else {
		dialector = sqlite.Open(cfg.GetDSN() + "&_busy_timeout=5000")
	}

	var err error
	db, err = gorm.Open(dialector, c)
	if err != nil {
		return err
	}
	dbConfig = cfg

	if cfg.IsSQLite() {
		if err := db.Exec("PRAGMA foreign_keys = ON;").Error; err != nil {
			return err
		}
	}

	if err := initModels(); err != nil {
		return err
	}
	if err := initRoles(); err != nil {
		return err
	}
	return initAdmin()
}

// InitSQLite is a shorthand for InitDB with a SQLite file at path.
func InitSQLite(path string) error {
	return InitDB(&config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: path},
	})
}

func CloseDB() error {
	if db != nil {
		if err := Checkpoint(); err != nil {
			logger.Warning("error executing checkpoint: ", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

// IsSQLite reports whether the open database is SQLite.
func IsSQLite() bool {
	return dbConfig != nil && dbConfig.IsSQLite()
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Checkpoint folds the SQLite WAL back into the main database file. It is a
// no-op on PostgreSQL.
func Checkpoint() error {
	if !IsSQLite() {
		return nil
	}
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
