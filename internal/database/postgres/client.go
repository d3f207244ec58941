package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenGorm поднимает GORM поверх уже открытого пула *sql.DB,
// чтобы sqlx и GORM делили одни и те же соединения
func OpenGorm(db *sql.DB, logger *slog.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm over existing pool: %w", err)
	}

	logger.Info("GORM initialized over PostgreSQL pool")
	return gdb, nil
}
