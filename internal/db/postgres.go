package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/types"
	"github.com/wellnest-app/wellnest-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "wellnest", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.DailyEntry{},
		&types.MetricRating{},
		&types.Product{},
		&types.Space{},
		&types.SpaceMember{},
		&types.SpaceMessage{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		stmt string
	}{
		{"fk_user_token_user_id", `
			ALTER TABLE "user_token"
			ADD CONSTRAINT "fk_user_token_user_id"
			FOREIGN KEY ("user_id") REFERENCES "user"("id")
			ON DELETE CASCADE`},
		{"fk_daily_entry_user_id", `
			ALTER TABLE "daily_entry"
			ADD CONSTRAINT "fk_daily_entry_user_id"
			FOREIGN KEY ("user_id") REFERENCES "user"("id")
			ON DELETE CASCADE`},
		{"fk_metric_rating_entry_id", `
			ALTER TABLE "metric_rating"
			ADD CONSTRAINT "fk_metric_rating_entry_id"
			FOREIGN KEY ("entry_id") REFERENCES "daily_entry"("id")
			ON DELETE CASCADE`},
		{"fk_metric_rating_user_id", `
			ALTER TABLE "metric_rating"
			ADD CONSTRAINT "fk_metric_rating_user_id"
			FOREIGN KEY ("user_id") REFERENCES "user"("id")
			ON DELETE CASCADE`},
		{"fk_space_owner_id", `
			ALTER TABLE "space"
			ADD CONSTRAINT "fk_space_owner_id"
			FOREIGN KEY ("owner_id") REFERENCES "user"("id")
			ON DELETE CASCADE`},
		{"fk_space_member_space_id", `
			ALTER TABLE "space_member"
			ADD CONSTRAINT "fk_space_member_space_id"
			FOREIGN KEY ("space_id") REFERENCES "space"("id")
			ON DELETE CASCADE`},
		{"fk_space_member_user_id", `
			ALTER TABLE "space_member"
			ADD CONSTRAINT "fk_space_member_user_id"
			FOREIGN KEY ("user_id") REFERENCES "user"("id")
			ON DELETE CASCADE`},
		{"fk_space_message_space_id", `
			ALTER TABLE "space_message"
			ADD CONSTRAINT "fk_space_message_space_id"
			FOREIGN KEY ("space_id") REFERENCES "space"("id")
			ON DELETE CASCADE`},
		{"fk_space_message_author_id", `
			ALTER TABLE "space_message"
			ADD CONSTRAINT "fk_space_message_author_id"
			FOREIGN KEY ("author_id") REFERENCES "user"("id")
			ON DELETE CASCADE`},
	}
	for _, c := range constraints {
		var count int64
		if err := s.db.Raw(
			`SELECT COUNT(*) FROM information_schema.table_constraints WHERE constraint_name = ?`, c.name,
		).Scan(&count).Error; err != nil {
			return fmt.Errorf("failed to check constraint %s: %w", c.name, err)
		}
		if count > 0 {
			continue
		}
		if err := s.db.Exec(c.stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
