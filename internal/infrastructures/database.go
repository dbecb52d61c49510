package infrastructures

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/stamply/stamply-core/internal/app/models"
	"github.com/stamply/stamply-core/pkg/apikey"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase() *gorm.DB {
	db, err := gorm.Open(postgres.Open(os.Getenv("DATABASE_URL")), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Business{},
		&models.Client{},
		&models.Reward{},
		&models.ClientCard{},
		&models.StampTransaction{},
		&models.Redemption{},
		&models.AuditLog{},
		&apikey.APIKey{},
	)
	if err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}

	return db
}
