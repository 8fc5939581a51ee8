package database

import (
	"enarm_backend/internal/config"
	"enarm_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Specialty{},
		&model.BankItem{},
		&model.Exam{},
		&model.ExamItem{},
		&model.Attempt{},
		&model.AnswerRecord{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Seed the specialty catalog on first boot.
	var count int64
	db.Model(&model.Specialty{}).Count(&count)
	if count == 0 {
		defaultSpecialties := []string{
			"Medicina Interna",
			"Cirugía General",
			"Pediatría",
			"Ginecología y Obstetricia",
			"Cardiología",
			"Urgencias",
		}
		for _, name := range defaultSpecialties {
			db.Create(&model.Specialty{Name: name})
		}
	}

	return db, nil
}
