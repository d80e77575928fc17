package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/diwan-maarifa/diwan-backend/internal/config"
	"github.com/diwan-maarifa/diwan-backend/internal/migration"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	sqlitePath := flag.String("sqlite", "", "migrate a SQLite file instead of MySQL (local development)")
	verify := flag.Bool("verify", false, "print row counts per table after migrating")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv()

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)}

	var dialector gorm.Dialector
	if *sqlitePath != "" {
		dialector = sqlite.Open(*sqlitePath)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		dialector = mysql.Open(cfg.Database.GetDSN())
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := migration.Run(ctx, db); err != nil {
		log.Fatalf("[migrate] FAILED: %v", err)
	}
	log.Printf("[migrate] Completed in %v", time.Since(start))

	if *verify {
		runVerify(ctx, db)
	}
}

func runVerify(ctx context.Context, db *gorm.DB) {
	for _, model := range migration.Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			log.Printf("[verify] parse %T: %v", model, err)
			continue
		}
		var n int64
		if err := db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			log.Printf("[verify] %s: %v", stmt.Schema.Table, err)
			continue
		}
		log.Printf("[verify] %-20s %d rows", stmt.Schema.Table, n)
	}
}
