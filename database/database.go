package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"proudshop/config"
)

var DB *sql.DB

func InitDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := bootstrapSchema(db); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}

	DB = db
	log.Printf("Connected to database %s on %s:%s", cfg.DBName, cfg.DBHost, cfg.DBPort)
	return nil
}

func CloseDB() {
	if DB != nil {
		if err := DB.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(160) NOT NULL UNIQUE,
		slug VARCHAR(160) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(220) NOT NULL,
		description TEXT,
		price_eur DECIMAL(10,2) NOT NULL DEFAULT 0,
		price_lek DECIMAL(10,2) NULL,
		stock INT NOT NULL DEFAULT 0,
		category_id INT NULL,
		images TEXT,
		is_featured TINYINT(1) NOT NULL DEFAULT 0,
		is_offer TINYINT(1) NOT NULL DEFAULT 0,
		discount_price_eur DECIMAL(10,2) NULL,
		discount_price_lek DECIMAL(10,2) NULL,
		is_draft TINYINT(1) NOT NULL DEFAULT 0,
		slug VARCHAR(220) NULL UNIQUE,
		source_url TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id INT AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(190) NOT NULL UNIQUE,
		name VARCHAR(160) NULL,
		phone VARCHAR(50) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_number VARCHAR(80) NOT NULL UNIQUE,
		customer_id INT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		total_eur DECIMAL(10,2) NOT NULL DEFAULT 0,
		total_lek DECIMAL(10,2) NOT NULL DEFAULT 0,
		shipping_name VARCHAR(160) NULL,
		shipping_email VARCHAR(190) NULL,
		shipping_phone VARCHAR(50) NULL,
		shipping_address VARCHAR(255) NULL,
		shipping_city VARCHAR(120) NULL,
		shipping_zip VARCHAR(30) NULL,
		shipping_country VARCHAR(80) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id INT NOT NULL,
		product_id INT NOT NULL,
		quantity INT NOT NULL,
		price_eur DECIMAL(10,2) NOT NULL,
		price_lek DECIMAL(10,2) NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		customer_id INT NULL,
		product_id INT NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id INT AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(190) NOT NULL UNIQUE,
		name VARCHAR(120) NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'ADMIN',
		permissions TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS admin_settings (
		id INT AUTO_INCREMENT PRIMARY KEY,
		` + "`key`" + ` VARCHAR(120) NOT NULL UNIQUE,
		value TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id INT AUTO_INCREMENT PRIMARY KEY,
		admin_id INT NOT NULL,
		token_hash VARCHAR(128) NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (admin_id) REFERENCES admins(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS chat_sessions (
		id INT AUTO_INCREMENT PRIMARY KEY,
		session_id VARCHAR(64) NOT NULL UNIQUE,
		customer_email VARCHAR(190) NULL,
		customer_name VARCHAR(160) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_activity_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id INT AUTO_INCREMENT PRIMARY KEY,
		session_id INT NOT NULL,
		role VARCHAR(20) NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES chat_sessions(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(160) NOT NULL,
		objective VARCHAR(120) NULL,
		budget_eur DECIMAL(10,2) NULL,
		audience TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

func bootstrapSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
