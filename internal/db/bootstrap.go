package db

import "database/sql"

// Bootstrap creates missing tables on startup and backfills columns
// older deployments lack. Each statement is CREATE TABLE IF NOT
// EXISTS so re-running is safe.
func Bootstrap(db *sql.DB) error {
	for _, ddl := range bootstrapDDL {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	// Deployments created before payout onboarding predate this column.
	if !HasColumn(db, "users", "stripe_account_id") {
		if _, err := db.Exec(`ALTER TABLE users ADD COLUMN stripe_account_id VARCHAR(100) NULL`); err != nil {
			return err
		}
	}
	return nil
}

var bootstrapDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	role ENUM('user','field_owner','admin') NOT NULL DEFAULT 'user',
	position VARCHAR(100) NOT NULL DEFAULT '',
	favorite_club VARCHAR(100) NOT NULL DEFAULT '',
	location VARCHAR(255) NOT NULL DEFAULT '',
	avatar_url VARCHAR(512) NOT NULL DEFAULT '',
	stripe_account_id VARCHAR(100) NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS fields (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	field_name VARCHAR(100) NOT NULL,
	description VARCHAR(500) NOT NULL DEFAULT '',
	field_type VARCHAR(20) NOT NULL DEFAULT '5v5',
	price_per_hour DECIMAL(10,2) NOT NULL,
	address VARCHAR(255) NOT NULL DEFAULT '',
	image_url VARCHAR(512) NOT NULL DEFAULT '',
	owner_id BIGINT NOT NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_owner (owner_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	field_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	owner_id BIGINT NOT NULL,
	booking_date DATE NOT NULL,
	start_time VARCHAR(5) NOT NULL,
	end_time VARCHAR(5) NOT NULL,
	duration_hours INT NOT NULL,
	total_price DECIMAL(10,2) NOT NULL,
	payment_status ENUM('pending','success','failed') NOT NULL DEFAULT 'pending',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_field_date (field_id, booking_date),
	KEY idx_user (user_id),
	KEY idx_owner (owner_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS payments (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	booking_id BIGINT NULL,
	plan_id BIGINT NULL,
	amount DECIMAL(10,2) NOT NULL,
	transaction_id VARCHAR(100) NOT NULL,
	status ENUM('pending','complete','failed') NOT NULL DEFAULT 'pending',
	type VARCHAR(20) NOT NULL DEFAULT 'booking',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_booking (booking_id),
	UNIQUE KEY uniq_transaction (transaction_id),
	KEY idx_user (user_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS plans (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	price DECIMAL(10,2) NOT NULL,
	description VARCHAR(500) NOT NULL DEFAULT '',
	benefits TEXT,
	billing_cycle VARCHAR(20) NOT NULL DEFAULT 'monthly',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS wall_posts (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	team_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_team (team_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS wall_comments (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	post_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	text TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_post (post_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
}
