package database

import (
	"context"
	"database/sql"
	"fmt"
)

// exactText is the column type for identifiers matched byte for byte.
// The server's default collation would fold case and accents.
const exactText = "VARCHAR(64) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"

// schema creates the users, stadiums and tickets tables.  Statements are
// idempotent and run in order because tickets references the other two.
var schema = []string{
	"CREATE TABLE IF NOT EXISTS users (" +
		"id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
		"name VARCHAR(255) NOT NULL, " +
		"national_id " + exactText + ", " +
		"UNIQUE KEY uq_users_national_id (national_id)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	"CREATE TABLE IF NOT EXISTS stadiums (" +
		"id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
		"name VARCHAR(255) NOT NULL, " +
		"num_gates INT NOT NULL, " +
		"num_seats INT NOT NULL" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	"CREATE TABLE IF NOT EXISTS tickets (" +
		"id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
		"number " + exactText + ", " +
		"seat_number INT NOT NULL, " +
		"`row_number` INT NOT NULL, " +
		"col_number INT NOT NULL, " +
		"gate_number INT NOT NULL, " +
		"user_id BIGINT UNSIGNED NOT NULL, " +
		"stadium_id BIGINT UNSIGNED NOT NULL, " +
		"KEY idx_tickets_user_number (user_id, number), " +
		"CONSTRAINT fk_tickets_user FOREIGN KEY (user_id) REFERENCES users (id), " +
		"CONSTRAINT fk_tickets_stadium FOREIGN KEY (stadium_id) REFERENCES stadiums (id)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
}

// Migrate applies the schema to db.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
