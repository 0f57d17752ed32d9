// database/schema.go
package database

import (
	"context"
	"fmt"
	"log"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tracked_flights (
		id INT AUTO_INCREMENT PRIMARY KEY,
		flight_number VARCHAR(20) NOT NULL,
		date_added DATETIME NOT NULL,
		UNIQUE KEY uq_tracked_flight_number (flight_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS flights (
		id INT AUTO_INCREMENT PRIMARY KEY,
		flight_number VARCHAR(20) NOT NULL,
		airline VARCHAR(100) NULL,
		departure_airport VARCHAR(10) NULL,
		arrival_airport VARCHAR(10) NULL,
		scheduled_departure DATETIME NULL,
		scheduled_arrival DATETIME NULL,
		actual_departure DATETIME NULL,
		actual_arrival DATETIME NULL,
		status VARCHAR(50) NULL,
		departure_lat DOUBLE NULL,
		departure_lon DOUBLE NULL,
		arrival_lat DOUBLE NULL,
		arrival_lon DOUBLE NULL,
		current_lat DOUBLE NULL,
		current_lon DOUBLE NULL,
		altitude DOUBLE NULL,
		speed DOUBLE NULL,
		last_updated DATETIME NOT NULL,
		UNIQUE KEY uq_flights_flight_number (flight_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the tables the store needs if they do not exist.
func (s *MySQLStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	log.Println("Database: Schema is up to date.")
	return nil
}
