package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Seed loads a small deterministic demo dataset. It only runs against an
// empty profiles table so restarts do not duplicate rows.
func Seed(database *gorm.DB) error {
	var count int64
	if err := database.Raw(`SELECT COUNT(*) FROM profiles`).Scan(&count).Error; err != nil {
		return fmt.Errorf("seed precheck: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i, stmt := range seedStatements {
		if err := database.Exec(stmt).Error; err != nil {
			return fmt.Errorf("seed %d failed: %w", i+1, err)
		}
	}
	return nil
}

var seedStatements = []string{
	`INSERT INTO profiles (id, first_name, last_name, profession, balance, type) VALUES
		('11111111-1111-1111-1111-111111111101', 'Nora', 'Haas', 'Wizard', 1150, 'client'),
		('11111111-1111-1111-1111-111111111102', 'Tomas', 'Rivera', 'Knight', 231.11, 'client'),
		('11111111-1111-1111-1111-111111111103', 'Ada', 'Klein', 'Alchemist', 451.3, 'client'),
		('11111111-1111-1111-1111-111111111104', 'Mikel', 'Ruiz', 'Pilot', 1.3, 'client'),
		('11111111-1111-1111-1111-111111111105', 'Jon', 'Snow', 'Knows nothing', 64, 'contractor'),
		('11111111-1111-1111-1111-111111111106', 'Lena', 'Mori', 'Musician', 1214, 'contractor'),
		('11111111-1111-1111-1111-111111111107', 'Alan', 'Turner', 'Programmer', 22, 'contractor'),
		('11111111-1111-1111-1111-111111111108', 'Aisha', 'Bekova', 'Programmer', 314, 'contractor');`,
	`INSERT INTO contracts (id, client_id, contractor_id, terms, status) VALUES
		('22222222-2222-2222-2222-222222222201', '11111111-1111-1111-1111-111111111101', '11111111-1111-1111-1111-111111111105', 'bla bla bla', 'terminated'),
		('22222222-2222-2222-2222-222222222202', '11111111-1111-1111-1111-111111111101', '11111111-1111-1111-1111-111111111106', 'bla bla bla', 'in_progress'),
		('22222222-2222-2222-2222-222222222203', '11111111-1111-1111-1111-111111111102', '11111111-1111-1111-1111-111111111106', 'bla bla bla', 'in_progress'),
		('22222222-2222-2222-2222-222222222204', '11111111-1111-1111-1111-111111111102', '11111111-1111-1111-1111-111111111107', 'bla bla bla', 'in_progress'),
		('22222222-2222-2222-2222-222222222205', '11111111-1111-1111-1111-111111111103', '11111111-1111-1111-1111-111111111108', 'bla bla bla', 'new'),
		('22222222-2222-2222-2222-222222222206', '11111111-1111-1111-1111-111111111103', '11111111-1111-1111-1111-111111111107', 'bla bla bla', 'in_progress'),
		('22222222-2222-2222-2222-222222222207', '11111111-1111-1111-1111-111111111104', '11111111-1111-1111-1111-111111111107', 'bla bla bla', 'in_progress'),
		('22222222-2222-2222-2222-222222222208', '11111111-1111-1111-1111-111111111104', '11111111-1111-1111-1111-111111111106', 'bla bla bla', 'in_progress'),
		('22222222-2222-2222-2222-222222222209', '11111111-1111-1111-1111-111111111104', '11111111-1111-1111-1111-111111111108', 'bla bla bla', 'in_progress');`,
	`INSERT INTO jobs (id, contract_id, description, price, paid, paid_at) VALUES
		('33333333-3333-3333-3333-333333333301', '22222222-2222-2222-2222-222222222201', 'work', 200, FALSE, NULL),
		('33333333-3333-3333-3333-333333333302', '22222222-2222-2222-2222-222222222202', 'work', 201, FALSE, NULL),
		('33333333-3333-3333-3333-333333333303', '22222222-2222-2222-2222-222222222203', 'work', 202, FALSE, NULL),
		('33333333-3333-3333-3333-333333333304', '22222222-2222-2222-2222-222222222204', 'work', 200, FALSE, NULL),
		('33333333-3333-3333-3333-333333333305', '22222222-2222-2222-2222-222222222207', 'work', 200, FALSE, NULL),
		('33333333-3333-3333-3333-333333333306', '22222222-2222-2222-2222-222222222202', 'work', 21, TRUE, '2020-08-15T19:11:26.737Z'),
		('33333333-3333-3333-3333-333333333307', '22222222-2222-2222-2222-222222222202', 'work', 21, TRUE, '2020-08-15T19:11:26.737Z'),
		('33333333-3333-3333-3333-333333333308', '22222222-2222-2222-2222-222222222203', 'work', 121, TRUE, '2020-08-15T19:11:26.737Z'),
		('33333333-3333-3333-3333-333333333309', '22222222-2222-2222-2222-222222222203', 'work', 121, TRUE, '2020-08-14T23:11:26.737Z'),
		('33333333-3333-3333-3333-333333333310', '22222222-2222-2222-2222-222222222204', 'work', 121, TRUE, '2020-08-14T23:11:26.737Z'),
		('33333333-3333-3333-3333-333333333311', '22222222-2222-2222-2222-222222222209', 'work', 200, TRUE, '2020-08-17T19:11:26.737Z');`,
}
