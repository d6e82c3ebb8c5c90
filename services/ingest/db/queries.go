package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const getEngineByTitle = `
SELECT id, title, power FROM engines WHERE title = ?
`

func (q *Queries) GetEngineByTitle(ctx context.Context, title string) (Engine, error) {
	row := q.db.QueryRowContext(ctx, getEngineByTitle, title)
	var e Engine
	err := row.Scan(&e.ID, &e.Title, &e.Power)
	return e, err
}

const createEngine = `
INSERT INTO engines (title, power) VALUES (?, ?)
ON CONFLICT (title) DO NOTHING
`

type CreateEngineParams struct {
	Title string
	Power int64
}

func (q *Queries) CreateEngine(ctx context.Context, arg CreateEngineParams) error {
	_, err := q.db.ExecContext(ctx, createEngine, arg.Title, arg.Power)
	return err
}

const getTransmissionByType = `
SELECT id, type, title FROM transmissions WHERE type = ?
`

func (q *Queries) GetTransmissionByType(ctx context.Context, transmissionType string) (Transmission, error) {
	row := q.db.QueryRowContext(ctx, getTransmissionByType, transmissionType)
	var t Transmission
	err := row.Scan(&t.ID, &t.Type, &t.Title)
	return t, err
}

const createTransmission = `
INSERT INTO transmissions (type, title) VALUES (?, ?)
ON CONFLICT (type) DO NOTHING
`

type CreateTransmissionParams struct {
	Type  string
	Title string
}

func (q *Queries) CreateTransmission(ctx context.Context, arg CreateTransmissionParams) error {
	_, err := q.db.ExecContext(ctx, createTransmission, arg.Type, arg.Title)
	return err
}

const hasVehicleWithSourceUrl = `
SELECT EXISTS (SELECT 1 FROM vehicles WHERE source_url = ?)
`

func (q *Queries) HasVehicleWithSourceUrl(ctx context.Context, sourceUrl string) (bool, error) {
	row := q.db.QueryRowContext(ctx, hasVehicleWithSourceUrl, sourceUrl)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const hasVehicleWithSlug = `
SELECT EXISTS (SELECT 1 FROM vehicles WHERE slug = ?)
`

func (q *Queries) HasVehicleWithSlug(ctx context.Context, slug string) (bool, error) {
	row := q.db.QueryRowContext(ctx, hasVehicleWithSlug, slug)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const createVehicle = `
INSERT INTO vehicles (
    title, slug, engine_id, transmission_id, drive, fuel_type,
    production_year, price, mileage, source_url, image_path, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateVehicleParams struct {
	Title          string
	Slug           string
	EngineID       int64
	TransmissionID int64
	Drive          string
	FuelType       string
	ProductionYear int64
	Price          int64
	Mileage        int64
	SourceUrl      string
	ImagePath      sql.NullString
	CreatedAt      int64
}

func (q *Queries) CreateVehicle(ctx context.Context, arg CreateVehicleParams) error {
	_, err := q.db.ExecContext(ctx, createVehicle,
		arg.Title,
		arg.Slug,
		arg.EngineID,
		arg.TransmissionID,
		arg.Drive,
		arg.FuelType,
		arg.ProductionYear,
		arg.Price,
		arg.Mileage,
		arg.SourceUrl,
		arg.ImagePath,
		arg.CreatedAt,
	)
	return err
}

const getVehicleBySlug = `
SELECT id, title, slug, engine_id, transmission_id, drive, fuel_type,
    production_year, price, mileage, source_url, image_path, color,
    weight, trunk_capacity, wheel_size, seats, safety_rating,
    fuel_tank_capacity, created_at
FROM vehicles WHERE slug = ?
`

func (q *Queries) GetVehicleBySlug(ctx context.Context, slug string) (Vehicle, error) {
	row := q.db.QueryRowContext(ctx, getVehicleBySlug, slug)
	var v Vehicle
	err := row.Scan(
		&v.ID,
		&v.Title,
		&v.Slug,
		&v.EngineID,
		&v.TransmissionID,
		&v.Drive,
		&v.FuelType,
		&v.ProductionYear,
		&v.Price,
		&v.Mileage,
		&v.SourceUrl,
		&v.ImagePath,
		&v.Color,
		&v.Weight,
		&v.TrunkCapacity,
		&v.WheelSize,
		&v.Seats,
		&v.SafetyRating,
		&v.FuelTankCapacity,
		&v.CreatedAt,
	)
	return v, err
}

const listVehicles = `
SELECT id, title, slug, engine_id, transmission_id, drive, fuel_type,
    production_year, price, mileage, source_url, image_path, color,
    weight, trunk_capacity, wheel_size, seats, safety_rating,
    fuel_tank_capacity, created_at
FROM vehicles ORDER BY created_at DESC, id DESC LIMIT ?
`

func (q *Queries) ListVehicles(ctx context.Context, limit int64) ([]Vehicle, error) {
	rows, err := q.db.QueryContext(ctx, listVehicles, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Vehicle
	for rows.Next() {
		var v Vehicle
		err := rows.Scan(
			&v.ID,
			&v.Title,
			&v.Slug,
			&v.EngineID,
			&v.TransmissionID,
			&v.Drive,
			&v.FuelType,
			&v.ProductionYear,
			&v.Price,
			&v.Mileage,
			&v.SourceUrl,
			&v.ImagePath,
			&v.Color,
			&v.Weight,
			&v.TrunkCapacity,
			&v.WheelSize,
			&v.Seats,
			&v.SafetyRating,
			&v.FuelTankCapacity,
			&v.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

const countVehicles = `
SELECT COUNT(*) FROM vehicles
`

func (q *Queries) CountVehicles(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countVehicles)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countEngines = `
SELECT COUNT(*) FROM engines
`

func (q *Queries) CountEngines(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countEngines)
	var count int64
	err := row.Scan(&count)
	return count, err
}
