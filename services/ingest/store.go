package ingest

import (
	"context"
	"database/sql"

	"autolot-backend/services/ingest/db"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Store is the pipeline's only handle on persistent state. Engines and
// transmissions are shared between vehicles and resolved by identity
// key, vehicles are created exactly once per source url. The pipeline
// never updates or deletes anything, later edits belong to the
// surrounding application.
type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

func (s Store) HasVehicleURL(ctx context.Context, sourceURL string) (bool, error) {
	return s.qry.HasVehicleWithSourceUrl(ctx, sourceURL)
}

func (s Store) HasSlug(ctx context.Context, slug string) (bool, error) {
	return s.qry.HasVehicleWithSlug(ctx, slug)
}

// GetOrCreateEngine resolves an engine by name. An existing engine is
// returned untouched, the power figure only matters on first creation.
func (s Store) GetOrCreateEngine(ctx context.Context, name string, power int) (db.Engine, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return db.Engine{}, err
	}
	defer tx.Rollback()
	qtx := s.qry.WithTx(tx)

	err = qtx.CreateEngine(ctx, db.CreateEngineParams{
		Title: name,
		Power: int64(power),
	})
	if err != nil {
		return db.Engine{}, err
	}
	engine, err := qtx.GetEngineByTitle(ctx, name)
	if err != nil {
		return db.Engine{}, err
	}
	return engine, tx.Commit()
}

// GetOrCreateTransmission resolves a transmission by type code,
// first-write-wins on the display title.
func (s Store) GetOrCreateTransmission(ctx context.Context, transmissionType TransmissionType, title string) (db.Transmission, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return db.Transmission{}, err
	}
	defer tx.Rollback()
	qtx := s.qry.WithTx(tx)

	err = qtx.CreateTransmission(ctx, db.CreateTransmissionParams{
		Type:  string(transmissionType),
		Title: title,
	})
	if err != nil {
		return db.Transmission{}, err
	}
	transmission, err := qtx.GetTransmissionByType(ctx, string(transmissionType))
	if err != nil {
		return db.Transmission{}, err
	}
	return transmission, tx.Commit()
}

func (s Store) CreateVehicle(ctx context.Context, arg db.CreateVehicleParams) error {
	return s.qry.CreateVehicle(ctx, arg)
}

func (s Store) GetVehicleBySlug(ctx context.Context, slug string) (db.Vehicle, error) {
	return s.qry.GetVehicleBySlug(ctx, slug)
}

func (s Store) ListVehicles(ctx context.Context, limit int64) ([]db.Vehicle, error) {
	return s.qry.ListVehicles(ctx, limit)
}

func (s Store) CountVehicles(ctx context.Context) (int64, error) {
	return s.qry.CountVehicles(ctx)
}

func (s Store) CountEngines(ctx context.Context) (int64, error) {
	return s.qry.CountEngines(ctx)
}
