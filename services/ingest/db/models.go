package db

import "database/sql"

type Engine struct {
	ID    int64
	Title string
	Power int64
}

type Transmission struct {
	ID    int64
	Type  string
	Title string
}

type Vehicle struct {
	ID               int64
	Title            string
	Slug             string
	EngineID         int64
	TransmissionID   int64
	Drive            string
	FuelType         string
	ProductionYear   int64
	Price            int64
	Mileage          int64
	SourceUrl        string
	ImagePath        sql.NullString
	Color            string
	Weight           int64
	TrunkCapacity    int64
	WheelSize        int64
	Seats            int64
	SafetyRating     int64
	FuelTankCapacity int64
	CreatedAt        int64
}
