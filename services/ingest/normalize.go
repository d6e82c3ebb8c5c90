package ingest

import (
	"strings"

	"autolot-backend/lib/textutil"
	"autolot-backend/pkg/models"
)

type TransmissionType string

const (
	TransmissionAutomatic TransmissionType = "automatic"
	TransmissionManual    TransmissionType = "manual"
)

type DriveType string

const (
	DriveFront DriveType = "front"
	DriveRear  DriveType = "rear"
	DriveAll   DriveType = "all"
)

// named fallbacks for everything the marketplace can leave out of a
// listing, tests assert on these
const (
	DefaultEngineName        = "Unknown"
	DefaultEnginePower       = 0
	DefaultFuel              = "бензин"
	DefaultTransmission      = TransmissionAutomatic
	DefaultTransmissionTitle = "Unknown"
	DefaultDrive             = DriveFront
	DefaultMileage           = 0
	DefaultPrice             = 0
)

// the marker drom prints after an engine's horsepower figure
const powerMarker = "л.с.)"

var fuelVocabulary = map[string]string{
	"бензин": "бензин",
	"дизель": "дизель",
	"электро": "электро",
}

var transmissionVocabulary = map[string]TransmissionType{
	"АКПП":     TransmissionAutomatic,
	"механика": TransmissionManual,
}

// NormalizedListing is a candidate mapped onto the fixed vehicle schema,
// every field valid, defaults applied.
type NormalizedListing struct {
	Title             string
	Year              int
	EngineName        string
	EnginePower       int
	FuelType          string
	TransmissionType  TransmissionType
	TransmissionTitle string
	Drive             DriveType
	Mileage           int
	Price             int
}

// Normalize maps one raw candidate onto the fixed schema. It is total:
// any absent or unparsable spec resolves to its documented default,
// never to an error.
func Normalize(c models.ListingCandidate) NormalizedListing {
	n := NormalizedListing{
		Title:             c.Title,
		Year:              c.Year,
		EngineName:        DefaultEngineName,
		EnginePower:       DefaultEnginePower,
		FuelType:          DefaultFuel,
		TransmissionType:  DefaultTransmission,
		TransmissionTitle: DefaultTransmissionTitle,
		Drive:             DefaultDrive,
		Mileage:           DefaultMileage,
	}

	if len(c.Specs) > 0 {
		n.EngineName, n.EnginePower = parseEngine(c.Specs[0])
	}
	if len(c.Specs) > 1 {
		if fuel, ok := fuelVocabulary[c.Specs[1]]; ok {
			n.FuelType = fuel
		}
	}
	if len(c.Specs) > 2 {
		if transmission, ok := transmissionVocabulary[c.Specs[2]]; ok {
			n.TransmissionType = transmission
		}
		// display title is carried verbatim, even for unmapped types
		n.TransmissionTitle = c.Specs[2]
	}
	if len(c.Specs) > 3 {
		n.Drive = parseDrive(c.Specs[3])
	}
	if len(c.Specs) > 4 {
		n.Mileage = textutil.DigitFilter(c.Specs[4])
	}
	n.Price = textutil.DigitFilter(c.PriceText)

	return n
}

// parseEngine splits "2.0 (150 л.с.)" into the engine name and its
// horsepower. No parenthesis means no power figure.
func parseEngine(spec string) (string, int) {
	open := strings.Index(spec, "(")
	if open < 0 {
		return strings.TrimSpace(spec), DefaultEnginePower
	}

	name := strings.TrimSpace(spec[:open])
	rest := spec[open+1:]
	if marker := strings.Index(rest, powerMarker); marker >= 0 {
		rest = rest[:marker]
	}
	return name, textutil.DigitFilter(rest)
}

func parseDrive(spec string) DriveType {
	switch {
	case textutil.MatchName(spec, []string{"передн"}):
		return DriveFront
	case textutil.MatchName(spec, []string{"задн"}):
		return DriveRear
	case textutil.MatchName(spec, []string{"полн", "4wd", "awd"}):
		return DriveAll
	default:
		return DefaultDrive
	}
}
