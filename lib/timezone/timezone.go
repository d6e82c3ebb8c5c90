package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Almaty")
	if err != nil {
		panic(err)
	}
}

// force timestamps into the marketplace's market timezone so that
// created_at dates group correctly regardless of where the ingest
// job happens to run
func Now() time.Time {
	return time.Now().In(Location)
}
