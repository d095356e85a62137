package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		panic(err)
	}
}

// force the portal's timezone regardless of where the scraper runs,
// schedule dates are interpreted with <time.Time>.Year()/Month()/Day()
// and would shift by a day on servers in other regions
func Now() time.Time {
	return time.Now().In(Location)
}
