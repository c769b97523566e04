package packages

const (
	DefaultPageSize         = 50
	DefaultAvailabilityDays = 60

	dateLayout = "2006-01-02"
)

// ListFilter narrows a catalog page. Blank fields match everything.
type ListFilter struct {
	Query    string
	Category string
}

// AvailabilityInput is the caller's availability request. Blank dates take
// their defaults: today (UTC) for Start and Start+60 days for End.
type AvailabilityInput struct {
	Start          string
	End            string
	Currency       string
	IncludeSoldOut bool
}
