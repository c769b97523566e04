package bokun

// Fallback values used when the provider omits a field.
const (
	DefaultCategory           = "Uncategorized"
	DefaultDifficulty         = "EASY"
	DefaultLocation           = "Victoria Falls"
	DefaultCancellationPolicy = "Contact us for cancellation terms."
	DefaultHighlight          = "Unforgettable experience"
	DefaultIncludedItem       = "Details provided with your confirmation"
	DefaultItineraryTitle     = "Tour start"
	DefaultItineraryDetail    = "Meet your guide at the starting point for a briefing before the experience begins."
	DefaultCurrency           = "USD"
	DefaultCheckoutOption     = "CUSTOMER_FULL_PAYMENT"
	DefaultPaymentMethod      = "RESERVE_FOR_EXTERNAL_PAYMENT"
	DefaultPersonalIDNumber   = "N/A"
	SubmittedMessage          = "Booking submitted."
)

// MaxSeatsPerBooking caps the passenger entries of one activity booking.
const MaxSeatsPerBooking = 50

const (
	maxHighlights  = 6
	maxIncludes    = 8
	maxGallery     = 8
	itineraryStart = 9 // first synthetic agenda slot, 09:00
	minPageSize    = 1
	maxPageSize    = 100
)
