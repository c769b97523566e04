package bokun

type PackageSummary struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Duration  string  `json:"duration"`
	PriceFrom float64 `json:"priceFrom"`
	Rating    float64 `json:"rating"`
	ImageURL  string  `json:"imageUrl"`
	Summary   string  `json:"summary"`
}

type PackageDetails struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Category           string          `json:"category"`
	Duration           string          `json:"duration"`
	Price              float64         `json:"price"`
	Rating             float64         `json:"rating"`
	ReviewCount        int64           `json:"reviewCount"`
	Difficulty         string          `json:"difficulty"`
	Location           string          `json:"location"`
	Summary            string          `json:"summary"`
	Description        string          `json:"description"`
	Included           string          `json:"included"`
	Requirements       string          `json:"requirements"`
	Attention          string          `json:"attention"`
	CancellationPolicy string          `json:"cancellationPolicy"`
	Highlights         []string        `json:"highlights"`
	Includes           []string        `json:"includes"`
	Itinerary          []ItineraryStop `json:"itinerary"`
	Gallery            []string        `json:"gallery"`
}

type ItineraryStop struct {
	Time   string `json:"time"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type PricingCategory struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	CategoryType string `json:"categoryType"`
	IsDefault    bool   `json:"isDefault"`
}

type CategoryPrice struct {
	PricingCategoryID int64   `json:"pricingCategoryId"`
	Amount            float64 `json:"amount"`
}

type AvailabilitySlot struct {
	Date              string          `json:"date"`
	StartTime         string          `json:"startTime"`
	StartTimeID       int64           `json:"startTimeId"`
	RateID            int64           `json:"rateId"`
	AvailabilityCount int64           `json:"availabilityCount"`
	SoldOut           bool            `json:"soldOut"`
	PricesByCategory  []CategoryPrice `json:"pricesByCategory"`
}

type PackageAvailability struct {
	PackageID         string             `json:"packageId"`
	Currency          string             `json:"currency"`
	DefaultRateID     int64              `json:"defaultRateId"`
	PricingCategories []PricingCategory  `json:"pricingCategories"`
	Slots             []AvailabilitySlot `json:"slots"`
}

// AvailabilityQuery bounds an availability lookup. Dates are YYYY-MM-DD.
type AvailabilityQuery struct {
	Start          string
	End            string
	Currency       string
	IncludeSoldOut bool
}

type PassengerSelection struct {
	PricingCategoryID int64 `json:"pricingCategoryId"`
	Quantity          int   `json:"quantity"`
}

type CheckoutSelection struct {
	PackageID   string               `json:"packageId"`
	Date        string               `json:"date"`
	StartTimeID int64                `json:"startTimeId"`
	RateID      int64                `json:"rateId"`
	Currency    string               `json:"currency"`
	Passengers  []PassengerSelection `json:"passengers"`
}

type QuestionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Question struct {
	QuestionID        string           `json:"questionId"`
	Label             string           `json:"label"`
	Required          bool             `json:"required"`
	DataType          string           `json:"dataType"`
	DataFormat        string           `json:"dataFormat"`
	SelectFromOptions bool             `json:"selectFromOptions"`
	SelectMultiple    bool             `json:"selectMultiple"`
	Options           []QuestionOption `json:"options"`
}

type CheckoutOption struct {
	Type           string     `json:"type"`
	Label          string     `json:"label"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	PartialPayment bool       `json:"partialPayment"`
	PaymentMethods []string   `json:"paymentMethods"`
	Questions      []Question `json:"questions"`
}

type CheckoutOptionsResult struct {
	Options              []CheckoutOption `json:"options"`
	MainContactQuestions []Question       `json:"mainContactQuestions"`
}

type ContactDetails struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	PersonalIDNumber string `json:"personalIdNumber"`
	Nationality      string `json:"nationality"`
	Title            string `json:"title"`
	Gender           string `json:"gender"`
}

// Answer is a reply to a provider question, sent as {questionId, values}.
type Answer struct {
	QuestionID string   `json:"questionId"`
	Values     []string `json:"values"`
}

type CheckoutSubmitRequest struct {
	Selection      CheckoutSelection `json:"selection"`
	Contact        ContactDetails    `json:"contact"`
	CheckoutOption string            `json:"checkoutOption"`
	PaymentMethod  string            `json:"paymentMethod"`
	Answers        []Answer          `json:"answers"`
}

type CheckoutSubmitResult struct {
	Status           string `json:"status"`
	ConfirmationCode string `json:"confirmationCode"`
	BookingID        string `json:"bookingId"`
	RedirectURL      string `json:"redirectUrl"`
	Message          string `json:"message"`
}
