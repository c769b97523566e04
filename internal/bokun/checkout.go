package bokun

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tours-be/internal/logger"

	"go.uber.org/zap"
)

const (
	phoneQuestionID = "phoneNumber"

	// Both markers must appear in a failed submit body to trigger the retry.
	phoneMarkerQuestion = `"questionid":"phonenumber"`
	phoneMarkerMessage  = "not a valid phone number"
)

// ---------- payload ----------

type passengerPayload struct {
	PricingCategoryID int64 `json:"pricingCategoryId"`
}

type activityBookingPayload struct {
	ActivityID  any                `json:"activityId"`
	Date        string             `json:"date"`
	StartTimeID int64              `json:"startTimeId"`
	RateID      int64              `json:"rateId,omitempty"`
	Passengers  []passengerPayload `json:"passengers"`
}

type bookingRequestPayload struct {
	Currency         string                   `json:"currency"`
	ActivityBookings []activityBookingPayload `json:"activityBookings"`
}

type directBookingPayload struct {
	MainContactDetails []Answer                 `json:"mainContactDetails"`
	ActivityBookings   []activityBookingPayload `json:"activityBookings"`
}

// submitPayload is built once per attempt and never mutated afterwards.
type submitPayload struct {
	CheckoutOption string               `json:"checkoutOption"`
	PaymentMethod  string               `json:"paymentMethod"`
	Currency       string               `json:"currency"`
	Source         string               `json:"source"`
	DirectBooking  directBookingPayload `json:"directBooking"`
}

// buildActivityBooking turns a selection into the provider's booking shape.
// Seats beyond MaxSeatsPerBooking are dropped.
func buildActivityBooking(sel CheckoutSelection) activityBookingPayload {
	var activityID any = strings.TrimSpace(sel.PackageID)
	if n, err := strconv.ParseInt(strings.TrimSpace(sel.PackageID), 10, 64); err == nil {
		activityID = n
	}

	passengers := make([]passengerPayload, 0)
	for _, p := range sel.Passengers {
		if p.PricingCategoryID <= 0 || p.Quantity <= 0 {
			continue
		}
		for i := 0; i < p.Quantity && len(passengers) < MaxSeatsPerBooking; i++ {
			passengers = append(passengers, passengerPayload{PricingCategoryID: p.PricingCategoryID})
		}
	}

	booking := activityBookingPayload{
		ActivityID:  activityID,
		Date:        strings.TrimSpace(sel.Date),
		StartTimeID: sel.StartTimeID,
		Passengers:  passengers,
	}
	if sel.RateID > 0 {
		booking.RateID = sel.RateID
	}
	return booking
}

func currencyOrDefault(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return DefaultCurrency
	}
	return currency
}

// mainContactAnswers builds one answer per non-blank contact field. The
// phone number is never sent: the provider's format check is stricter than
// anything the booking form can guarantee.
func mainContactAnswers(contact ContactDetails) []Answer {
	personalID := contact.PersonalIDNumber
	if strings.TrimSpace(personalID) == "" {
		personalID = DefaultPersonalIDNumber
	}

	fields := []struct {
		id    string
		value string
	}{
		{"firstName", contact.FirstName},
		{"lastName", contact.LastName},
		{"email", contact.Email},
		{"personalIdNumber", personalID},
		{"nationality", contact.Nationality},
		{"title", contact.Title},
		{"gender", contact.Gender},
	}

	answers := make([]Answer, 0, len(fields))
	for _, f := range fields {
		value := strings.TrimSpace(f.value)
		if value == "" {
			continue
		}
		answers = append(answers, Answer{QuestionID: f.id, Values: []string{value}})
	}
	return answers
}

func buildSubmitPayload(req CheckoutSubmitRequest) submitPayload {
	checkoutOption := strings.TrimSpace(req.CheckoutOption)
	if checkoutOption == "" {
		checkoutOption = DefaultCheckoutOption
	}
	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	answers := mainContactAnswers(req.Contact)
	for _, a := range req.Answers {
		if strings.TrimSpace(a.QuestionID) == "" {
			continue
		}
		answers = append(answers, Answer{QuestionID: a.QuestionID, Values: append([]string(nil), a.Values...)})
	}

	return submitPayload{
		CheckoutOption: checkoutOption,
		PaymentMethod:  paymentMethod,
		Currency:       currencyOrDefault(req.Selection.Currency),
		Source:         "DIRECT_REQUEST",
		DirectBooking: directBookingPayload{
			MainContactDetails: answers,
			ActivityBookings:   []activityBookingPayload{buildActivityBooking(req.Selection)},
		},
	}
}

// withoutPhoneAnswers returns a copy of p with every phone answer removed.
func (p submitPayload) withoutPhoneAnswers() submitPayload {
	kept := make([]Answer, 0, len(p.DirectBooking.MainContactDetails))
	for _, a := range p.DirectBooking.MainContactDetails {
		if strings.EqualFold(a.QuestionID, phoneQuestionID) {
			continue
		}
		kept = append(kept, a)
	}

	next := p
	next.DirectBooking = directBookingPayload{
		MainContactDetails: kept,
		ActivityBookings:   append([]activityBookingPayload(nil), p.DirectBooking.ActivityBookings...),
	}
	return next
}

// IsPhoneValidationError reports whether a provider failure is the phone
// number format rejection. The match is purely textual.
func IsPhoneValidationError(err error) bool {
	pe, ok := AsProviderError(err)
	if !ok {
		return false
	}
	body := strings.ToLower(pe.RawBody())
	return strings.Contains(body, phoneMarkerQuestion) && strings.Contains(body, phoneMarkerMessage)
}

// ----------------- GetCheckoutOptions -----------------

func (c *Client) GetCheckoutOptions(ctx context.Context, sel CheckoutSelection) (*CheckoutOptionsResult, error) {
	if err := c.ensureConfigured(); err != nil {
		return nil, err
	}

	payload := bookingRequestPayload{
		Currency:         currencyOrDefault(sel.Currency),
		ActivityBookings: []activityBookingPayload{buildActivityBooking(sel)},
	}

	raw, err := c.send(ctx, "checkout_options", http.MethodPost, "/checkout.json/options/booking-request", payload)
	if err != nil {
		return nil, err
	}

	root, err := ParseValue(raw)
	if err != nil {
		return nil, fmt.Errorf("checkout options: %w", err)
	}
	return ParseCheckoutOptions(root), nil
}

// ParseCheckoutOptions maps the options response.
func ParseCheckoutOptions(root Value) *CheckoutOptionsResult {
	result := &CheckoutOptionsResult{
		Options:              []CheckoutOption{},
		MainContactQuestions: []Question{},
	}

	for _, entry := range root.Get("options").Items() {
		amount, _ := firstDecimal(entry, "amount")
		methods := stringItems(entry.Get("paymentMethods"))
		if len(methods) == 0 {
			methods = stringItems(entry.Get("allowedPaymentMethods"))
		}
		if methods == nil {
			methods = []string{}
		}

		result.Options = append(result.Options, CheckoutOption{
			Type:           stringOr("", candidates(entry, "type")),
			Label:          stringOr("", candidates(entry, "label", "title")),
			Amount:         amount,
			Currency:       stringOr("", candidates(entry, "currency")),
			PartialPayment: firstBool(entry, "partialPayment"),
			PaymentMethods: methods,
			Questions:      parseQuestions(entry.Get("questions")),
		})
	}

	mainContact := root.Path("questions", "mainContactDetails")
	if mainContact.Kind() != KindArray {
		mainContact = root.Get("mainContactQuestions")
	}
	result.MainContactQuestions = parseQuestions(mainContact)

	return result
}

func parseQuestions(v Value) []Question {
	items := v.Items()
	questions := make([]Question, 0, len(items))
	for _, entry := range items {
		questionID := stringOr("", candidates(entry, "questionId", "id"))
		if strings.TrimSpace(questionID) == "" {
			continue
		}

		var options []QuestionOption
		for _, opt := range entry.Get("answerOptions").Items() {
			options = append(options, parseQuestionOption(opt))
		}
		for _, opt := range entry.Get("options").Items() {
			options = append(options, parseQuestionOption(opt))
		}
		if options == nil {
			options = []QuestionOption{}
		}

		questions = append(questions, Question{
			QuestionID:        questionID,
			Label:             stringOr("", candidates(entry, "label", "title")),
			Required:          firstBool(entry, "required"),
			DataType:          stringOr("", candidates(entry, "dataType")),
			DataFormat:        stringOr("", candidates(entry, "dataFormat")),
			SelectFromOptions: firstBool(entry, "selectFromOptions"),
			SelectMultiple:    firstBool(entry, "selectMultiple"),
			Options:           options,
		})
	}
	return questions
}

func parseQuestionOption(opt Value) QuestionOption {
	if s, ok := opt.Text(); ok {
		return QuestionOption{Value: s, Label: s}
	}
	value := stringOr("", candidates(opt, "value", "id"))
	return QuestionOption{
		Value: value,
		Label: stringOr(value, candidates(opt, "label", "title")),
	}
}

// ----------------- SubmitCheckout -----------------

// SubmitCheckout posts the booking. A failure caused by the provider's
// phone-number validation is retried exactly once without phone answers;
// the second outcome is final either way.
func (c *Client) SubmitCheckout(ctx context.Context, req CheckoutSubmitRequest) (*CheckoutSubmitResult, error) {
	if err := c.ensureConfigured(); err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("package_id", req.Selection.PackageID),
		zap.String("date", req.Selection.Date),
		zap.String("contact_email", logger.MaskEmail(req.Contact.Email)),
	)

	payload := buildSubmitPayload(req)

	raw, err := c.send(ctx, "checkout_submit", http.MethodPost, "/checkout.json/submit", payload)
	if err != nil {
		if !IsPhoneValidationError(err) {
			return nil, err
		}

		log.Warn("provider rejected phone number, retrying without phone answer")
		c.metrics.IncPhoneRetry()

		raw, err = c.send(ctx, "checkout_submit", http.MethodPost, "/checkout.json/submit", payload.withoutPhoneAnswers())
		if err != nil {
			return nil, err
		}
	}

	root, err := ParseValue(raw)
	if err != nil {
		return nil, fmt.Errorf("checkout submit: %w", err)
	}

	result := ParseSubmitResult(root)
	log.Info("checkout submitted",
		zap.String("status", result.Status),
		zap.String("confirmation_code", result.ConfirmationCode),
	)
	return result, nil
}

// ParseSubmitResult maps the submit response.
func ParseSubmitResult(root Value) *CheckoutSubmitResult {
	booking := root.Get("booking")

	result := &CheckoutSubmitResult{
		Status:           stringOr("", candidates(booking, "status")),
		ConfirmationCode: stringOr("", candidates(booking, "confirmationCode")),
		BookingID:        firstIdentifier(booking, "bookingId"),
		RedirectURL:      stringOr("", nested(root, "redirectRequest", "url")),
	}

	if strings.TrimSpace(result.ConfirmationCode) != "" {
		result.Message = fmt.Sprintf("Booking submitted. Confirmation code: %s.", result.ConfirmationCode)
	} else {
		result.Message = SubmittedMessage
	}
	return result
}
