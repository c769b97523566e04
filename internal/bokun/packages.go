package bokun

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"tours-be/internal/logger"

	"go.uber.org/zap"
)

// ----------------- ListPackages -----------------

// ListPackages fetches one page of the provider catalog. page is floored at
// zero and pageSize clamped to 1..100.
func (c *Client) ListPackages(ctx context.Context, page, pageSize int) ([]PackageSummary, error) {
	if err := c.ensureConfigured(); err != nil {
		return nil, err
	}

	if page < 0 {
		page = 0
	}
	if pageSize < minPageSize {
		pageSize = minPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	body := map[string]int{
		"page":     page,
		"pageSize": pageSize,
	}

	raw, err := c.send(ctx, "search", http.MethodPost, "/activity.json/search", body)
	if err != nil {
		return nil, err
	}

	root, err := ParseValue(raw)
	if err != nil {
		return nil, err
	}

	items := ParsePackages(root)
	logger.FromCtx(ctx).Debug("parsed provider packages",
		zap.Int("page", page),
		zap.Int("page_size", pageSize),
		zap.Int("count", len(items)),
	)
	return items, nil
}

// itemsArray finds the record array of a list response.
func itemsArray(root Value) []Value {
	if root.Kind() == KindArray {
		return root.Items()
	}
	if root.Kind() != KindObject {
		return nil
	}
	for _, key := range []string{"items", "activities", "results"} {
		if member := root.Get(key); member.Kind() == KindArray {
			return member.Items()
		}
	}
	return nil
}

// ParsePackages maps a list response onto PackageSummary, dropping records
// without an id or title.
func ParsePackages(root Value) []PackageSummary {
	records := itemsArray(root)
	list := make([]PackageSummary, 0, len(records))

	for _, item := range records {
		id := firstIdentifier(item, "id", "activityId", "productId")
		title, _ := firstString(item, "title", "name")
		if strings.TrimSpace(id) == "" || strings.TrimSpace(title) == "" {
			continue
		}

		price, _ := firstDecimal(item, "priceFrom", "adultPrice", "price")
		rating, _ := firstDecimal(item, "rating", "averageRating")

		list = append(list, PackageSummary{
			ID:    id,
			Title: title,
			Category: stringOr(DefaultCategory,
				nested(item, "category", "name"),
				nested(item, "activityCategory", "name"),
				candidates(item, "category"),
			),
			Duration:  stringOr("", candidates(item, "duration", "durationType")),
			PriceFrom: price,
			Rating:    rating,
			ImageURL: stringOr("",
				candidates(item, "coverImageUrl", "imageUrl"),
				nested(item, "images", "0", "url"),
			),
			Summary: stringOr("", candidates(item, "shortDescription", "description", "excerpt")),
		})
	}

	return list
}

// ----------------- GetPackageDetails -----------------

// GetPackageDetails returns nil, nil when the provider does not know id.
func (c *Client) GetPackageDetails(ctx context.Context, id string) (*PackageDetails, error) {
	details, _, err := c.fetchDetails(ctx, id, "")
	return details, err
}

// pricingMeta is the part of a details response availability needs.
type pricingMeta struct {
	DefaultRateID     int64
	PricingCategories []PricingCategory
}

func (c *Client) fetchDetails(ctx context.Context, id, currency string) (*PackageDetails, *pricingMeta, error) {
	if err := c.ensureConfigured(); err != nil {
		return nil, nil, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil, nil
	}

	relativePath := "/activity.json/" + url.PathEscape(id)
	if currency != "" {
		relativePath += "?currency=" + url.QueryEscape(currency)
	}

	raw, err := c.send(ctx, "details", http.MethodGet, relativePath, nil)
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) && pe.StatusCode == http.StatusNotFound {
			logger.FromCtx(ctx).Info("package not found at provider", zap.String("package_id", id))
			return nil, nil, nil
		}
		return nil, nil, err
	}

	root, err := ParseValue(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("package %s: %w", id, err)
	}

	details := ParseDetails(root)
	if details == nil {
		return nil, nil, nil
	}
	meta := parsePricingMeta(root)
	return details, &meta, nil
}

// ParseDetails maps a details response, or returns nil when the record has
// no id or title.
func ParseDetails(item Value) *PackageDetails {
	if item.Kind() != KindObject {
		return nil
	}

	id := firstIdentifier(item, "id", "activityId", "productId")
	title, _ := firstString(item, "title", "name")
	if strings.TrimSpace(id) == "" || strings.TrimSpace(title) == "" {
		return nil
	}

	tags := stringItems(item.Get("activityCategories"))

	category := stringOr("",
		nested(item, "category", "name"),
		nested(item, "activityCategory", "name"),
		candidates(item, "category"),
	)
	if category == "" {
		if len(tags) > 0 {
			category = tags[0]
		} else {
			category = DefaultCategory
		}
	}

	price, ok := firstDecimal(item, "priceFrom", "adultPrice", "price")
	if !ok {
		price, _ = item.Path("nextDefaultPriceMoney", "amount").Decimal()
	}
	rating, _ := firstDecimal(item, "rating", "averageRating", "reviewRating")

	summary := CleanText(stringOr("", candidates(item, "excerpt", "shortDescription", "summary")))
	description := CleanText(stringOr("", candidates(item, "description", "longDescription")))
	included := CleanText(stringOr("", candidates(item, "included")))

	difficulty := stringOr("", candidates(item, "difficultyLevel", "difficulty"))
	if strings.TrimSpace(difficulty) == "" {
		difficulty = DefaultDifficulty
	}

	location := stringOr("",
		nested(item, "googlePlace", "name"),
		nested(item, "locationCode", "location"),
		nested(item, "startPoints", "0", "address", "city"),
		candidates(item, "location"),
	)
	if strings.TrimSpace(location) == "" {
		location = DefaultLocation
	}

	cancellation := CleanText(stringOr("",
		nested(item, "cancellationPolicy", "title"),
		candidates(item, "cancellationPolicy"),
	))
	if cancellation == "" {
		cancellation = DefaultCancellationPolicy
	}

	return &PackageDetails{
		ID:                 id,
		Title:              title,
		Category:           category,
		Duration:           stringOr("", candidates(item, "durationText", "duration", "durationType")),
		Price:              price,
		Rating:             rating,
		ReviewCount:        firstInt64(item, "reviewCount", "numberOfReviews"),
		Difficulty:         difficulty,
		Location:           location,
		Summary:            summary,
		Description:        description,
		Included:           included,
		Requirements:       CleanText(stringOr("", candidates(item, "requirements"))),
		Attention:          CleanText(stringOr("", candidates(item, "attention"))),
		CancellationPolicy: cancellation,
		Highlights:         DeriveHighlights(tags, summary, description),
		Includes:           DeriveIncludes(included),
		Itinerary:          parseItinerary(item.Get("agendaItems"), summary),
		Gallery:            parseGallery(item),
	}
}

func parseItinerary(agenda Value, summary string) []ItineraryStop {
	items := agenda.Items()
	stops := make([]ItineraryStop, 0, len(items))

	for i, entry := range items {
		title := strings.TrimSpace(stringOr("", candidates(entry, "title", "name")))
		if title == "" {
			title = fmt.Sprintf("Stop %d", i+1)
		}
		stops = append(stops, ItineraryStop{
			Time:   itineraryTime(i),
			Title:  title,
			Detail: CleanText(stringOr("", candidates(entry, "body", "description", "excerpt"))),
		})
	}

	if len(stops) == 0 {
		detail := summary
		if detail == "" {
			detail = DefaultItineraryDetail
		}
		stops = append(stops, ItineraryStop{
			Time:   itineraryTime(0),
			Title:  DefaultItineraryTitle,
			Detail: detail,
		})
	}
	return stops
}

func parseGallery(item Value) []string {
	var urls []string

	primary := stringOr("",
		nested(item, "keyPhoto", "originalUrl"),
		nested(item, "keyPhoto", "url"),
		candidates(item, "coverImageUrl", "imageUrl"),
	)
	if strings.TrimSpace(primary) != "" {
		urls = append(urls, strings.TrimSpace(primary))
	}

	for _, photo := range item.Get("photos").Items() {
		u := strings.TrimSpace(stringOr("", candidates(photo, "originalUrl", "url")))
		if u != "" {
			urls = append(urls, u)
		}
	}

	return dedupeFold(urls, maxGallery)
}

func parsePricingMeta(item Value) pricingMeta {
	meta := pricingMeta{DefaultRateID: firstInt64(item, "defaultRateId")}

	for _, entry := range item.Get("pricingCategories").Items() {
		id := firstInt64(entry, "id")
		if id <= 0 {
			continue
		}
		meta.PricingCategories = append(meta.PricingCategories, PricingCategory{
			ID:           id,
			Title:        stringOr("", candidates(entry, "title", "fullTitle", "name")),
			CategoryType: stringOr("", candidates(entry, "ticketCategory", "type")),
			IsDefault:    firstBool(entry, "defaultCategory", "isDefault"),
		})
	}
	return meta
}

// stringItems returns the non-blank string elements of an array.
func stringItems(v Value) []string {
	var out []string
	for _, entry := range v.Items() {
		if s, ok := entry.Text(); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
