package bokun

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"tours-be/internal/logger"

	"go.uber.org/zap"
)

// epochMillisThreshold separates second-based from millisecond-based epochs.
const epochMillisThreshold = 99_999_999_999

// ----------------- GetAvailability -----------------

// GetAvailability combines the details call (pricing categories and default
// rate) with the availability call. It returns nil, nil when the package is
// unknown.
func (c *Client) GetAvailability(ctx context.Context, id string, q AvailabilityQuery) (*PackageAvailability, error) {
	if err := c.ensureConfigured(); err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("package_id", id),
		zap.String("start", q.Start),
		zap.String("end", q.End),
	)

	currency := strings.ToUpper(strings.TrimSpace(q.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	details, meta, err := c.fetchDetails(ctx, id, currency)
	if err != nil {
		return nil, err
	}
	if details == nil {
		log.Info("availability requested for unknown package")
		return nil, nil
	}

	query := url.Values{}
	query.Set("start", q.Start)
	query.Set("end", q.End)
	query.Set("currency", currency)
	query.Set("includeSoldOut", strconv.FormatBool(q.IncludeSoldOut))

	relativePath := fmt.Sprintf("/activity.json/%s/availabilities?%s", url.PathEscape(details.ID), encodeOrdered(query, "start", "end", "currency", "includeSoldOut"))

	raw, err := c.send(ctx, "availability", http.MethodGet, relativePath, nil)
	if err != nil {
		return nil, err
	}

	root, err := ParseValue(raw)
	if err != nil {
		return nil, fmt.Errorf("availability for %s: %w", details.ID, err)
	}

	slots := ParseSlots(root, meta.DefaultRateID)
	log.Debug("parsed availability", zap.Int("slots", len(slots)))

	return &PackageAvailability{
		PackageID:         details.ID,
		Currency:          currency,
		DefaultRateID:     meta.DefaultRateID,
		PricingCategories: meta.PricingCategories,
		Slots:             slots,
	}, nil
}

// ParseSlots maps an availability response to slots ordered by date then
// start time. packageRateID wins over any rate found on the slots; when it is
// not positive the first slot rate takes its place.
func ParseSlots(root Value, packageRateID int64) []AvailabilitySlot {
	records := root.Items()
	if root.Kind() == KindObject {
		records = itemsArray(root)
	}

	if packageRateID <= 0 {
		packageRateID = firstSlotRateID(records)
	}

	slots := make([]AvailabilitySlot, 0, len(records))
	for _, entry := range records {
		startTimeID := firstInt64(entry, "startTimeId")
		if startTimeID <= 0 {
			continue
		}

		rateID := resolveRateID(entry, packageRateID)
		slots = append(slots, AvailabilitySlot{
			Date:              slotDate(entry.Get("date")),
			StartTime:         stringOr("", candidates(entry, "startTime")),
			StartTimeID:       startTimeID,
			RateID:            rateID,
			AvailabilityCount: firstInt64(entry, "availabilityCount", "availability"),
			SoldOut:           firstBool(entry, "soldOut"),
			PricesByCategory:  categoryPrices(entry.Get("pricesByRate"), rateID),
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].StartTime < slots[j].StartTime
	})
	return slots
}

// EpochDate formats an epoch as a UTC calendar date. Values above
// 99,999,999,999 are milliseconds, anything else seconds.
func EpochDate(epoch int64) string {
	var t time.Time
	if epoch > epochMillisThreshold {
		t = time.UnixMilli(epoch)
	} else {
		t = time.Unix(epoch, 0)
	}
	return t.UTC().Format("2006-01-02")
}

func slotDate(v Value) string {
	if s, ok := v.Text(); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return EpochDate(n)
		}
		s = strings.TrimSpace(s)
		if len(s) >= 10 {
			return s[:10]
		}
		return s
	}
	if n, ok := v.Int64(); ok {
		return EpochDate(n)
	}
	if f, ok := v.Decimal(); ok {
		return EpochDate(int64(f))
	}
	return ""
}

// firstSlotRateID returns the first positive rate id carried by any slot.
// It stands in for a missing package default so all slots share one rate.
func firstSlotRateID(records []Value) int64 {
	for _, entry := range records {
		if firstInt64(entry, "startTimeId") <= 0 {
			continue
		}
		for _, rate := range entry.Get("rates").Items() {
			if id := firstInt64(rate, "id"); id > 0 {
				return id
			}
		}
	}
	return 0
}

func resolveRateID(slot Value, packageRateID int64) int64 {
	if packageRateID > 0 {
		return packageRateID
	}
	for _, rate := range slot.Get("rates").Items() {
		if id := firstInt64(rate, "id"); id > 0 {
			return id
		}
	}
	if id := firstInt64(slot, "defaultRateId"); id > 0 {
		return id
	}
	return 0
}

func categoryPrices(table Value, rateID int64) []CategoryPrice {
	entries := table.Items()
	if len(entries) == 0 {
		return []CategoryPrice{}
	}

	selected := entries[0]
	for _, entry := range entries {
		if firstInt64(entry, "activityRateId", "rateId") == rateID {
			selected = entry
			break
		}
	}

	units := selected.Get("pricePerCategoryUnit").Items()
	prices := make([]CategoryPrice, 0, len(units))
	for _, unit := range units {
		categoryID := firstInt64(unit, "id", "pricingCategoryId")
		if categoryID <= 0 {
			continue
		}
		amount, ok := unit.Path("amount", "amount").Decimal()
		if !ok {
			amount, _ = unit.Get("amount").Decimal()
		}
		prices = append(prices, CategoryPrice{PricingCategoryID: categoryID, Amount: amount})
	}
	return prices
}

// encodeOrdered encodes query keys in the given order so the signed path is
// predictable.
func encodeOrdered(values url.Values, keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(values.Get(key)))
	}
	return strings.Join(parts, "&")
}
