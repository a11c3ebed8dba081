package app

import (
	"strconv"
	"strings"
	"time"

	"shiny_stats/internal/domain"
)

/********** payload -> record mapping **********/

// The provider responses arrive as loose JSON maps. Everything below coerces
// them into validated records; anything without a usable id or rating is
// dropped by the caller.

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// lookupFloat returns the number at path, tolerating string-encoded floats.
func lookupFloat(m map[string]any, path string) (float64, bool) {
	switch v := lookupAny(m, path).(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// mapBusiness coerces one search hit into a Business. The bool is false when
// the hit has no id or no parseable rating.
func mapBusiness(m map[string]any) (domain.Business, bool) {
	id := lookupStr(m, "id")
	if id == "" {
		return domain.Business{}, false
	}
	rating, ok := lookupFloat(m, "rating")
	if !ok {
		return domain.Business{}, false
	}

	b := domain.Business{
		ID:      id,
		Name:    lookupStr(m, "name"),
		City:    optString(lookupStr(m, "location.city")),
		State:   optString(lookupStr(m, "location.state")),
		ZipCode: optString(lookupStr(m, "location.zip_code")),
		Phone:   optString(lookupStr(m, "display_phone")),
		Rating:  rating,
		Price:   optString(lookupStr(m, "price")),
		URL:     optString(lookupStr(m, "url")),
	}

	if lines, ok := lookupAny(m, "location.display_address").([]any); ok {
		parts := make([]string, 0, len(lines))
		for _, l := range lines {
			if s, ok := l.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		b.Address = optString(strings.Join(parts, " "))
	}
	if cats, ok := lookupAny(m, "categories").([]any); ok {
		for _, c := range cats {
			if cm, ok := c.(map[string]any); ok {
				if title := lookupStr(cm, "title"); title != "" {
					b.Categories = append(b.Categories, title)
				}
			}
		}
	}
	if n, ok := lookupFloat(m, "review_count"); ok {
		b.ReviewCount = int(n)
	}
	if lat, ok := lookupFloat(m, "coordinates.latitude"); ok {
		b.Lat = &lat
	}
	if lon, ok := lookupFloat(m, "coordinates.longitude"); ok {
		b.Lon = &lon
	}
	return b, true
}

// mapReview coerces one review payload. The bool is false without an id or a
// parseable rating; a missing rating would otherwise corrupt the training
// labels downstream.
func mapReview(businessID string, m map[string]any) (domain.Review, bool) {
	id := lookupStr(m, "id")
	if id == "" {
		return domain.Review{}, false
	}
	rating, ok := lookupFloat(m, "rating")
	if !ok {
		return domain.Review{}, false
	}

	r := domain.Review{
		ID:         id,
		BusinessID: businessID,
		UserID:     optString(lookupStr(m, "user.id")),
		UserName:   optString(lookupStr(m, "user.name")),
		Rating:     rating,
		Text:       lookupStr(m, "text"),
		URL:        optString(lookupStr(m, "url")),
	}
	if ts := lookupStr(m, "time_created"); ts != "" {
		if t, err := time.Parse("2006-01-02 15:04:05", ts); err == nil {
			r.Created = &t
		}
	}
	return r, true
}
