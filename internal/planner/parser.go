package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	hotelsKeys     = []string{"hotels", "hoteloptions", "hotel", "accommodations", "accommodation"}
	itineraryKeys  = []string{"itinerary", "days", "dailyitinerary", "dailyplans"}
	dayLabelKeys   = []string{"day", "daylabel", "label", "daynumber", "title"}
	activitiesKeys = []string{"plan", "activities", "schedule", "places", "items"}

	dayNumberRe  = regexp.MustCompile(`\d+`)
	leadNumberRe = regexp.MustCompile(`-?\d+(\.\d+)?`)

	errNotObject = errors.New("not a json object")
)

// Parse decodes a model response into a ParsedPlan. The text is decoded strictly first;
// if that fails, one fallback pass strips markdown fences and decodes the span between
// the first '{' and the last '}'. Missing sections become empty slices and elements
// that are not objects are dropped. Day labels come out as "Day 1".."Day N".
func Parse(raw RawModelResponse) (ParsedPlan, error) {
	hotels, days, err := parseSections(raw.Text)
	if err != nil {
		return ParsedPlan{}, err
	}
	return ParsedPlan{Hotels: hotels, Itinerary: normalizeDays(days)}, nil
}

// parseSections decodes the hotels and the itinerary days, keeping the day numbers
// the model gave (zero when a day carries none).
func parseSections(text string) ([]HotelOffer, []numberedDay, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, ErrNoJSONFound
	}

	entries, err := objectEntries([]byte(text))
	if err != nil {
		candidate, ok := extractObject(text)
		if !ok {
			return nil, nil, ErrNoJSONFound
		}
		entries, err = objectEntries([]byte(candidate))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
		}
	}

	hotels, days := buildSections(entries)
	return hotels, days, nil
}

// extractObject strips code fences and language tags and keeps the outermost braces.
func extractObject(text string) (string, bool) {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	cleaned := strings.Join(kept, "\n")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return cleaned[start : end+1], true
}

type entry struct {
	Key   string
	Value json.RawMessage
}

// objectEntries decodes a JSON object keeping key order. Trailing data is an error.
func objectEntries(data []byte) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	var entries []entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		entries = append(entries, entry{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after json object")
	}
	return entries, nil
}

func normalizeKey(k string) string {
	k = strings.ToLower(k)
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(k)
}

// fields indexes object entries by normalized key. The first occurrence wins.
type fields map[string]json.RawMessage

func fieldsOf(entries []entry) fields {
	f := make(fields, len(entries))
	for _, e := range entries {
		k := normalizeKey(e.Key)
		if _, seen := f[k]; !seen {
			f[k] = e.Value
		}
	}
	return f
}

func (f fields) raw(keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := f[k]; ok && !isNull(v) {
			return v
		}
	}
	return nil
}

func (f fields) str(keys ...string) string {
	for _, k := range keys {
		if s := asString(f[k]); s != "" {
			return s
		}
	}
	return ""
}

func (f fields) float(keys ...string) float64 {
	for _, k := range keys {
		if v, ok := asFloat(f[k]); ok {
			return v
		}
	}
	return 0
}

func (f fields) geo(keys ...string) GeoPoint {
	for _, k := range keys {
		if g, ok := asGeo(f[k]); ok {
			return g
		}
	}
	lat, latOK := asFloat(f.raw("latitude", "lat"))
	lng, lngOK := asFloat(f.raw("longitude", "lng", "lon", "long"))
	if latOK && lngOK {
		return GeoPoint{Lat: lat, Lng: lng}
	}
	return GeoPoint{}
}

func buildSections(root []entry) ([]HotelOffer, []numberedDay) {
	top := fieldsOf(root)
	hotelsRaw := top.raw(hotelsKeys...)
	itineraryRaw := top.raw(itineraryKeys...)

	// Some models wrap the plan in a single envelope key such as "tripPlan".
	if hotelsRaw == nil && itineraryRaw == nil {
		for _, e := range root {
			inner, err := objectEntries(e.Value)
			if err != nil {
				continue
			}
			nested := fieldsOf(inner)
			hotelsRaw = nested.raw(hotelsKeys...)
			itineraryRaw = nested.raw(itineraryKeys...)
			if hotelsRaw != nil || itineraryRaw != nil {
				break
			}
		}
	}

	hotels := []HotelOffer{}
	for _, el := range listElements(hotelsRaw) {
		if hotel, ok := decodeHotel(el.Value); ok {
			hotels = append(hotels, hotel)
		}
	}

	var days []numberedDay
	for _, el := range listElements(itineraryRaw) {
		if day, ok := decodeDay(el); ok {
			days = append(days, day)
		}
	}
	return hotels, days
}

// listElements returns the members of an array, or the values of an object-keyed map
// in encounter order (keys are kept for day labels).
func listElements(raw json.RawMessage) []entry {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil
		}
		out := make([]entry, 0, len(items))
		for _, item := range items {
			out = append(out, entry{Value: item})
		}
		return out
	case '{':
		entries, err := objectEntries(trimmed)
		if err != nil {
			return nil
		}
		return entries
	}
	return nil
}

func decodeHotel(raw json.RawMessage) (HotelOffer, bool) {
	entries, err := objectEntries(raw)
	if err != nil {
		return HotelOffer{}, false
	}
	f := fieldsOf(entries)
	return HotelOffer{
		Name:        f.str("hotelname", "name", "hotel"),
		Address:     f.str("hoteladdress", "address"),
		PriceRange:  f.str("price", "pricerange", "pricepernight", "cost"),
		ImageURL:    f.str("hotelimageurl", "imageurl", "image", "photo"),
		Geo:         f.geo("geocoordinates", "coordinates", "geo"),
		Rating:      f.float("rating", "stars"),
		Description: f.str("description", "details"),
	}, true
}

func decodeActivity(raw json.RawMessage) (Activity, bool) {
	entries, err := objectEntries(raw)
	if err != nil {
		return Activity{}, false
	}
	f := fieldsOf(entries)
	return Activity{
		Time:        f.str("time", "timeofday", "besttimetovisit", "timeslot"),
		PlaceName:   f.str("placename", "name", "place", "activity", "title"),
		Details:     f.str("placedetails", "details", "description"),
		ImageURL:    f.str("placeimageurl", "imageurl", "image"),
		Geo:         f.geo("geocoordinates", "coordinates", "geo"),
		TicketPrice: f.str("ticketpricing", "ticketprice", "price", "cost", "entryfee"),
		TravelTime:  f.str("timetotravel", "traveltime", "travel"),
	}, true
}

type numberedDay struct {
	number int
	plan   DayPlan
}

func decodeDay(el entry) (numberedDay, bool) {
	trimmed := bytes.TrimSpace(el.Value)
	if len(trimmed) == 0 {
		return numberedDay{}, false
	}

	var (
		label         string
		activitiesRaw json.RawMessage
	)
	switch trimmed[0] {
	case '[':
		activitiesRaw = trimmed
	case '{':
		entries, err := objectEntries(trimmed)
		if err != nil {
			return numberedDay{}, false
		}
		f := fieldsOf(entries)
		label = f.str(dayLabelKeys...)
		activitiesRaw = f.raw(activitiesKeys...)
	default:
		return numberedDay{}, false
	}

	day := numberedDay{number: dayNumber(label), plan: DayPlan{Activities: []Activity{}}}
	if day.number == 0 {
		day.number = dayNumber(el.Key)
	}
	for _, a := range listElements(activitiesRaw) {
		if activity, ok := decodeActivity(a.Value); ok {
			day.plan.Activities = append(day.plan.Activities, activity)
		}
	}
	return day, true
}

// dayNumber extracts N from labels like "Day 3", "day3" or "3". Zero means unknown.
func dayNumber(label string) int {
	m := dayNumberRe.FindString(label)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// normalizeDays orders days by their parsed number (unnumbered days keep their
// position after numbered ones), drops repeated numbers and relabels from Day 1.
func normalizeDays(days []numberedDay) []DayPlan {
	sort.SliceStable(days, func(a, b int) bool {
		na, nb := days[a].number, days[b].number
		if na == 0 {
			return false
		}
		if nb == 0 {
			return true
		}
		return na < nb
	})

	seen := make(map[int]bool, len(days))
	out := make([]DayPlan, 0, len(days))
	for _, d := range days {
		if d.number > 0 {
			if seen[d.number] {
				continue
			}
			seen[d.number] = true
		}
		out = append(out, d.plan)
	}
	relabel(out, 1)
	return out
}

// relabel sets labels "Day from", "Day from+1", ... in place.
func relabel(days []DayPlan, from int) {
	for i := range days {
		days[i].Day = DayLabel(from + i)
	}
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// asString renders strings, numbers and booleans as text. Objects and arrays are "".
func asString(raw json.RawMessage) string {
	t := bytes.TrimSpace(raw)
	if isNull(t) {
		return ""
	}
	switch t[0] {
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case '{', '[':
		return ""
	}
	return string(t)
}

// asFloat accepts numbers and strings with a leading number such as "4.5 stars".
func asFloat(raw json.RawMessage) (float64, bool) {
	s := asString(raw)
	if s == "" {
		return 0, false
	}
	m := leadNumberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// asGeo accepts {lat,lng}, {latitude,longitude}, "lat, lng" and [lat, lng].
func asGeo(raw json.RawMessage) (GeoPoint, bool) {
	t := bytes.TrimSpace(raw)
	if isNull(t) {
		return GeoPoint{}, false
	}
	switch t[0] {
	case '{':
		entries, err := objectEntries(t)
		if err != nil {
			return GeoPoint{}, false
		}
		f := fieldsOf(entries)
		lat, latOK := asFloat(f.raw("latitude", "lat"))
		lng, lngOK := asFloat(f.raw("longitude", "lng", "lon", "long"))
		return GeoPoint{Lat: lat, Lng: lng}, latOK && lngOK
	case '[':
		var pair []json.RawMessage
		if err := json.Unmarshal(t, &pair); err != nil || len(pair) != 2 {
			return GeoPoint{}, false
		}
		lat, latOK := asFloat(pair[0])
		lng, lngOK := asFloat(pair[1])
		return GeoPoint{Lat: lat, Lng: lng}, latOK && lngOK
	case '"':
		parts := strings.Split(asString(t), ",")
		if len(parts) != 2 {
			return GeoPoint{}, false
		}
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		return GeoPoint{Lat: lat, Lng: lng}, err1 == nil && err2 == nil
	}
	return GeoPoint{}, false
}
