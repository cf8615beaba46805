package planner

import (
	"fmt"
	"strings"
)

const hotelSchema = `    {
      "hotelName": "string",
      "hotelAddress": "string",
      "price": "string, price range per night",
      "hotelImageUrl": "string",
      "geoCoordinates": {"latitude": 0.0, "longitude": 0.0},
      "rating": 4.5,
      "description": "string"
    }`

const activitySchema = `        {
          "time": "Morning | Afternoon | Evening",
          "placeName": "string",
          "placeDetails": "string",
          "placeImageUrl": "string",
          "geoCoordinates": {"latitude": 0.0, "longitude": 0.0},
          "ticketPricing": "string or Free",
          "timeToTravel": "string, travel time from the previous place"
        }`

// BuildPrompt renders the generation prompt for req. The output depends only on req.
func BuildPrompt(req TripRequest) string {
	var prompt strings.Builder

	fmt.Fprintf(&prompt, "Generate a travel plan for location: %s, for %d days, for %s with %s budget.\n\n",
		req.Destination, req.Days, req.Traveler.Describe(), req.Budget.Describe())

	fmt.Fprintf(&prompt, "You must create exactly a %d-day itinerary. ", req.Days)
	fmt.Fprintf(&prompt, "IMPORTANT: the \"itinerary\" array must contain exactly %d day objects labelled \"Day 1\" to \"Day %d\" in order. ",
		req.Days, req.Days)
	prompt.WriteString("Do not omit, merge or skip any day. Every day needs at least 3 activities.\n\n")

	prompt.WriteString("Suggest at least 3 hotel options with name, address, price, image url, geo coordinates, rating and description. ")
	fmt.Fprintf(&prompt, "Choose hotels and activities that fit %s on %s budget.\n\n", req.Traveler.Describe(), req.Budget.Describe())

	prompt.WriteString("Return JSON only, no markdown and no commentary, in exactly this format:\n")
	writeSchema(&prompt, 1, req.Days)

	return prompt.String()
}

// BuildContinuationPrompt asks for days from..to only, listing what was already produced
// so the model does not repeat it.
func BuildContinuationPrompt(req TripRequest, from, to int, produced []DayPlan) string {
	var prompt strings.Builder

	fmt.Fprintf(&prompt, "Continue a %d-day travel plan for location: %s, for %s with %s budget.\n\n",
		req.Days, req.Destination, req.Traveler.Describe(), req.Budget.Describe())

	count := to - from + 1
	fmt.Fprintf(&prompt, "Generate ONLY %s to %s (%d day objects). ", DayLabel(from), DayLabel(to), count)
	prompt.WriteString("Do not repeat days that were already planned and do not return hotels.\n")

	if len(produced) > 0 {
		prompt.WriteString("\nAlready planned, do not revisit these places:\n")
		for _, day := range produced {
			names := make([]string, 0, len(day.Activities))
			for _, a := range day.Activities {
				if a.PlaceName != "" {
					names = append(names, a.PlaceName)
				}
			}
			fmt.Fprintf(&prompt, "- %s: %s\n", day.Day, strings.Join(names, ", "))
		}
	}

	prompt.WriteString("\nReturn JSON only, no markdown and no commentary, in exactly this format:\n")
	writeContinuationSchema(&prompt, from, to)

	return prompt.String()
}

func writeSchema(b *strings.Builder, from, to int) {
	b.WriteString("{\n  \"hotels\": [\n")
	b.WriteString(hotelSchema)
	b.WriteString("\n  ],\n")
	writeItinerary(b, from, to)
	b.WriteString("}")
}

func writeContinuationSchema(b *strings.Builder, from, to int) {
	b.WriteString("{\n")
	writeItinerary(b, from, to)
	b.WriteString("}")
}

func writeItinerary(b *strings.Builder, from, to int) {
	b.WriteString("  \"itinerary\": [")
	for day := from; day <= to; day++ {
		if day > from {
			b.WriteString(",")
		}
		fmt.Fprintf(b, "\n    {\n      \"day\": %q,\n      \"plan\": [\n%s\n      ]\n    }", DayLabel(day), activitySchema)
	}
	b.WriteString("\n  ]\n")
}
