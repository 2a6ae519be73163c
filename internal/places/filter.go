package places

import (
	"slices"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// HighValueTypes are the activities that need a strong web presence.
var HighValueTypes = []string{
	"restaurant", "cafe", "bar", "bakery", "meal_takeaway", "food",
	"store", "clothing_store", "shoe_store", "jewelry_store", "furniture_store",
	"home_goods_store", "electronics_store", "book_store",
	"beauty_salon", "hair_care", "spa", "gym", "fitness_center",
	"lawyer", "accounting", "insurance_agency", "real_estate_agency",
	"car_dealer", "car_repair",
	"dentist", "doctor", "physiotherapist", "veterinary_care", "pharmacy",
	"florist", "pet_store", "shopping_mall", "department_store", "supermarket",
}

// Rejection reasons returned by Filter.Check.
const (
	RejectLodging = "lodging"
	RejectReviews = "too_few_reviews"
	RejectRating  = "low_rating"
	RejectType    = "irrelevant_type"
)

// Filter keeps active, well rated businesses of a high-value type.
type Filter struct {
	MinReviews int
	MinRating  float64
	Types      []string
}

// DefaultFilter returns the standard relevance criteria.
func DefaultFilter() Filter {
	return Filter{MinReviews: 10, MinRating: 3.5, Types: HighValueTypes}
}

// Check returns "" when the place is relevant, else the rejection reason.
func (f Filter) Check(p model.Place) string {
	if IsLodging(p.Types) {
		return RejectLodging
	}
	if p.ReviewCount < f.MinReviews || p.ReviewCount == 0 {
		return RejectReviews
	}
	if p.Rating < f.MinRating || p.Rating == 0 {
		return RejectRating
	}
	types := f.Types
	if len(types) == 0 {
		types = HighValueTypes
	}
	for _, t := range p.Types {
		if slices.Contains(types, t) {
			return ""
		}
	}
	return RejectType
}

// Apply returns the relevant places, preserving order.
func (f Filter) Apply(in []model.Place) []model.Place {
	out := make([]model.Place, 0, len(in))
	for _, p := range in {
		if f.Check(p) == "" {
			out = append(out, p)
		}
	}
	return out
}
