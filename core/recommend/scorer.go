package recommend

import (
	"errors"
	"sort"

	"github.com/campuspark/parkd/core/geo"
	"github.com/campuspark/parkd/core/model"
)

// ErrMissingLocation is returned when the scorer is invoked without a
// driver position; the distance term is undefined without one.
var ErrMissingLocation = errors.New("recommend: missing driver location")

// Tier labels a scored lot for the driver-facing listing.
type Tier string

const (
	TierHighlyRecommended Tier = "highly_recommended"
	TierRecommended       Tier = "recommended"
	TierAvailable         Tier = "available"
)

// Position is the driver's current location in degrees.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Result is one ranked lot with the factors that produced its score.
type Result struct {
	LotID          string  `json:"lot_id"`
	Name           string  `json:"name"`
	DistanceM      float64 `json:"distance_m"`
	AvailableSpots int     `json:"available_spots"`
	OccupancyRate  float64 `json:"occupancy_rate"`
	Score          float64 `json:"score"`
	Tier           Tier    `json:"tier"`
}

// Scorer ranks candidate lots using a weighted additive score over
// proximity, free capacity, occupancy pressure and amenity matches.
// The zero value is unusable; NewScorer returns the production
// weights.
type Scorer struct {
	DistanceCapM    float64 // distance beyond which the proximity term is zero
	DistanceDivisor float64
	SpotWeight      float64
	OccupancyWeight float64
	CoveredBonus    float64
	EVBonus         float64
	HandicapBonus   float64

	HighTierAbove float64
	MidTierAbove  float64
}

// NewScorer returns a scorer with the production weights.
func NewScorer() Scorer {
	return Scorer{
		DistanceCapM:    1000,
		DistanceDivisor: 10,
		SpotWeight:      2,
		OccupancyWeight: 50,
		CoveredBonus:    20,
		EVBonus:         30,
		HandicapBonus:   25,
		HighTierAbove:   100,
		MidTierAbove:    50,
	}
}

// Rank filters lots by permit, scores the survivors against the driver
// position and preferences, and returns them ordered by descending
// score. Ties keep the input lot order so identical calls produce
// identical rankings. An empty lot set yields an empty slice, not an
// error.
func (s Scorer) Rank(lots []model.Lot, pos *Position, permit string, prefs model.DriverPreferences) ([]Result, error) {
	if pos == nil {
		return nil, ErrMissingLocation
	}
	if err := geo.Validate(pos.Latitude, pos.Longitude); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(lots))
	for _, lot := range lots {
		if !lot.PermitAllowed(permit) {
			continue
		}
		dist, err := geo.Distance(pos.Latitude, pos.Longitude, lot.Latitude, lot.Longitude)
		if err != nil {
			return nil, err
		}
		if prefs.MaxWalkMeters > 0 && dist > prefs.MaxWalkMeters {
			continue
		}
		r := s.score(lot, dist, prefs)
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

func (s Scorer) score(lot model.Lot, dist float64, prefs model.DriverPreferences) Result {
	available := lot.AvailableSpots()
	rate := lot.OccupancyRate()

	proximity := s.DistanceCapM - dist
	if proximity < 0 {
		proximity = 0
	}
	score := proximity/s.DistanceDivisor +
		float64(available)*s.SpotWeight +
		(1-rate)*s.OccupancyWeight

	if prefs.PreferCovered && lot.HasAmenity("covered") {
		score += s.CoveredBonus
	}
	if prefs.NeedEVCharging && lot.HasAmenity("ev_charging") {
		score += s.EVBonus
	}
	if prefs.NeedHandicapAccess && lot.HasAmenity("handicap_accessible") {
		score += s.HandicapBonus
	}

	return Result{
		LotID:          lot.ID,
		Name:           lot.Name,
		DistanceM:      dist,
		AvailableSpots: available,
		OccupancyRate:  rate,
		Score:          score,
		Tier:           s.tier(score),
	}
}

// tier maps a score to its label. Thresholds are strict: a score of
// exactly 100 is "recommended", not "highly_recommended".
func (s Scorer) tier(score float64) Tier {
	switch {
	case score > s.HighTierAbove:
		return TierHighlyRecommended
	case score > s.MidTierAbove:
		return TierRecommended
	default:
		return TierAvailable
	}
}

// TopN returns the first n results, or all of them when fewer exist.
// The driver listing takes 3.
func TopN(results []Result, n int) []Result {
	if n < 0 || n > len(results) {
		n = len(results)
	}
	return results[:n]
}
