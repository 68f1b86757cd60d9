package recommend

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/campuspark/parkd/core/model"
)

func basePos() *Position { return &Position{Latitude: 40.0, Longitude: -105.0} }

func TestRank_PermitFilter(t *testing.T) {
	lots := []model.Lot{
		{ID: "open", Capacity: 100, Occupancy: 50, Latitude: 40.0, Longitude: -105.0},
		{ID: "staff", Capacity: 100, Occupancy: 50, Latitude: 40.0, Longitude: -105.0, Restrictions: []string{"staff"}},
		{ID: "mixed", Capacity: 100, Occupancy: 50, Latitude: 40.0, Longitude: -105.0, Restrictions: []string{"staff", "student"}},
	}
	res, err := NewScorer().Rank(lots, basePos(), "student", model.DriverPreferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range res {
		if r.LotID == "staff" {
			t.Fatalf("staff-only lot must be excluded for a student permit")
		}
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 lots to survive the filter, got %d", len(res))
	}
}

func TestRank_MissingLocation(t *testing.T) {
	lots := []model.Lot{{ID: "a", Capacity: 10, Latitude: 40, Longitude: -105}}
	if _, err := NewScorer().Rank(lots, nil, "student", model.DriverPreferences{}); !errors.Is(err, ErrMissingLocation) {
		t.Fatalf("expected ErrMissingLocation, got %v", err)
	}
}

func TestRank_EmptyInput(t *testing.T) {
	res, err := NewScorer().Rank(nil, basePos(), "student", model.DriverPreferences{})
	if err != nil {
		t.Fatalf("empty input must not error: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("expected empty result, got %d entries", len(res))
	}
}

func TestRank_ScoreDecreasesWithDistance(t *testing.T) {
	// Identical lots at increasing longitude offsets from the driver.
	lots := []model.Lot{
		{ID: "near", Capacity: 100, Occupancy: 50, Latitude: 40.0, Longitude: -105.0},
		{ID: "mid", Capacity: 100, Occupancy: 50, Latitude: 40.0, Longitude: -105.003},
		{ID: "far", Capacity: 100, Occupancy: 50, Latitude: 40.0, Longitude: -105.008},
	}
	res, err := NewScorer().Rank(lots, basePos(), "", model.DriverPreferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res))
	}
	for i := 1; i < len(res); i++ {
		if res[i].Score > res[i-1].Score {
			t.Fatalf("score should not increase with distance: %v", res)
		}
	}
	if res[0].LotID != "near" || res[2].LotID != "far" {
		t.Fatalf("expected near-to-far ordering, got %v", res)
	}
}

func TestRank_PreferenceBonusesAdditive(t *testing.T) {
	lot := model.Lot{
		ID: "full-featured", Capacity: 100, Occupancy: 50,
		Latitude: 40.0, Longitude: -105.0,
		Amenities: []string{"covered", "ev_charging", "handicap_accessible"},
	}
	s := NewScorer()
	none, err := s.Rank([]model.Lot{lot}, basePos(), "", model.DriverPreferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all, err := s.Rank([]model.Lot{lot}, basePos(), "", model.DriverPreferences{
		PreferCovered: true, NeedEVCharging: true, NeedHandicapAccess: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := all[0].Score - none[0].Score
	if math.Abs(diff-75) > 1e-9 {
		t.Fatalf("expected 20+30+25 bonus, got %v", diff)
	}
}

func TestTier_ExactBoundaries(t *testing.T) {
	s := NewScorer()
	if got := s.tier(100.0); got != TierRecommended {
		t.Fatalf("score 100.0 should map to recommended, got %s", got)
	}
	if got := s.tier(100.01); got != TierHighlyRecommended {
		t.Fatalf("score 100.01 should map to highly_recommended, got %s", got)
	}
	if got := s.tier(50.0); got != TierAvailable {
		t.Fatalf("score 50.0 should map to available, got %s", got)
	}
	if got := s.tier(50.01); got != TierRecommended {
		t.Fatalf("score 50.01 should map to recommended, got %s", got)
	}
}

func TestRank_Idempotent(t *testing.T) {
	lots := []model.Lot{
		{ID: "a", Capacity: 80, Occupancy: 20, Latitude: 40.001, Longitude: -105.001},
		{ID: "b", Capacity: 120, Occupancy: 90, Latitude: 40.002, Longitude: -105.0},
		{ID: "c", Capacity: 60, Occupancy: 10, Latitude: 40.0, Longitude: -105.004},
	}
	s := NewScorer()
	prefs := model.DriverPreferences{PreferCovered: true}
	first, err := s.Rank(lots, basePos(), "student", prefs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Rank(lots, basePos(), "student", prefs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different rankings")
	}
}

func TestRank_MaxWalkFilter(t *testing.T) {
	lots := []model.Lot{
		{ID: "near", Capacity: 50, Occupancy: 10, Latitude: 40.0, Longitude: -105.0},
		{ID: "far", Capacity: 50, Occupancy: 10, Latitude: 40.0, Longitude: -105.02},
	}
	res, err := NewScorer().Rank(lots, basePos(), "", model.DriverPreferences{MaxWalkMeters: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 || res[0].LotID != "near" {
		t.Fatalf("expected only the near lot within walking range, got %v", res)
	}
}

func TestTopN(t *testing.T) {
	res := []Result{{LotID: "a"}, {LotID: "b"}, {LotID: "c"}, {LotID: "d"}}
	top := TopN(res, 3)
	if len(top) != 3 || top[0].LotID != "a" {
		t.Fatalf("unexpected top slice: %v", top)
	}
	if got := TopN(res, 10); len(got) != 4 {
		t.Fatalf("TopN should cap at available results, got %d", len(got))
	}
}
