package main

import (
	"testing"
	"time"

	"github.com/media2net-app/mihaelafitness/internal/store"
)

// fixedNow is the reference date for every profile test.
var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// makeCustomer builds a complete profile; tests nil out fields to exercise
// the missing-field guards.
func makeCustomer(sex string, dobYear int, heightCM, weightKG float64, activity, goal string) *store.Customer {
	dob := store.DateOnly{Time: time.Date(dobYear, 1, 1, 0, 0, 0, 0, time.UTC)}
	return &store.Customer{
		ID:            "c1",
		Name:          "Test",
		Sex:           &sex,
		DateOfBirth:   &dob,
		HeightCM:      &heightCM,
		WeightKG:      &weightKG,
		ActivityLevel: &activity,
		Goal:          &goal,
	}
}

/* ─── Missing-field guard tests ──────────────────────────────────────── */

func TestComputeTDEE_MissingFields(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(c *store.Customer)
	}{
		{"nil Sex", func(c *store.Customer) { c.Sex = nil }},
		{"nil DateOfBirth", func(c *store.Customer) { c.DateOfBirth = nil }},
		{"nil HeightCM", func(c *store.Customer) { c.HeightCM = nil }},
		{"nil WeightKG", func(c *store.Customer) { c.WeightKG = nil }},
		{"nil ActivityLevel", func(c *store.Customer) { c.ActivityLevel = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := makeCustomer("male", 1990, 175, 80, "sedentary", "maintain")
			tc.mutFn(c)
			if _, _, ok := computeTDEE(c, fixedNow); ok {
				t.Errorf("expected ok=false when %s", tc.name)
			}
		})
	}
}

func TestComputeTDEE_Guards(t *testing.T) {
	if _, _, ok := computeTDEE(makeCustomer("male", 1990, 175, 80, "unknown", "maintain"), fixedNow); ok {
		t.Error("expected ok=false for unknown activity level")
	}
	if _, _, ok := computeTDEE(makeCustomer("male", 2030, 175, 80, "sedentary", "maintain"), fixedNow); ok {
		t.Error("expected ok=false for a date of birth in the future")
	}
}

/* ─── Formula tests ──────────────────────────────────────────────────── */

// Male, 35 on fixedNow, 180 cm, 80 kg:
// BMR = 10*80 + 6.25*180 - 5*35 + 5 = 1755; moderate TDEE = 1755*1.55 = 2720.25.
func TestComputeTDEE_Male(t *testing.T) {
	bmr, tdee, ok := computeTDEE(makeCustomer("male", 1990, 180, 80, "moderate", "maintain"), fixedNow)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if bmr != 1755 {
		t.Errorf("bmr = %d, want 1755", bmr)
	}
	if tdee != 2720 {
		t.Errorf("tdee = %d, want 2720", tdee)
	}
}

// Female, 30 on fixedNow, 165 cm, 60 kg:
// BMR = 600 + 1031.25 - 150 - 161 = 1320.25; sedentary TDEE = 1584.3.
func TestComputeTDEE_Female(t *testing.T) {
	bmr, tdee, ok := computeTDEE(makeCustomer("female", 1995, 165, 60, "sedentary", "maintain"), fixedNow)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if bmr != 1320 {
		t.Errorf("bmr = %d, want 1320", bmr)
	}
	if tdee != 1584 {
		t.Errorf("tdee = %d, want 1584", tdee)
	}
}

func TestAgeOn_BeforeBirthday(t *testing.T) {
	dob := time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC)
	if got := ageOn(dob, fixedNow); got != 34 {
		t.Errorf("age = %d, want 34", got)
	}
}

/* ─── Targets ────────────────────────────────────────────────────────── */

func TestComputeTargets(t *testing.T) {
	cases := []struct {
		goal         string
		wantGoal     string
		wantCalories int
		wantProtein  float64
	}{
		{"maintain", "maintain", 2720, 144},
		{"lose", "lose", 2220, 160},
		{"gain", "gain", 3020, 144},
		{"", "maintain", 2720, 144},
	}
	for _, tc := range cases {
		t.Run(tc.wantGoal+"/"+tc.goal, func(t *testing.T) {
			got, ok := computeTargets(makeCustomer("male", 1990, 180, 80, "moderate", tc.goal), fixedNow)
			if !ok {
				t.Fatal("expected ok=true")
			}
			if got.Goal != tc.wantGoal {
				t.Errorf("goal = %q, want %q", got.Goal, tc.wantGoal)
			}
			if got.Calories != tc.wantCalories {
				t.Errorf("calories = %d, want %d", got.Calories, tc.wantCalories)
			}
			if got.Protein != tc.wantProtein {
				t.Errorf("protein = %v, want %v", got.Protein, tc.wantProtein)
			}
			energy := got.Protein*4 + got.Carbs*4 + got.Fat*9
			if diff := energy - float64(got.Calories); diff > 10 || diff < -10 {
				t.Errorf("macro energy %.0f does not add up to %d", energy, got.Calories)
			}
		})
	}
}

func TestComputeTargets_Floor(t *testing.T) {
	got, ok := computeTargets(makeCustomer("female", 1960, 150, 45, "sedentary", "lose"), fixedNow)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if got.Calories != minCalories {
		t.Errorf("calories = %d, want floor %d", got.Calories, minCalories)
	}
	if got.Carbs < 0 {
		t.Errorf("carbs = %v, want >= 0", got.Carbs)
	}
}

/* ─── currentMonday ──────────────────────────────────────────────────── */

func TestCurrentMonday(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)}, // Sunday
		{time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC), time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)},   // Monday
		{time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC), time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC)}, // Saturday across month
	}
	for _, tc := range cases {
		if got := currentMonday(tc.now); !got.Equal(tc.want) {
			t.Errorf("currentMonday(%s) = %s, want %s", tc.now, got, tc.want)
		}
	}
}
