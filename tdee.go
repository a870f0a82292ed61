package main

import (
	"math"
	"time"

	"github.com/media2net-app/mihaelafitness/internal/store"
)

// activityMultipliers maps activity level strings to their TDEE multiplier.
// Also used to validate customer patches.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// goalAdjustments is the daily calorie offset applied to TDEE per goal.
var goalAdjustments = map[string]int{
	"lose":     -500,
	"maintain": 0,
	"gain":     300,
}

// proteinPerKG is grams of protein per kg body weight; higher while cutting.
var proteinPerKG = map[string]float64{
	"lose":     2.0,
	"maintain": 1.8,
	"gain":     1.8,
}

const (
	fatShare    = 0.25 // of calories
	minCalories = 1200
)

// ageOn returns completed years between dob and now.
func ageOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// computeTDEE computes BMR (Mifflin-St Jeor) and TDEE from a customer profile.
// ok is false when a required field is missing, the activity level is
// unknown, or the age is implausible.
func computeTDEE(cu *store.Customer, now time.Time) (bmr, tdee int, ok bool) {
	if cu.Sex == nil || cu.DateOfBirth == nil || cu.HeightCM == nil ||
		cu.WeightKG == nil || cu.ActivityLevel == nil {
		return 0, 0, false
	}

	age := ageOn(cu.DateOfBirth.Time, now)
	if age < 0 || age > 130 {
		return 0, 0, false
	}

	bmrF := 10**cu.WeightKG + 6.25**cu.HeightCM - 5*float64(age)
	if *cu.Sex == "male" {
		bmrF += 5
	} else {
		bmrF -= 161
	}

	mult, found := activityMultipliers[*cu.ActivityLevel]
	if !found {
		return 0, 0, false
	}
	return int(math.Round(bmrF)), int(math.Round(bmrF * mult)), true
}

// computeTargets turns a profile into daily calorie and macro targets. The
// goal defaults to maintain. Carbs take whatever calories protein and fat
// leave, never below zero.
func computeTargets(cu *store.Customer, now time.Time) (macroTargets, bool) {
	bmr, tdee, ok := computeTDEE(cu, now)
	if !ok {
		return macroTargets{}, false
	}

	goal := "maintain"
	if cu.Goal != nil {
		if _, known := goalAdjustments[*cu.Goal]; known {
			goal = *cu.Goal
		}
	}

	calories := tdee + goalAdjustments[goal]
	if calories < minCalories {
		calories = minCalories
	}

	protein := math.Round(*cu.WeightKG * proteinPerKG[goal])
	fat := math.Round(float64(calories) * fatShare / 9)
	carbs := math.Max(0, math.Round((float64(calories)-protein*4-fat*9)/4))

	return macroTargets{
		BMR:      bmr,
		TDEE:     tdee,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
		Goal:     goal,
	}, true
}

// currentMonday returns the Monday of the current week at midnight UTC.
// Uses AddDate to safely handle month/year boundaries.
func currentMonday(now time.Time) time.Time {
	now = now.UTC()
	weekday := int(now.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7
	}
	return now.AddDate(0, 0, -(weekday - 1)).Truncate(24 * time.Hour)
}
