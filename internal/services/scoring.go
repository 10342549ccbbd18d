package services

import (
	"fmt"
	"math"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/catalog"
	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

const (
	weightLocation       = 0.25
	weightSpecialization = 0.30
	weightAvailability   = 0.20
	weightRating         = 0.15
	weightExperience     = 0.05
	weightWorkload       = 0.05
)

const (
	locationExact   = 1.0
	locationNearby  = 0.6
	locationFar     = 0.2
	specExact       = 1.0
	specRelated     = 0.7
	specUnrelated   = 0.3
	availableYes    = 1.0
	availableNo     = 0.1
	availableMaybe  = 0.3
	workloadUnknown = 0.5
	maxRating       = 5.0
)

func locationMatch(requestProvince, trainerProvince string) float64 {
	requestName := catalog.LocalizedProvince(requestProvince)
	trainerName := catalog.LocalizedProvince(trainerProvince)
	if requestName == "" || trainerName == "" {
		return locationFar
	}
	if requestName == trainerName {
		return locationExact
	}

	for _, nearby := range catalog.NearbyProvinces(requestProvince) {
		if catalog.LocalizedProvince(nearby) == trainerName {
			return locationNearby
		}
	}
	return locationFar
}

func specializationMatch(requested string, trainerSpecs models.Specializations) float64 {
	requestName := catalog.LocalizedSpecialization(requested)
	if requestName == "" {
		return specUnrelated
	}

	trainerNames := make(map[string]struct{}, len(trainerSpecs))
	for _, name := range trainerSpecs {
		trainerNames[catalog.LocalizedSpecialization(name)] = struct{}{}
	}
	if _, ok := trainerNames[requestName]; ok {
		return specExact
	}

	for _, related := range catalog.RelatedSpecializations(requested) {
		if _, ok := trainerNames[catalog.LocalizedSpecialization(related)]; ok {
			return specRelated
		}
	}
	return specUnrelated
}

func availabilityMatch(available *bool, err error) float64 {
	if err != nil || available == nil {
		return availableMaybe
	}
	if *available {
		return availableYes
	}
	return availableNo
}

func ratingScore(rating float64) float64 {
	return clamp01(rating / maxRating)
}

func experienceScore(hours int) float64 {
	switch {
	case hours >= 100:
		return 1.0
	case hours >= 50:
		return 0.8
	case hours >= 20:
		return 0.6
	case hours >= 5:
		return 0.4
	default:
		return 0.2
	}
}

func workloadScore(events int, err error) float64 {
	if err != nil {
		return workloadUnknown
	}
	switch {
	case events <= 0:
		return 1.0
	case events <= 2:
		return 0.8
	case events <= 4:
		return 0.6
	case events <= 6:
		return 0.4
	default:
		return 0.2
	}
}

func compositeScore(f models.MatchFactors) float64 {
	total := f.Location*weightLocation +
		f.Specialization*weightSpecialization +
		f.Availability*weightAvailability +
		f.Rating*weightRating +
		f.Experience*weightExperience +
		f.Workload*weightWorkload
	return roundTo2(clamp01(total))
}

func buildReasoning(f models.MatchFactors, trainer *models.Trainer) []string {
	reasons := make([]string, 0, 6)

	switch {
	case f.Location >= 0.8:
		reasons = append(reasons, "Located in the requested province")
	case f.Location >= 0.5:
		reasons = append(reasons, "Located in a neighboring province")
	}

	switch {
	case f.Specialization >= 0.8:
		reasons = append(reasons, "Specializes in the requested subject")
	case f.Specialization >= 0.6:
		reasons = append(reasons, "Has a closely related specialization")
	}

	if f.Availability >= 0.8 {
		reasons = append(reasons, "Confirmed available on the requested date")
	}
	if f.Rating >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("Highly rated (%.1f/5)", trainer.EffectiveRating()))
	}
	if f.Experience >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("Extensive experience (%d training hours)", trainer.EffectiveHours()))
	}
	if f.Workload >= 0.8 {
		reasons = append(reasons, "Light schedule over the next week")
	}

	return reasons
}

func clamp01(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func roundTo2(value float64) float64 {
	return math.Round(value*100) / 100
}

func percent(score float64) int {
	return int(math.Round(score * 100))
}
