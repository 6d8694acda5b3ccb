package services

import "fmt"

// recommendationDraft is a rule outcome before localization and identity are applied.
type recommendationDraft struct {
	key        string
	category   RecommendationCategory
	priority   Priority
	soundID    string
	args       []any
	conditions []string
}

type AgeBand struct {
	Name          string
	MinMonths     int
	MaxMonths     int
	MinSleepHours int
	MaxSleepHours int
	drafts        []recommendationDraft
}

const openEndedMonths = -1

// ageBands is the canonical banding in whole months. Bands do not overlap.
var ageBands = []AgeBand{
	{
		Name: "newborn", MinMonths: 0, MaxMonths: 3, MinSleepHours: 14, MaxSleepHours: 17,
		drafts: []recommendationDraft{
			{key: "feeding_on_demand", category: CategoryFeeding, priority: PriorityHigh},
			{key: "safe_sleep_position", category: CategoryHealth, priority: PriorityCritical},
			{key: "newborn_white_noise", category: CategoryEnvironment, priority: PriorityMedium, soundID: "white_noise"},
		},
	},
	{
		Name: "infant", MinMonths: 4, MaxMonths: 6, MinSleepHours: 12, MaxSleepHours: 16,
		drafts: []recommendationDraft{
			{key: "bedtime_routine", category: CategoryRoutine, priority: PriorityHigh},
			{key: "three_naps", category: CategorySchedule, priority: PriorityMedium},
			{key: "dark_room", category: CategoryEnvironment, priority: PriorityLow},
		},
	},
	{
		Name: "older_infant", MinMonths: 7, MaxMonths: 12, MinSleepHours: 12, MaxSleepHours: 16,
		drafts: []recommendationDraft{
			{key: "two_naps", category: CategorySchedule, priority: PriorityMedium},
			{key: "self_soothing", category: CategoryRoutine, priority: PriorityMedium},
			{key: "separation_anxiety", category: CategoryHealth, priority: PriorityLow, soundID: "lullaby"},
		},
	},
	{
		Name: "young_toddler", MinMonths: 13, MaxMonths: 24, MinSleepHours: 11, MaxSleepHours: 14,
		drafts: []recommendationDraft{
			{key: "single_nap", category: CategorySchedule, priority: PriorityMedium},
			{key: "screen_free_evening", category: CategoryHealth, priority: PriorityMedium},
			{key: "toddler_bed_transition", category: CategoryRoutine, priority: PriorityLow},
		},
	},
	{
		Name: "toddler", MinMonths: 25, MaxMonths: 36, MinSleepHours: 11, MaxSleepHours: 14,
		drafts: []recommendationDraft{
			{key: "quiet_time", category: CategoryRoutine, priority: PriorityMedium},
			{key: "night_fears", category: CategoryHealth, priority: PriorityLow, soundID: "ocean"},
		},
	},
	{
		Name: "preschooler", MinMonths: 37, MaxMonths: openEndedMonths, MinSleepHours: 10, MaxSleepHours: 13,
		drafts: []recommendationDraft{
			{key: "steady_wake_time", category: CategorySchedule, priority: PriorityMedium},
			{key: "bedtime_independence", category: CategoryRoutine, priority: PriorityLow},
		},
	},
}

func AgeBandFor(ageMonths int) AgeBand {
	if ageMonths < 0 {
		ageMonths = 0
	}
	for _, band := range ageBands {
		if ageMonths >= band.MinMonths && (band.MaxMonths == openEndedMonths || ageMonths <= band.MaxMonths) {
			return band
		}
	}
	return ageBands[len(ageBands)-1]
}

func (band AgeBand) condition() string {
	if band.MaxMonths == openEndedMonths {
		return fmt.Sprintf("age_months>=%d", band.MinMonths)
	}
	return fmt.Sprintf("age_months:%d-%d", band.MinMonths, band.MaxMonths)
}
