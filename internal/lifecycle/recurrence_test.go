package lifecycle

import (
	"testing"
	"time"

	"github.com/vaais251/focusflow/internal/store"
)

func template(days string) store.Task {
	return store.Task{IsTemplate: true, IsActive: true, RecurringDays: days}
}

func TestShouldSpawnDayMatching(t *testing.T) {
	monday := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)    // Monday
	wednesday := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC) // Wednesday

	// 1 = Monday, 5 = Friday
	tpl := template("1,5")
	if !ShouldSpawn(tpl, monday, false) {
		t.Error("want spawn on a listed weekday")
	}
	if ShouldSpawn(tpl, wednesday, false) {
		t.Error("want no spawn on an unlisted weekday")
	}
}

func TestShouldSpawnEmptyDaysMeansEveryDay(t *testing.T) {
	tpl := template("")
	for d := 0; d < 7; d++ {
		day := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC).AddDate(0, 0, d)
		if !ShouldSpawn(tpl, day, false) {
			t.Errorf("empty day list: want spawn on %s", day.Weekday())
		}
	}
}

func TestShouldSpawnRequiresActiveTemplate(t *testing.T) {
	day := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	inactive := template("")
	inactive.IsActive = false
	if ShouldSpawn(inactive, day, false) {
		t.Error("inactive template must not spawn")
	}

	concrete := store.Task{IsActive: true} // not a template at all
	if ShouldSpawn(concrete, day, false) {
		t.Error("non-template task must not spawn")
	}
}

func TestShouldSpawnRespectsEndDate(t *testing.T) {
	end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tpl := template("")
	tpl.RecurringEnd = &end

	if !ShouldSpawn(tpl, end, false) {
		t.Error("want spawn on the end date itself")
	}
	// Even a late-evening end timestamp compares by calendar day.
	lateEnd := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	tpl.RecurringEnd = &lateEnd
	if ShouldSpawn(tpl, end.AddDate(0, 0, 1), false) {
		t.Error("want no spawn the day after the end date")
	}
}

func TestShouldSpawnStopOnProjectCompletion(t *testing.T) {
	day := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	tpl := template("")
	tpl.StopOnProjectCompletion = true
	if ShouldSpawn(tpl, day, true) {
		t.Error("template must stop once its project is completed")
	}
	if !ShouldSpawn(tpl, day, false) {
		t.Error("template must keep spawning while the project is open")
	}

	// Without the flag, project completion is irrelevant.
	tpl.StopOnProjectCompletion = false
	if !ShouldSpawn(tpl, day, true) {
		t.Error("flagless template must ignore project completion")
	}
}

func TestParseWeekdaysSkipsGarbage(t *testing.T) {
	days := parseWeekdays("1, x, 9, -1, 5,")
	if len(days) != 2 || !days[1] || !days[5] {
		t.Errorf("parseWeekdays = %v, want {1,5}", days)
	}
}
