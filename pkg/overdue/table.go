package overdue

import (
	"time"

	"github.com/harrisonrobin/harvestboard/pkg/model"
	"github.com/harrisonrobin/harvestboard/pkg/util"
)

// Entry is an open task whose harvest date has passed.
type Entry struct {
	Task     model.Task
	Due      time.Time
	DaysLate int
}

// Sweep returns the tasks harvested before today's date, in input order.
// Tasks whose harvest date is not in canonical form are skipped.
func Sweep(tasks []model.Task, now time.Time) []Entry {
	today, _ := time.Parse(util.DateLayout, util.Today(now))

	var swept []Entry
	for _, task := range tasks {
		due, err := time.Parse(util.DateLayout, util.NormalizeDate(task.Get(model.ColHarvestDate)))
		if err != nil {
			continue
		}
		if due.Before(today) {
			swept = append(swept, Entry{
				Task:     task,
				Due:      due,
				DaysLate: int(today.Sub(due).Hours() / 24),
			})
		}
	}
	return swept
}
