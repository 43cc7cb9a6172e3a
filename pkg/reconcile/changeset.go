package reconcile

import (
	"strings"

	"github.com/harrisonrobin/harvestboard/pkg/model"
)

// BuildChangeSet returns the edits worth sending plus the derived status and
// date fields. Blank edits are dropped so untouched columns keep their remote
// values. A completing change set always carries status Completed and today's
// date in the harvest date column, overriding any harvest date edit.
func BuildChangeSet(edits model.Edits, completing bool, today string) model.ChangeSet {
	changes := model.ChangeSet{}
	for column, value := range edits {
		if strings.TrimSpace(value) == "" {
			continue
		}
		changes[column] = value
	}

	if completing {
		changes[model.ColStatus] = model.StatusCompleted
		changes[model.ColHarvestDate] = today
	} else if _, ok := changes[model.ColAssignee]; ok {
		changes[model.ColStatus] = model.StatusAssigned
	}
	return changes
}

// missingForCompletion lists the required completion fields left blank.
func missingForCompletion(edits model.Edits) []string {
	var missing []string
	for _, column := range model.RequiredForCompletion {
		if strings.TrimSpace(edits[column]) == "" {
			missing = append(missing, column)
		}
	}
	return missing
}
