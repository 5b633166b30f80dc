// Package report renders operation outcomes as human-readable summary tables.
package report

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

const (
	resourceColumnHeaderConstant = "RESOURCE"
	itemColumnHeaderConstant     = "ITEM"
	actionColumnHeaderConstant   = "ACTION"
	detailColumnHeaderConstant   = "DETAIL"
)

// Action categorizes the outcome of one item-level operation.
type Action string

// Outcome action enumerations.
const (
	ActionDeleted Action = "deleted"
	ActionClosed  Action = "closed"
	ActionRenamed Action = "renamed"
	ActionUpdated Action = "updated"
	ActionSkipped Action = "skipped"
	ActionPlanned Action = "planned"
	ActionFailed  Action = "failed"
)

// Outcome captures the result of one item-level operation.
type Outcome struct {
	Resource string
	Item     string
	Action   Action
	Detail   string
}

// WriteSummary renders the outcomes as a table on the provided writer.
// No output is produced when there are no outcomes.
func WriteSummary(writer io.Writer, outcomes []Outcome) {
	if writer == nil || len(outcomes) == 0 {
		return
	}

	summaryTable := tablewriter.NewWriter(writer)
	summaryTable.SetHeader([]string{resourceColumnHeaderConstant, itemColumnHeaderConstant, actionColumnHeaderConstant, detailColumnHeaderConstant})

	for _, outcome := range outcomes {
		summaryTable.Append([]string{outcome.Resource, outcome.Item, string(outcome.Action), outcome.Detail})
	}

	summaryTable.Render()
}
