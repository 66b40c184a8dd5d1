package moderation

import (
	"github.com/bluesky-social/moderation/atproto/label"
	"github.com/bluesky-social/moderation/atproto/syntax"
)

type CauseType string

const (
	CauseLabel CauseType = "label"
)

// One reason, derived from a single label, to alter how an item is displayed.
type Cause struct {
	Type       CauseType        `json:"type"`
	Label      label.Label      `json:"label"`
	Definition *LabelDefinition `json:"definition"`
	Source     syntax.DID       `json:"source"`
	Preference Preference       `json:"preference"`
	Target     Target           `json:"target"`
}

func (c *Cause) Blur() Blur {
	return c.Definition.Blurs
}

func (c *Cause) Severity() Severity {
	return c.Definition.Severity
}

// True if the viewer can not click through this cause.
func (c *Cause) NoOverride() bool {
	return c.Definition.Blurs == BlurForced || c.Definition.Flags.Forced
}

// Highest blur across causes, in the order None < Media < Content < Forced.
func MaxBlur(causes []Cause) Blur {
	b := BlurNone
	for i := range causes {
		if cb := causes[i].Blur(); cb > b {
			b = cb
		}
	}
	return b
}

// Highest severity across causes, in the order None < Inform < Alert.
func MaxSeverity(causes []Cause) Severity {
	s := SeverityNone
	for i := range causes {
		if cs := causes[i].Severity(); cs > s {
			s = cs
		}
	}
	return s
}

// All causes which apply to a single item, combined from one or more decision passes.
type Decision struct {
	Causes []Cause `json:"causes"`
}

// Concatenates the results of several [DecideLabels] calls.
func NewDecision(passes ...[]Cause) *Decision {
	n := 0
	for _, p := range passes {
		n += len(p)
	}
	d := &Decision{Causes: make([]Cause, 0, n)}
	for _, p := range passes {
		d.Causes = append(d.Causes, p...)
	}
	return d
}

func (d *Decision) Blur() Blur {
	return MaxBlur(d.Causes)
}

func (d *Decision) Severity() Severity {
	return MaxSeverity(d.Causes)
}

func (d *Decision) NoOverride() bool {
	for i := range d.Causes {
		if d.Causes[i].NoOverride() {
			return true
		}
	}
	return false
}

// Reduced display decision for one rendering context.
type UI struct {
	Blur       Blur     `json:"blur"`
	Severity   Severity `json:"severity"`
	NoOverride bool     `json:"noOverride"`
	// drop the item from the list entirely
	Filter bool    `json:"filter"`
	Causes []Cause `json:"causes,omitempty"`
}

// True if the item is blurred and the viewer may reveal it.
func (ui *UI) Dismissible() bool {
	return ui.Blur != BlurNone && !ui.NoOverride
}

// Reduces the causes which apply when rendering in `ctx`.
func (d *Decision) UI(ctx Context) UI {
	var ui UI
	for i := range d.Causes {
		c := &d.Causes[i]
		if c.Filters(ctx) {
			ui.Filter = true
		}
		if !c.AppliesTo(ctx) {
			continue
		}
		ui.Causes = append(ui.Causes, *c)
		if c.NoOverride() {
			ui.NoOverride = true
		}
	}
	ui.Blur = MaxBlur(ui.Causes)
	ui.Severity = MaxSeverity(ui.Causes)
	return ui
}
