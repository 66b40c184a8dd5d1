package moderation

// Which rendering contexts a cause affects, by label target and blur kind.
//
// Media blurs only touch images (post embeds, or avatar and banner). Everything else, including severity-only labels, applies to the list and full views of the labeled thing. Account labels cover both the account's profile and its content.
var contextTable = map[Target]map[bool][]Context{
	TargetContent: {
		true:  {ContextContentMedia},
		false: {ContextContentList, ContextContentView},
	},
	TargetProfile: {
		true:  {ContextProfileMedia},
		false: {ContextProfileList, ContextProfileView},
	},
	TargetAccount: {
		true:  {ContextProfileMedia},
		false: {ContextContentList, ContextContentView, ContextProfileList, ContextProfileView},
	},
}

// True if this cause should be surfaced when rendering in `ctx`.
func (c *Cause) AppliesTo(ctx Context) bool {
	for _, x := range contextTable[c.Target][c.Blur() == BlurMedia] {
		if x == ctx {
			return true
		}
	}
	return false
}

// Label targets which remove an item from each list context when the viewer's preference is hide, whatever the blur kind.
var filterTable = map[Context][]Target{
	ContextContentList: {TargetContent, TargetAccount},
	ContextProfileList: {TargetAccount, TargetProfile},
}

// True if this cause drops the item from a list rendered in `ctx`.
func (c *Cause) Filters(ctx Context) bool {
	if c.Preference != PreferenceHide || !ctx.IsList() {
		return false
	}
	for _, t := range filterTable[ctx] {
		if t == c.Target {
			return true
		}
	}
	return false
}
