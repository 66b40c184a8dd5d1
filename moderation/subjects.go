package moderation

import (
	"github.com/bluesky-social/moderation/atproto/label"
	"github.com/bluesky-social/moderation/atproto/syntax"
)

// An account as it appears in hydrated views, with the labels attached to it. Labels with a bare-DID URI apply to the account; the rest apply to records (usually the profile record).
type ProfileSubject struct {
	DID    syntax.DID    `json:"did"`
	Handle string        `json:"handle,omitempty"`
	Labels []label.Label `json:"labels,omitempty"`
}

// A post, with its own labels and its author.
type PostSubject struct {
	URI    syntax.ATURI   `json:"uri"`
	Author ProfileSubject `json:"author"`
	Labels []label.Label  `json:"labels,omitempty"`
}

// Moderates a record with no special handling, such as a feed generator or list. All labels target the content.
func ModerateGeneric(labels []label.Label, opts *Options) *Decision {
	return NewDecision(DecideLabels(labels, TargetContent, opts))
}

// Moderates an account, splitting account-level labels from profile record labels.
func ModerateProfile(profile *ProfileSubject, opts *Options) *Decision {
	account, record := splitAccountLabels(profile.Labels)
	return NewDecision(
		DecideLabels(account, TargetAccount, opts),
		DecideLabels(record, TargetProfile, opts),
	)
}

// Moderates a post: its own labels as content, plus its author's account and profile labels.
func ModeratePost(post *PostSubject, opts *Options) *Decision {
	author := ModerateProfile(&post.Author, opts)
	return NewDecision(
		DecideLabels(post.Labels, TargetContent, opts),
		author.Causes,
	)
}

func splitAccountLabels(labels []label.Label) (account, record []label.Label) {
	for _, l := range labels {
		if l.IsAccountLevel() {
			account = append(account, l)
		} else {
			record = append(record, l)
		}
	}
	return account, record
}
