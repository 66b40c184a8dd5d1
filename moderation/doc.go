/*
Package moderation decides how labeled content should be displayed to a viewer.

Labeling services publish a policy for each label value they emit (default preference, blur, severity). [InterpretLabeler] turns a labeler's published policy into a [ModerationLabeler]. [DecideLabels] takes the labels attached to a post, profile or feed generator, resolves each against the viewer's subscribed labelers and preferences, and returns the [Cause] list for that item. A [Decision] reduces causes to a blur and severity, optionally restricted to a rendering [Context].

Everything here is a pure function over its inputs except [LabelerCache], which holds interpreted labelers keyed by DID.
*/
package moderation
