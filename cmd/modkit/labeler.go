package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bluesky-social/moderation/atproto/syntax"
	"github.com/bluesky-social/moderation/moderation"

	"github.com/urfave/cli/v2"
)

var cmdLabeler = &cli.Command{
	Name:      "labeler",
	Usage:     "interpret a labeler service view (app.bsky.labeler.defs#labelerViewDetailed)",
	ArgsUsage: `<file.json>`,
	Action:    runLabeler,
}

func runLabeler(cctx *cli.Context) error {
	p := cctx.Args().First()
	if p == "" {
		return fmt.Errorf("need to provide labeler view JSON file as an argument")
	}
	var view moderation.LabelerView
	if err := readJSONFile(p, &view); err != nil {
		return err
	}
	return printJSON(cctx.App.Writer, moderation.InterpretLabeler(&view))
}

// Reads labeler service views from a directory of JSON files, one per labeler. Files can be named anything; the creator DID inside is what matters.
type dirLabelerSource struct {
	views map[syntax.DID]*moderation.LabelerView
}

func loadLabelerDir(dir string) (*dirLabelerSource, error) {
	src := &dirLabelerSource{views: make(map[syntax.DID]*moderation.LabelerView)}
	if dir == "" {
		return src, nil
	}
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".json" {
			return nil
		}
		var view moderation.LabelerView
		if err := readJSONFile(p, &view); err != nil {
			return err
		}
		did, err := syntax.ParseDID(view.Creator.DID)
		if err != nil {
			return fmt.Errorf("labeler view %s: %w", p, err)
		}
		src.views[did] = &view
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return src, nil
}

func (s *dirLabelerSource) GetLabeler(ctx context.Context, did syntax.DID) (*moderation.LabelerView, error) {
	view, ok := s.views[did]
	if !ok {
		return nil, moderation.ErrLabelerNotFound
	}
	return view, nil
}

// Every labeler found in the directory, for when the prefs file doesn't list subscriptions.
func (s *dirLabelerSource) DIDs() []syntax.DID {
	out := make([]syntax.DID, 0, len(s.views))
	for did := range s.views {
		out = append(out, did)
	}
	return out
}
