package main

import (
	"fmt"
	"strings"

	"github.com/bluesky-social/moderation/atproto/syntax"
	"github.com/bluesky-social/moderation/richtext"

	"github.com/urfave/cli/v2"
)

var cmdSegment = &cli.Command{
	Name:      "segment",
	Usage:     "split post text in to segments using its facets",
	ArgsUsage: `<post.json>`,
	Action:    runSegment,
}

var cmdParse = &cli.Command{
	Name:      "parse",
	Usage:     "parse authored text in to final post text and facets",
	ArgsUsage: `<text>`,
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "mention",
			Usage: "resolved mention, as handle=did (repeatable)",
		},
	},
	Action: runParse,
}

var cmdLength = &cli.Command{
	Name:      "length",
	Usage:     "count graphemes and encoded lengths of text",
	ArgsUsage: `<text>`,
	Action:    runLength,
}

type postRecord struct {
	Text   string           `json:"text"`
	Facets []richtext.Facet `json:"facets,omitempty"`
}

func runSegment(cctx *cli.Context) error {
	p := cctx.Args().First()
	if p == "" {
		return fmt.Errorf("need to provide post JSON file as an argument")
	}
	var post postRecord
	if err := readJSONFile(p, &post); err != nil {
		return err
	}
	return printJSON(cctx.App.Writer, richtext.SegmentRichText(post.Text, post.Facets))
}

func runParse(cctx *cli.Context) error {
	src := strings.Join(cctx.Args().Slice(), " ")
	if src == "" {
		return fmt.Errorf("need to provide text as an argument")
	}

	mentions := make(map[syntax.Handle]syntax.DID)
	for _, m := range cctx.StringSlice("mention") {
		rawHandle, rawDID, ok := strings.Cut(m, "=")
		if !ok {
			return fmt.Errorf("mention should be handle=did: %s", m)
		}
		h, err := syntax.ParseHandle(rawHandle)
		if err != nil {
			return err
		}
		did, err := syntax.ParseDID(rawDID)
		if err != nil {
			return err
		}
		mentions[h] = did
	}

	doc := richtext.Parse(src)
	text, facets := doc.Finalize(richtext.MapResolver(mentions))
	return printJSON(cctx.App.Writer, postRecord{Text: text, Facets: facets})
}

func runLength(cctx *cli.Context) error {
	s := strings.Join(cctx.Args().Slice(), " ")
	return printJSON(cctx.App.Writer, map[string]int{
		"graphemes": richtext.GraphemeLen(s),
		"utf8":      richtext.UTF8Length(s),
		"utf16":     richtext.UTF16Length(s),
	})
}
