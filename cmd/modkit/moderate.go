package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bluesky-social/moderation/atproto/label"
	"github.com/bluesky-social/moderation/atproto/syntax"
	"github.com/bluesky-social/moderation/moderation"

	"github.com/urfave/cli/v2"
)

var cmdModerate = &cli.Command{
	Name:      "moderate",
	Usage:     "compute moderation causes for a post, profile, or generic record",
	ArgsUsage: `<subject.json>`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "kind",
			Usage:   "subject kind: post, profile, or generic",
			Value:   "post",
			EnvVars: []string{"MODKIT_SUBJECT_KIND"},
		},
		&cli.StringFlag{
			Name:    "labeler-dir",
			Usage:   "directory of labeler service view JSON files",
			EnvVars: []string{"MODKIT_LABELER_DIR"},
		},
		&cli.StringFlag{
			Name:    "prefs",
			Usage:   "viewer moderation preferences JSON file",
			EnvVars: []string{"MODKIT_PREFS"},
		},
		&cli.StringFlag{
			Name:    "viewer",
			Usage:   "viewer account DID (overrides prefs file)",
			EnvVars: []string{"MODKIT_VIEWER_DID"},
		},
		&cli.BoolFlag{
			Name:    "adult-content",
			Usage:   "enable adult content (overrides prefs file)",
			EnvVars: []string{"MODKIT_ADULT_CONTENT"},
		},
		&cli.StringFlag{
			Name:  "context",
			Usage: "only show the display decision for this context (eg: contentList, profileView)",
		},
		&cli.DurationFlag{
			Name:  "labeler-ttl",
			Usage: "how long interpreted labelers are cached",
			Value: 10 * time.Minute,
		},
	},
	Action: runModerate,
}

type moderateOutput struct {
	Causes     []moderation.Cause       `json:"causes"`
	Blur       moderation.Blur          `json:"blur"`
	Severity   moderation.Severity      `json:"severity"`
	NoOverride bool                     `json:"noOverride"`
	UI         map[string]moderation.UI `json:"ui"`
}

func runModerate(cctx *cli.Context) error {
	p := cctx.Args().First()
	if p == "" {
		return fmt.Errorf("need to provide subject JSON file as an argument")
	}

	opts, err := loadOptions(cctx)
	if err != nil {
		return err
	}

	var decision *moderation.Decision
	switch cctx.String("kind") {
	case "post":
		var post moderation.PostSubject
		if err := readJSONFile(p, &post); err != nil {
			return err
		}
		decision = moderation.ModeratePost(&post, opts)
	case "profile":
		var profile moderation.ProfileSubject
		if err := readJSONFile(p, &profile); err != nil {
			return err
		}
		decision = moderation.ModerateProfile(&profile, opts)
	case "generic":
		var record struct {
			Labels []label.Label `json:"labels"`
		}
		if err := readJSONFile(p, &record); err != nil {
			return err
		}
		decision = moderation.ModerateGeneric(record.Labels, opts)
	default:
		return fmt.Errorf("unknown subject kind: %s", cctx.String("kind"))
	}

	out := moderateOutput{
		Causes:     decision.Causes,
		Blur:       decision.Blur(),
		Severity:   decision.Severity(),
		NoOverride: decision.NoOverride(),
		UI:         make(map[string]moderation.UI),
	}
	contexts := moderation.AllContexts
	if raw := cctx.String("context"); raw != "" {
		c, err := moderation.ParseContext(raw)
		if err != nil {
			return err
		}
		contexts = []moderation.Context{c}
	}
	for _, c := range contexts {
		out.UI[c.String()] = decision.UI(c)
	}
	slog.Debug("moderation decision", "causes", len(out.Causes), "blur", out.Blur, "severity", out.Severity)
	return printJSON(cctx.App.Writer, out)
}

func loadOptions(cctx *cli.Context) (*moderation.Options, error) {
	opts := &moderation.Options{}
	if p := cctx.String("prefs"); p != "" {
		if err := readJSONFile(p, opts); err != nil {
			return nil, err
		}
	}
	if raw := cctx.String("viewer"); raw != "" {
		did, err := syntax.ParseDID(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid viewer DID: %w", err)
		}
		opts.ViewerDID = did
	}
	if cctx.IsSet("adult-content") {
		opts.AdultContent = cctx.Bool("adult-content")
	}

	source, err := loadLabelerDir(cctx.String("labeler-dir"))
	if err != nil {
		return nil, err
	}
	// with no explicit subscriptions, subscribe to everything in the directory
	if len(opts.Labelers) == 0 {
		for _, did := range source.DIDs() {
			opts.Labelers = append(opts.Labelers, moderation.LabelerPrefs{DID: did})
		}
	}
	cache := moderation.NewLabelerCache(source, 0, cctx.Duration("labeler-ttl"))
	cache.HydrateOptions(cctx.Context, opts)
	return opts, nil
}
