package upload

import (
	"quote-shorts-pipeline/config"
	"quote-shorts-pipeline/types"
)

// BuildMetadata derives the YouTube metadata for a quote video. The title is
// the quote itself, truncated to the configured maximum; the description is
// the quote followed by the configured channel blurb.
func BuildMetadata(cfg *config.Config, quote string) *types.VideoMetadata {
	title := quote
	if max := cfg.Upload.TitleMaxChars; max > 3 {
		if r := []rune(title); len(r) > max {
			title = string(r[:max-3]) + "..."
		}
	}

	desc := quote
	if cfg.Upload.Description != "" {
		desc = quote + "\n\n" + cfg.Upload.Description
	}

	return &types.VideoMetadata{
		Title:         title,
		Description:   desc,
		Tags:          cfg.Upload.Tags,
		CategoryID:    cfg.Upload.CategoryID,
		PrivacyStatus: cfg.Upload.PrivacyStatus,
		MadeForKids:   cfg.Upload.MadeForKids,
	}
}
