package configloader

import "github.com/yaklabco/mdpane/pkg/config"

// merge returns a copy of base with every value set in override applied.
// Zero strings and ints leave base alone. Optional booleans apply whenever
// they are non-nil, so a higher layer can turn a setting back off.
func merge(base, override *config.Config) *config.Config {
	switch {
	case base == nil:
		return override
	case override == nil:
		return base
	}

	out := base.Clone()

	overlay(&out.Style, override.Style)
	overlay(&out.StylesDir, override.StylesDir)
	overlay(&out.Language, override.Language)
	overlay(&out.Flavor, override.Flavor)
	overlay(&out.EditorFontSize, override.EditorFontSize)
	overlay(&out.PreviewFontSize, override.PreviewFontSize)

	overlayBool(&out.Preview.Frozen, override.Preview.Frozen)
	overlay(&out.Preview.DebounceMS, override.Preview.DebounceMS)
	overlay(&out.Preview.ScrollRestoreMS, override.Preview.ScrollRestoreMS)

	overlay(&out.Export.PDFTool, override.Export.PDFTool)

	overlayBool(&out.Backups.Enabled, override.Backups.Enabled)
	overlay(&out.Backups.Mode, override.Backups.Mode)

	// Flag-only; never switched off by a later layer.
	out.Debug = out.Debug || override.Debug

	return out
}

func overlay[T comparable](dst *T, src T) {
	var zero T
	if src != zero {
		*dst = src
	}
}

func overlayBool(dst **bool, src *bool) {
	if src != nil {
		*dst = config.Bool(*src)
	}
}

// MergeAll folds configs left to right; later ones win.
func MergeAll(configs ...*config.Config) *config.Config {
	var out *config.Config
	for i, cfg := range configs {
		if i == 0 {
			out = cfg
			continue
		}
		out = merge(out, cfg)
	}
	return out
}
