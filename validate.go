package goslides

import (
	"fmt"
	"strings"
)

// Validate checks the document for structural issues and returns an error
// describing all problems found, or nil if the document is valid. Loading
// never requires a valid document; this is a lint for tooling.
func Validate(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("validation failed:\n  document is nil")
	}
	var errs []string

	n := len(doc.Slides)
	if n > 0 {
		if doc.CurrentSlide < 0 || doc.CurrentSlide >= n {
			errs = append(errs, fmt.Sprintf("current-slide %d out of range (0-%d)", doc.CurrentSlide, n-1))
		}
		if doc.PreviewSlide < 0 || doc.PreviewSlide >= n {
			errs = append(errs, fmt.Sprintf("preview-slide %d out of range (0-%d)", doc.PreviewSlide, n-1))
		}
	}

	for i, s := range doc.Slides {
		prefix := fmt.Sprintf("slide %d", i+1)
		for _, e := range validateSlide(s) {
			errs = append(errs, prefix+": "+e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateSlide(s SlideRecord) []string {
	var errs []string
	if !s.Transition.Valid() {
		errs = append(errs, fmt.Sprintf("transition %d out of range", int(s.Transition)))
	}
	if s.TransitionDuration < 0 {
		errs = append(errs, "transition duration is negative")
	}
	if _, ok := ParseColor(s.BackgroundColor); !ok {
		errs = append(errs, fmt.Sprintf("background color %q is not a valid color", s.BackgroundColor))
	}

	for j, item := range s.Items {
		prefix := fmt.Sprintf("item %d", j+1)
		if item.W < MinItemSize {
			errs = append(errs, fmt.Sprintf("%s: width %d is below minimum %d", prefix, item.W, MinItemSize))
		}
		if item.H < MinItemSize {
			errs = append(errs, fmt.Sprintf("%s: height %d is below minimum %d", prefix, item.H, MinItemSize))
		}

		switch item.Type {
		case ItemText:
			errs = append(errs, validateText(item.Text, prefix)...)
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown item type %q", prefix, item.Tag))
		}
	}
	return errs
}

// validateText checks text style fields for values loading would silently
// correct.
func validateText(t TextRecord, prefix string) []string {
	var errs []string
	if t.FontSize <= 0 {
		errs = append(errs, fmt.Sprintf("%s: font size %d must be positive", prefix, t.FontSize))
	}
	if t.Font == "" {
		errs = append(errs, prefix+": font family is empty")
	}
	if t.Color != "" {
		if _, ok := ParseColor(t.Color); !ok {
			errs = append(errs, fmt.Sprintf("%s: color %q is not a valid color", prefix, t.Color))
		}
	}
	return errs
}
