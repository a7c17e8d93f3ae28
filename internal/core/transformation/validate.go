package transformation

import (
	"cloudinary-assets/internal/core/domain"
	"slices"
	"strconv"
	"strings"
)

const (
	MinDimension = 1
	MaxDimension = 4000
	MinQuality   = 1
	MaxQuality   = 100
	MinRadius    = 0
	MaxRadius    = 2000
	RadiusMax    = "max"
)

// AllowedCrops is the canonical crop mode allow-list
var AllowedCrops = []string{
	"scale", "fit", "limit", "mfit", "fill", "lfill", "pad", "lpad", "mpad",
	"fill_pad", "crop", "thumb", "imagga_crop", "imagga_scale", "auto",
}

// AllowedGravities is the canonical gravity allow-list
var AllowedGravities = []string{
	"north_west", "north", "north_east", "west", "center", "east",
	"south_west", "south", "south_east", "xy_center", "face", "faces",
	"face:center", "faces:center", "auto", "body", "ocr_text", "custom",
	"adv_face", "adv_faces", "adv_eyes",
}

// AllowedFormats is the canonical output format allow-list
var AllowedFormats = []string{
	"jpg", "jpeg", "png", "gif", "webp", "avif", "bmp", "tiff", "ico",
	"pdf", "svg", "heic", "auto",
}

// QualityPresets are the named quality values accepted besides 1-100
var QualityPresets = []string{
	"auto", "auto:best", "auto:good", "auto:eco", "auto:low", "jpegmini",
}

// Validate checks t against the allow-lists and ranges, the first offending field is reported
func Validate(t domain.Transformation) error {
	if err := validateDimension("width", t.Width); err != nil {
		return err
	}
	if err := validateDimension("height", t.Height); err != nil {
		return err
	}
	if t.Crop != "" && !slices.Contains(AllowedCrops, t.Crop) {
		return oneOf("crop", t.Crop, AllowedCrops)
	}
	if t.Gravity != "" && !slices.Contains(AllowedGravities, t.Gravity) {
		return oneOf("gravity", t.Gravity, AllowedGravities)
	}
	if err := validateQuality(string(t.Quality)); err != nil {
		return err
	}
	if t.Format != "" && !slices.Contains(AllowedFormats, strings.ToLower(t.Format)) {
		return oneOf("format", t.Format, AllowedFormats)
	}
	return validateRadius(string(t.Radius))
}

func validateDimension(field string, v *int) error {
	if v == nil {
		return nil
	}
	if *v < MinDimension || *v > MaxDimension {
		return domain.NewValidationError(field, "%s must be between %d and %d, got %d", field, MinDimension, MaxDimension, *v)
	}
	return nil
}

func validateQuality(q string) error {
	if q == "" || slices.Contains(QualityPresets, q) {
		return nil
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < MinQuality || n > MaxQuality {
		return domain.NewValidationError("quality", "quality must be between %d and %d or one of: %s, got %q",
			MinQuality, MaxQuality, strings.Join(QualityPresets, ", "), q)
	}
	return nil
}

func validateRadius(r string) error {
	if r == "" || r == RadiusMax {
		return nil
	}
	n, err := strconv.Atoi(r)
	if err != nil || n < MinRadius || n > MaxRadius {
		return domain.NewValidationError("radius", "radius must be between %d and %d or %q, got %q", MinRadius, MaxRadius, RadiusMax, r)
	}
	return nil
}

func oneOf(field, got string, allowed []string) error {
	return domain.NewValidationError(field, "%s must be one of: %s, got %q", field, strings.Join(allowed, ", "), got)
}
