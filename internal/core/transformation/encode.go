// Package transformation encodes and validates Cloudinary delivery transformations.
package transformation

import (
	"cloudinary-assets/internal/core/domain"
	"strconv"
	"strings"
)

type segment struct {
	prefix string
	value  func(t domain.Transformation) (string, bool)
}

func intField(get func(t domain.Transformation) *int) func(t domain.Transformation) (string, bool) {
	return func(t domain.Transformation) (string, bool) {
		v := get(t)
		if v == nil {
			return "", false
		}
		return strconv.Itoa(*v), true
	}
}

func stringField(get func(t domain.Transformation) string) func(t domain.Transformation) (string, bool) {
	return func(t domain.Transformation) (string, bool) {
		v := get(t)
		return v, v != ""
	}
}

// segments is the fixed emission order: dimensions, crop/position, quality/format,
// effects, color/background, overlay, document, named transformation.
var segments = []segment{
	{"w_", intField(func(t domain.Transformation) *int { return t.Width })},
	{"h_", intField(func(t domain.Transformation) *int { return t.Height })},
	{"ar_", stringField(func(t domain.Transformation) string { return string(t.AspectRatio) })},
	{"dpr_", stringField(func(t domain.Transformation) string { return string(t.DPR) })},

	{"c_", stringField(func(t domain.Transformation) string { return t.Crop })},
	{"g_", stringField(func(t domain.Transformation) string { return t.Gravity })},
	{"x_", intField(func(t domain.Transformation) *int { return t.X })},
	{"y_", intField(func(t domain.Transformation) *int { return t.Y })},
	{"z_", stringField(func(t domain.Transformation) string { return string(t.Zoom) })},

	{"q_", stringField(func(t domain.Transformation) string { return string(t.Quality) })},
	{"f_", stringField(func(t domain.Transformation) string { return t.Format })},

	{"e_", stringField(func(t domain.Transformation) string { return t.Effect })},
	{"o_", intField(func(t domain.Transformation) *int { return t.Opacity })},
	{"bo_", stringField(func(t domain.Transformation) string { return t.Border })},
	{"r_", stringField(func(t domain.Transformation) string { return string(t.Radius) })},
	{"a_", intField(func(t domain.Transformation) *int { return t.Angle })},

	{"co_", stringField(func(t domain.Transformation) string { return t.Color })},
	{"b_", stringField(func(t domain.Transformation) string { return t.Background })},

	{"l_", stringField(func(t domain.Transformation) string { return t.Overlay })},
	{"u_", stringField(func(t domain.Transformation) string { return t.Underlay })},

	{"pg_", intField(func(t domain.Transformation) *int { return t.Page })},
	{"dn_", intField(func(t domain.Transformation) *int { return t.Density })},
	{"d_", stringField(func(t domain.Transformation) string { return t.DefaultImage })},

	{"t_", stringField(func(t domain.Transformation) string { return t.NamedTransformation })},
}

// Encode renders t as comma separated prefix_value segments.
// Flags emit one fl_ segment each and the raw transformation is appended last, verbatim.
func Encode(t domain.Transformation) string {
	parts := make([]string, 0, len(segments)+len(t.Flags)+1)
	for _, s := range segments {
		if v, ok := s.value(t); ok {
			parts = append(parts, s.prefix+v)
		}
	}
	for _, flag := range t.Flags {
		if flag == "" {
			continue
		}
		parts = append(parts, "fl_"+flag)
	}
	if t.RawTransformation != "" {
		parts = append(parts, t.RawTransformation)
	}
	return strings.Join(parts, ",")
}

// IsEmpty reports whether t would encode to an empty string
func IsEmpty(t domain.Transformation) bool {
	return Encode(t) == ""
}
