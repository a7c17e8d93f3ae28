package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Transformation is a set of image processing parameters encoded into a delivery URL segment
type Transformation struct {
	Width               *int           `json:"width,omitempty"`
	Height              *int           `json:"height,omitempty"`
	AspectRatio         NumberOrString `json:"aspectRatio,omitempty"`
	DPR                 NumberOrString `json:"dpr,omitempty"`
	Crop                string         `json:"crop,omitempty"`
	Gravity             string         `json:"gravity,omitempty"`
	X                   *int           `json:"x,omitempty"`
	Y                   *int           `json:"y,omitempty"`
	Zoom                NumberOrString `json:"zoom,omitempty"`
	Quality             NumberOrString `json:"quality,omitempty"`
	Format              string         `json:"format,omitempty"`
	Effect              string         `json:"effect,omitempty"`
	Opacity             *int           `json:"opacity,omitempty"`
	Border              string         `json:"border,omitempty"`
	Radius              NumberOrString `json:"radius,omitempty"`
	Angle               *int           `json:"angle,omitempty"`
	Color               string         `json:"color,omitempty"`
	Background          string         `json:"background,omitempty"`
	Overlay             string         `json:"overlay,omitempty"`
	Underlay            string         `json:"underlay,omitempty"`
	Page                *int           `json:"page,omitempty"`
	Density             *int           `json:"density,omitempty"`
	DefaultImage        string         `json:"defaultImage,omitempty"`
	NamedTransformation string         `json:"namedTransformation,omitempty"`
	Flags               StringList     `json:"flags,omitempty"`
	RawTransformation   string         `json:"rawTransformation,omitempty"`
}

// NumberOrString holds a parameter that clients send either as a JSON number or a string
type NumberOrString string

// UnmarshalJSON accepts 80, 1.5, "auto" and null
func (v *NumberOrString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = NumberOrString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected number or string, got %s", data)
	}
	*v = NumberOrString(n.String())
	return nil
}

// Int wraps an int into a NumberOrString
func Int(n int) NumberOrString {
	return NumberOrString(fmt.Sprintf("%d", n))
}

// StringList accepts either a single string or an array of strings
type StringList []string

// UnmarshalJSON accepts "a" and ["a","b"]
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// TransformResult is the URL pair for a transformed asset
type TransformResult struct {
	URL            string
	SecureURL      string
	Transformation string
}

// IntPtr returns a pointer to n
func IntPtr(n int) *int {
	return &n
}
