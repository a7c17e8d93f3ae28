package transformation_test

import (
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/transformation"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Dimensions(t *testing.T) {
	tests := []struct {
		name    string
		tr      domain.Transformation
		wantErr bool
	}{
		{name: "width min", tr: domain.Transformation{Width: domain.IntPtr(1)}},
		{name: "width max", tr: domain.Transformation{Width: domain.IntPtr(4000)}},
		{name: "height in range", tr: domain.Transformation{Height: domain.IntPtr(300)}},
		{name: "width too large", tr: domain.Transformation{Width: domain.IntPtr(5000)}, wantErr: true},
		{name: "width negative", tr: domain.Transformation{Width: domain.IntPtr(-1)}, wantErr: true},
		{name: "width zero", tr: domain.Transformation{Width: domain.IntPtr(0)}, wantErr: true},
		{name: "height too large", tr: domain.Transformation{Height: domain.IntPtr(4001)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := transformation.Validate(tt.tr)

			// Assert
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "must be between")
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestValidate_ReportsField(t *testing.T) {
	t.Run("width", func(t *testing.T) {
		// Act
		err := transformation.Validate(domain.Transformation{Width: domain.IntPtr(5000)})

		// Assert
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "width", vErr.Field)
		assert.Contains(t, vErr.Message, "1 and 4000")
	})

	t.Run("crop", func(t *testing.T) {
		// Act
		err := transformation.Validate(domain.Transformation{Crop: "stretch"})

		// Assert
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "crop", vErr.Field)
		assert.Contains(t, vErr.Message, "fill")
	})

	t.Run("gravity", func(t *testing.T) {
		// Act
		err := transformation.Validate(domain.Transformation{Gravity: "middle"})

		// Assert
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "gravity", vErr.Field)
	})

	t.Run("format", func(t *testing.T) {
		// Act
		err := transformation.Validate(domain.Transformation{Format: "exe"})

		// Assert
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "format", vErr.Field)
	})
}

func TestValidate_Quality(t *testing.T) {
	valid := []domain.NumberOrString{"auto", "auto:best", "auto:eco", "1", "100", "75"}
	for _, q := range valid {
		assert.NoError(t, transformation.Validate(domain.Transformation{Quality: q}), string(q))
	}

	invalid := []domain.NumberOrString{"0", "101", "best", "-5", "7.5"}
	for _, q := range invalid {
		err := transformation.Validate(domain.Transformation{Quality: q})
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr, string(q))
		assert.Equal(t, "quality", vErr.Field)
	}
}

func TestValidate_Radius(t *testing.T) {
	valid := []domain.NumberOrString{"max", "0", "2000", "20"}
	for _, r := range valid {
		assert.NoError(t, transformation.Validate(domain.Transformation{Radius: r}), string(r))
	}

	invalid := []domain.NumberOrString{"-1", "2001", "round"}
	for _, r := range invalid {
		err := transformation.Validate(domain.Transformation{Radius: r})
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr, string(r))
		assert.Equal(t, "radius", vErr.Field)
	}
}

func TestValidate_AcceptsFullTransformation(t *testing.T) {
	// Arrange
	tr := domain.Transformation{
		Width:   domain.IntPtr(300),
		Height:  domain.IntPtr(300),
		Crop:    "fill",
		Gravity: "auto",
		Quality: "auto:good",
		Format:  "WEBP",
		Radius:  "max",
	}

	// Act
	err := transformation.Validate(tr)

	// Assert
	assert.NoError(t, err)
}
