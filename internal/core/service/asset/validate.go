package asset

import (
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/transformation"
	"encoding/base64"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	maxFolderLength   = 255
	maxPublicIDLength = 255
	maxFilenameLength = 255
	maxTagLength      = 50
	maxTags           = 20
	maxListLimit      = 100
)

// AllowedImageMimeTypes is the whitelist of image MIME types and their extensions.
var AllowedImageMimeTypes = map[string][]string{
	"image/jpeg":    {".jpg", ".jpeg"},
	"image/png":     {".png"},
	"image/gif":     {".gif"},
	"image/webp":    {".webp"},
	"image/bmp":     {".bmp"},
	"image/tiff":    {".tif", ".tiff"},
	"image/avif":    {".avif"},
	"image/heic":    {".heic"},
	"image/svg+xml": {".svg"},
}

var (
	dataURIPattern  = regexp.MustCompile(`^data:([a-zA-Z]+/[a-zA-Z0-9.+-]+);base64,(.*)$`)
	folderPattern   = regexp.MustCompile(`^[a-zA-Z0-9_\-]+(/[a-zA-Z0-9_\-]+)*$`)
	publicIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+(/[a-zA-Z0-9_\-.]+)*$`)
	tagPattern      = regexp.MustCompile(`^[a-zA-Z0-9_\-:. ]+$`)
)

const invalidFileDataMessage = "Invalid file data format. Expected data:<mime>;base64,<data>"

func validateFolder(folder string) error {
	if folder == "" {
		return nil
	}
	if len(folder) > maxFolderLength {
		return domain.NewValidationError("folder", "folder must be at most %d characters", maxFolderLength)
	}
	if !folderPattern.MatchString(folder) {
		return domain.NewValidationError("folder", "folder may only contain letters, digits, '_', '-' and '/' separators, got %q", folder)
	}
	return nil
}

func validatePublicID(publicID string) error {
	if publicID == "" {
		return domain.NewValidationError("publicId", "publicId is required")
	}
	if len(publicID) > maxPublicIDLength {
		return domain.NewValidationError("publicId", "publicId must be at most %d characters", maxPublicIDLength)
	}
	if !publicIDPattern.MatchString(publicID) || strings.Contains(publicID, "..") {
		return domain.NewValidationError("publicId", "publicId may only contain letters, digits, '_', '-', '.' and '/' separators, got %q", publicID)
	}
	return nil
}

func validateTags(tags []string) error {
	if len(tags) > maxTags {
		return domain.NewValidationError("tags", "at most %d tags are allowed, got %d", maxTags, len(tags))
	}
	for _, tag := range tags {
		if tag == "" || len(tag) > maxTagLength {
			return domain.NewValidationError("tags", "tags must be between 1 and %d characters, got %q", maxTagLength, tag)
		}
		if !tagPattern.MatchString(tag) {
			return domain.NewValidationError("tags", "tag %q contains unsupported characters", tag)
		}
	}
	return nil
}

func validateFilename(filename string) error {
	if len(filename) > maxFilenameLength {
		return domain.NewValidationError("filename", "filename must be at most %d characters", maxFilenameLength)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return domain.NewValidationError("filename", "filename %q has no extension", filename)
	}
	for _, exts := range AllowedImageMimeTypes {
		for _, allowed := range exts {
			if ext == allowed {
				return nil
			}
		}
	}
	return domain.NewValidationError("filename", "extension %s is not an allowed image extension", ext).
		WithKind(domain.ErrUnsupportedMimeType)
}

func validateOptions(opts domain.UploadOptions) error {
	if err := validateFolder(opts.Folder); err != nil {
		return err
	}
	if err := validateTags(opts.Tags); err != nil {
		return err
	}
	if opts.PublicID != "" {
		if err := validatePublicID(opts.PublicID); err != nil {
			return err
		}
	}
	if opts.Transformation != nil {
		if err := transformation.Validate(*opts.Transformation); err != nil {
			return err
		}
	}
	return nil
}

func normalizeMimeType(mimeType string) string {
	mimeType = strings.ToLower(mimeType)
	if mimeType == "image/jpg" || mimeType == "image/pjpeg" {
		return "image/jpeg"
	}
	return mimeType
}

// parseDataURI splits a base64 data URI into its declared MIME type and decoded bytes
func parseDataURI(fileData string) (string, []byte, error) {
	matches := dataURIPattern.FindStringSubmatch(fileData)
	if matches == nil {
		return "", nil, domain.NewValidationError("fileData", invalidFileDataMessage).WithKind(domain.ErrInvalidFileData)
	}
	content, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil || len(content) == 0 {
		return "", nil, domain.NewValidationError("fileData", invalidFileDataMessage).WithKind(domain.ErrInvalidFileData)
	}
	return normalizeMimeType(matches[1]), content, nil
}

// checkContent enforces the size limit and that the sniffed type is an allowed image.
// A non-empty declared type must agree with the sniffed one.
func (s *assetService) checkContent(declared string, content []byte) (string, error) {
	if int64(len(content)) > s.uploadCfg.MaxFileSize {
		return "", domain.NewValidationError("file", "file size %d exceeds the maximum of %d bytes", len(content), s.uploadCfg.MaxFileSize).
			WithKind(domain.ErrFileTooLarge)
	}

	if declared != "" {
		if _, ok := AllowedImageMimeTypes[declared]; !ok {
			return "", domain.NewValidationError("file", "unsupported MIME type: %s", declared).WithKind(domain.ErrUnsupportedMimeType)
		}
	}

	detected := mimetype.Detect(content)
	sniffed := normalizeMimeType(detected.String())
	if idx := strings.Index(sniffed, ";"); idx >= 0 {
		sniffed = sniffed[:idx]
	}
	if _, ok := AllowedImageMimeTypes[sniffed]; !ok {
		return "", domain.NewValidationError("file", "file content is not an allowed image, detected %s", sniffed).
			WithKind(domain.ErrUnsupportedMimeType)
	}
	if declared != "" && !detected.Is(declared) {
		return "", domain.NewValidationError("file", "declared MIME type %s does not match file content %s", declared, sniffed).
			WithKind(domain.ErrUnsupportedMimeType)
	}
	return sniffed, nil
}
