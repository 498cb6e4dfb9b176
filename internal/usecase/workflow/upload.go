package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"propupkeep/internal/faults"
)

const (
	msgInvalidUploadTarget = "Invalid upload target path."
	msgUploadWriteFailed   = "Could not store uploaded image locally."
	msgUploadPathUnsafe    = "Could not resolve upload storage path safely."
)

var extensionByMime = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
}

var acceptedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// saveImageUpload writes the raw bytes under {reportID}{ext} inside the
// uploads directory and returns the path relative to the application root.
func (s *Service) saveImageUpload(reportID string, imageBytes []byte, imageFilename string, imageMime string) (string, error) {
	target, err := resolveUploadTarget(s.cfg.UploadsDir, reportID+resolveExtension(imageFilename, imageMime))
	if err != nil {
		return "", faults.Rejection(msgInvalidUploadTarget)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", faults.Persistence(msgUploadWriteFailed, err.Error(), err)
	}
	if err := os.WriteFile(target, imageBytes, 0o644); err != nil {
		return "", faults.Persistence(msgUploadWriteFailed, err.Error(), err)
	}

	appRoot, err := filepath.Abs(s.cfg.AppRoot)
	if err != nil {
		return "", faults.Persistence(msgUploadPathUnsafe, err.Error(), err)
	}
	relative, err := filepath.Rel(appRoot, target)
	if err != nil || strings.HasPrefix(relative, "..") {
		return "", faults.Persistence(msgUploadPathUnsafe, fmt.Sprintf("upload target %q escapes application root", target), err)
	}
	return filepath.ToSlash(relative), nil
}

// resolveExtension prefers the accepted filename suffix, falling back to the
// MIME type mapping.
func resolveExtension(imageFilename string, imageMime string) string {
	ext := strings.ToLower(filepath.Ext(imageFilename))
	if _, ok := acceptedExtensions[ext]; ok {
		return ext
	}
	return extensionByMime[imageMime]
}

// resolveUploadTarget joins name under uploadsDir and verifies the resolved
// absolute path stays inside the directory. Attacker-controlled names must
// not be able to traverse out; the check runs before any write.
func resolveUploadTarget(uploadsDir string, name string) (string, error) {
	root, err := filepath.Abs(uploadsDir)
	if err != nil {
		return "", err
	}

	target := filepath.Clean(filepath.Join(root, name))
	if target == root || !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("upload target %q escapes uploads directory %q", target, root)
	}
	return target, nil
}
