package assets

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultLogoName is the base name of the designated "blank" placeholder
// logo, substituted when a row names no logo or names one that does not
// exist. The surrounding management surface must never delete it.
const DefaultLogoName = "blank.png"

// Seal designator to file name lookup. Anything else resolves to no seal.
var sealFiles = map[string]string{
	"novo":     "selo-novo.png",
	"new":      "selo-novo.png",
	"renovado": "selo-renovado.png",
	"renewed":  "selo-renovado.png",
}

// mediaTypes maps file extensions to image media types. Subtype detection
// is by extension only, never by content sniffing.
var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// Store reads logos and seals from two read-only directories.
type Store struct {
	logosDir    string
	sealsDir    string
	defaultLogo string
}

// NewStore creates a Store over the given logo and seal directories.
// defaultLogo is the base name of the placeholder logo; empty means
// DefaultLogoName. Both directories must exist and be readable.
func NewStore(logosDir, sealsDir, defaultLogo string) (*Store, error) {
	logos, err := resolveDir(logosDir)
	if err != nil {
		return nil, err
	}
	seals, err := resolveDir(sealsDir)
	if err != nil {
		return nil, err
	}
	if defaultLogo == "" {
		defaultLogo = DefaultLogoName
	}
	return &Store{logosDir: logos, sealsDir: seals, defaultLogo: defaultLogo}, nil
}

// resolveDir validates that path is a readable directory and returns its
// absolute form.
func resolveDir(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return "", fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}
	return absPath, nil
}

// ValidateAssetName checks that an asset name is safe to use as a file
// name inside a store directory.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// DataURI reads the file at path and returns it as a base64 data URI.
// A missing or unreadable file yields the empty string, not an error;
// callers substitute "" and the template degrades to an absent image.
func DataURI(path string) string {
	b, err := os.ReadFile(path) // #nosec G304 -- paths are built from validated store names
	if err != nil {
		return ""
	}
	mt, ok := mediaTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		mt = "application/octet-stream"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(b)
}

// ResolveLogo inlines the named logo. An empty name, an invalid name, or a
// name that resolves to no file all fall back to the default placeholder;
// if even the placeholder is missing, the empty string is returned.
func (s *Store) ResolveLogo(name string) string {
	if name != "" && ValidateAssetName(name) == nil {
		if uri := DataURI(filepath.Join(s.logosDir, name)); uri != "" {
			return uri
		}
	}
	return DataURI(filepath.Join(s.logosDir, s.defaultLogo))
}

// SealURI inlines the seal asset for a row's seal designator.
// "novo"/"new" and "renovado"/"renewed" map to fixed file names; any other
// value resolves to no seal.
func (s *Store) SealURI(designator string) string {
	file, ok := sealFiles[strings.ToLower(strings.TrimSpace(designator))]
	if !ok {
		return ""
	}
	return DataURI(filepath.Join(s.sealsDir, file))
}

// LogosDir returns the absolute logo directory.
func (s *Store) LogosDir() string { return s.logosDir }

// SealsDir returns the absolute seal directory.
func (s *Store) SealsDir() string { return s.sealsDir }

// DefaultLogo returns the base name of the protected placeholder logo.
func (s *Store) DefaultLogo() string { return s.defaultLogo }

// IsProtected reports whether name is the designated default logo, which
// must never be deleted by the asset management surface.
func (s *Store) IsProtected(name string) bool {
	return name == s.defaultLogo
}
