package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrInvalidBasePath indicates a configured asset directory is not a
	// valid, readable directory.
	ErrInvalidBasePath = errors.New("invalid asset directory")

	// ErrInvalidAssetName indicates the asset name contains path separators
	// or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrProtectedAsset indicates an attempt to remove the designated
	// default placeholder asset.
	ErrProtectedAsset = errors.New("asset is protected")
)
