// Package cache stores completed translation results keyed by source
// content hash, so repeated runs over an unchanged corpus never re-pay
// for the same unit of work even when the target files were deleted.
package cache

// Cache is the translation result cache. Values are opaque to the cache;
// the caller serializes (JSON-encoded provider results).
type Cache interface {
	// Get retrieves a cached value. False means miss or expired.
	Get(key string) (string, bool)
	// Set stores a value.
	Set(key, value string) error
}

// Key builds the cache key for one (document, target locale) unit.
// The model and the caller's request digest (field set, prompt) are part
// of the key: changing either invalidates everything cached under it.
func Key(contentHash, sourceLang, targetLang, model, requestDigest string) string {
	return contentHash + ":" + sourceLang + ":" + targetLang + ":" + model + ":" + requestDigest
}
