// Package state is the local persistence facade: text blobs and screenshot
// files stored beneath the application data directory.
//
// Layout:
//
//	<dataDir>/<relative path>                  data blobs
//	<dataDir>/screenshots/<tradeID>_<filename> screenshots
//
// There is no index, cache or lock; the directory listing is the only record
// of which screenshots exist.
package state
