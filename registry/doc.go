// Package registry maps arbitrary inputs to format converters.
//
// Each converter registers a ConverterMetadata describing its detection
// signals: file extensions, MIME types, magic-byte patterns, and an
// optional content detector for formats that share identical magic bytes
// (e.g. ZIP-based containers). Detect combines the available signals,
// intersects their candidate sets, and resolves ties by declared priority
// and then registration order, so detection is deterministic.
//
// Detection reads at most DetectionPrefixSize bytes of an input, so its
// cost is independent of input size.
//
// The package also resolves each format's parser and renderer (directly or
// through a name-keyed factory table supplied at registration time) and
// checks a format's declared plugin dependencies before use.
package registry
