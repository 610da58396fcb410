// Package athn exposes the public contracts for the loader and parser stages.
// A Loader fetches raw document text from a file, an fs.FS entry or a URL and
// wraps it in a Text value; a Parser turns a Text into a model.Document.
// Implementations live under internal/athn and are constructed through the
// top-level athn package.
package athn
