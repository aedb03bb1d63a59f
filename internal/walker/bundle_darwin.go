//go:build darwin

package walker

// Application and rich-text bundles are plain directories on macOS, but
// descending into them is slow and sometimes denied.
func platformRules() []Rule {
	return []Rule{BundleRule(".app", ".rtfd")}
}
