package cargo

// Select picks the best record for name out of candidates. The highest
// semantic version wins, including pre-release precedence; records at the
// same version are tie-broken by the lexicographically greatest manifest
// path so the choice is stable for any input ordering. The second return
// is false when no candidate carries the name, which callers treat as
// "dependency absent", not as an error.
func Select(name string, candidates []Package) (Package, bool) {
	var best Package
	found := false
	for _, c := range candidates {
		if c.Name != name {
			continue
		}
		if !found {
			best = c
			found = true
			continue
		}
		switch c.Version.Compare(best.Version) {
		case 1:
			best = c
		case 0:
			if c.ManifestPath > best.ManifestPath {
				best = c
			}
		}
	}
	return best, found
}
