// Package instance derives a stable key identifying one deployment of the
// target application, used to partition stored credentials.
package instance

// PageState is a snapshot of the page signals the key derivation looks at.
// It is captured from a live page by the browser collaborator; both the
// management context and the page-resident context build it from the same
// probe so the derivation never diverges between them.
type PageState struct {
	// DBField is the value of the login form's "db" field, if present.
	DBField string
	// Generator is the content of the page's generator meta tag, if present.
	Generator string
	// Origin is the page's scheme://host:port, always available.
	Origin string
}

// DetectKey returns the instance key for the given page state.
// It is pure and total: the derivation tries the most specific signal
// first and always falls through to the origin.
//
// Priority, first match wins:
//  1. non-empty db form field  → "db:" + value (identifies the backend database)
//  2. non-empty generator meta → "meta:" + content (product family, collisions
//     across deployments sharing the same generator string are accepted)
//  3. otherwise                → "origin:" + scheme://host:port
func DetectKey(state PageState) string {
	if state.DBField != "" {
		return "db:" + state.DBField
	}
	if state.Generator != "" {
		return "meta:" + state.Generator
	}
	return "origin:" + state.Origin
}
