// Package buildinfo exposes version metadata injected at link time.
package buildinfo

// Overridden via -ldflags "-X ecolog/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = ""
	BuiltAt = ""
)

// Info returns the metadata for the service info endpoint.
func Info() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"builtAt": BuiltAt,
	}
}
