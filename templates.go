package intake

import (
	"io/fs"

	vanilla "github.com/goliatone/go-intake/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// or extend them and pass the result to vanilla.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the embedded stylesheet bundle.
//
// Typical mount:
//
//	router.PathPrefix("/assets/").Handler(
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(intake.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
