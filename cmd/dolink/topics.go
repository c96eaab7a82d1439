package dolink

import (
	"embed"
	"io/fs"
)

//go:embed topics/*.md
var topicsFS embed.FS

func helpTopics() fs.FS {
	sub, err := fs.Sub(topicsFS, "topics")
	if err != nil {
		return nil
	}
	return sub
}
