package archive

import (
	"fmt"
)

// Open builds the backend named by typ: "localfs" (default) rooted at path,
// or "s3" using s3cfg.
func Open(typ, path string, s3cfg S3Config) (Storage, error) {
	switch typ {
	case "", "localfs":
		if path == "" {
			path = "data"
		}
		return NewLocalFS(path)
	case "s3":
		return NewS3(s3cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", typ)
	}
}
