package blob

import (
	"context"
	"fmt"
	"os"
)

// Environment variables:
//   HIVECORE_BLOB_DRIVER=memory|fs|s3 (default memory)
//   HIVECORE_BLOB_FS_ROOT=<dir> (fs driver, default ./archive)
//   HIVECORE_BLOB_S3_BUCKET=<bucket> (required for s3)
//   HIVECORE_BLOB_S3_REGION=<region> (default us-east-1)
//   HIVECORE_BLOB_S3_ENDPOINT=<url> (optional, for MinIO)
//   HIVECORE_BLOB_S3_PATH_STYLE=true|false (default false)

// Open constructs a store for the named driver. An empty driver falls back
// to the HIVECORE_BLOB_DRIVER environment variable, then to memory.
func Open(ctx context.Context, driver Driver, fsRoot string) (Store, error) {
	if driver == "" {
		driver = Driver(os.Getenv("HIVECORE_BLOB_DRIVER"))
	}
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverFilesystem:
		if fsRoot == "" {
			fsRoot = os.Getenv("HIVECORE_BLOB_FS_ROOT")
		}
		return NewFilesystemStore(fsRoot)
	case DriverS3:
		return openS3FromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", driver)
	}
}
