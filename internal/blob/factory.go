package blob

import (
	"fmt"

	"fv-go/internal/config"
	"fv-go/internal/fv"
)

// NewStoreFromConfig creates a BlobStore implementation based on the
// blob config type. enc is only consulted when cfg.Encrypted is set.
func NewStoreFromConfig(cfg config.BlobConfig, enc fv.Encryptor) (fv.BlobStore, error) {
	var store fv.BlobStore
	var err error

	switch cfg.Type {
	case "memory":
		store = NewMemoryStore()
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem blob store requires fs_root to be set")
		}
		store, err = NewFileSystemStore(cfg.FSRoot)
		if err != nil {
			return nil, err
		}
	case "s3":
		store, err = NewS3Store(cfg)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown blob store type: %s", cfg.Type)
	}

	if cfg.Encrypted {
		if enc == nil {
			return nil, fmt.Errorf("blob encryption enabled but no encryptor configured")
		}
		store = NewEncryptedStore(store, enc)
	}

	return store, nil
}
