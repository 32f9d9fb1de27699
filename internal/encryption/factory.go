package encryption

import (
	"fmt"

	"fv-go/internal/config"
	"fv-go/internal/fv"
)

// NewEncryptorFromConfig creates an Encryptor based on the encryption config type.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (fv.Encryptor, error) {
	switch cfg.Type {
	case "", "age":
		if cfg.PublicKeyPath == "" || cfg.PrivateKeyPath == "" {
			return nil, fmt.Errorf("age encryption requires public_key_path and private_key_path")
		}
		return NewAgeEncryptor(cfg.PublicKeyPath, cfg.PrivateKeyPath), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %s", cfg.Type)
	}
}
