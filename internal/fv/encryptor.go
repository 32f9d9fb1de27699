package fv

import "io"

// Encryptor provides symmetric-use encryption for blob contents at
// rest. The server both encrypts on upload and decrypts on fetch, so
// implementations must be able to do both without user interaction.
type Encryptor interface {
	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Decrypt reads ciphertext from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}
