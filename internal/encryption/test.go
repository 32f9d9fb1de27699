package encryption

import (
	"bytes"
	"fmt"
	"io"

	"fv-go/internal/fv"
)

// testHeader marks data produced by the TestEncryptor so Decrypt can
// reject plaintext that was never encrypted.
var testHeader = []byte("fv-test-enc:")

// TestEncryptor is a trivially reversible fv.Encryptor for tests: it
// prefixes a header and XORs every byte with a constant. It provides no
// security whatsoever.
type TestEncryptor struct{}

var _ fv.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a TestEncryptor.
func NewTestEncryptor() *TestEncryptor { return &TestEncryptor{} }

// Encrypt writes the header followed by the XOR-masked input.
func (*TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return xorCopy(w, r)
}

// Decrypt verifies the header and unmasks the remaining bytes.
func (*TestEncryptor) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return fmt.Errorf("data was not encrypted by TestEncryptor")
	}
	return xorCopy(w, r)
}

// xorCopy copies r to w, XORing each byte with 0x5A.
func xorCopy(w io.Writer, r io.Reader) error {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			buf[i] ^= 0x5A
		}
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return fmt.Errorf("writing data: %w", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading data: %w", err)
		}
	}
}
