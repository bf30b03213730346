package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"

	"ms-events/internal/models"

	"github.com/skip2/go-qrcode"
)

const imageSize = 256

var ErrInvalidPayload = errors.New("qr: invalid or tampered payload")

type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

// GenerateEncryptedQR returns a PNG whose content is the sealed payload.
func (q *QRGenerator) GenerateEncryptedQR(payload models.VoucherQRPayload) ([]byte, error) {
	sealed, err := q.Encrypt(payload)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(sealed, qrcode.Medium, imageSize)
}

// Encrypt seals payload with AES-GCM; the nonce is prepended and the whole
// thing is URL-safe base64 so it survives being scanned into a query string.
func (q *QRGenerator) Encrypt(payload models.VoucherQRPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	gcm, err := q.aead()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, data, nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

func (q *QRGenerator) DecryptQRData(encoded string) (*models.VoucherQRPayload, error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidPayload
	}

	gcm, err := q.aead()
	if err != nil {
		return nil, err
	}
	if len(raw) < gcm.NonceSize() {
		return nil, ErrInvalidPayload
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]

	data, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidPayload
	}

	var payload models.VoucherQRPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, ErrInvalidPayload
	}
	return &payload, nil
}

func (q *QRGenerator) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(q.secret)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
