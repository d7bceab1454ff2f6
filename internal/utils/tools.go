package utils

import (
	"encoding/base64"
	"fmt"
	"math/rand"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"
)

func EncryptPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

const referenceAlphabet = "abcdefghijklmnopqrstuvwxyz"

// RandomReferenceCode samples length distinct letters from the lowercase
// alphabet. Uniqueness across documents is enforced by the storage layer, not
// here.
func RandomReferenceCode(length int) (string, error) {
	if length <= 0 || length > len(referenceAlphabet) {
		return "", fmt.Errorf("reference length %d out of range", length)
	}
	perm := rand.Perm(len(referenceAlphabet))
	code := make([]byte, length)
	for i := 0; i < length; i++ {
		code[i] = referenceAlphabet[perm[i]]
	}
	return string(code), nil
}

// GenerateQRCode renders data as a PNG and returns it base64-encoded for
// storage alongside the document.
func GenerateQRCode(data string) (string, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}
	return ConvertToBase64(png), nil
}

func ConvertToBase64(image []byte) string {
	return base64.StdEncoding.EncodeToString(image)
}

func ConvertToImage(b64 string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return raw, nil
}
