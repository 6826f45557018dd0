package qr

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

type QRGenerator struct {
	size int
}

func NewQRGenerator(size int) *QRGenerator {
	if size <= 0 {
		size = defaultSize
	}
	return &QRGenerator{size: size}
}

// GenerateEventQR encodes the absolute link of an event as a PNG.
func (q *QRGenerator) GenerateEventQR(eventURL string) ([]byte, error) {
	if eventURL == "" {
		return nil, errors.New("empty event URL")
	}
	return qrcode.Encode(eventURL, qrcode.Medium, q.size)
}
