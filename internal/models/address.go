package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateAddress выдает новый 16-символьный адрес кошелька.
// Адрес непрозрачный и не переиспользуется, уникальность
// страхует ограничение в БД.
func GenerateAddress() (string, error) {
	buf := make([]byte, AddressLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("не удалось сгенерировать адрес: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
