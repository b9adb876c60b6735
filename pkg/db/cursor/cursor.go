package cursor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrInvalidFormat    = errors.New("invalid cursor format")
	ErrInvalidSignature = errors.New("invalid cursor signature")
)

// Data is the keyset position a cursor points past.
type Data struct {
	Timestamp int64 `json:"timestamp"`
	ID        int64 `json:"id,omitempty"`
}

// Codec signs cursors so clients cannot forge positions.
type Codec struct {
	secret []byte
}

func New(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) signature(encoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (c *Codec) verify(encoded string, signature string) bool {
	return hmac.Equal([]byte(signature), []byte(c.signature(encoded)))
}

func (c *Codec) Encode(timestamp int64, id int64) string {
	jsonData, _ := json.Marshal(Data{Timestamp: timestamp, ID: id})
	encoded := base64.RawURLEncoding.EncodeToString(jsonData)

	return encoded + "." + c.signature(encoded)
}

func (c *Codec) Decode(token string) (Data, error) {
	parts := strings.Split(token, ".")

	if len(parts) != 2 {
		return Data{}, ErrInvalidFormat
	}

	if !c.verify(parts[0], parts[1]) {
		return Data{}, ErrInvalidSignature
	}

	decoded, err := base64.RawURLEncoding.DecodeString(parts[0])

	if err != nil {
		return Data{}, err
	}

	var data Data

	if err := json.Unmarshal(decoded, &data); err != nil {
		return Data{}, err
	}

	return data, nil
}
