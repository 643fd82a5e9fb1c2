package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe secondary key from a display name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FeatureList stores a plan's feature strings as a JSON text column.
type FeatureList []string

func (f FeatureList) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(f))
	return string(b), err
}

func (f *FeatureList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = nil
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("unsupported feature list source %T", src)
	}
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// GeneratePropertyCode yields codes like PROP483920XK7.
func GeneratePropertyCode() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return "PROP" + ts[len(ts)-6:] + randomCode(3)
}

// GeneratePaymentID yields identifiers like PAY_1712345678901_A8B2C1.
func GeneratePaymentID() string {
	return "PAY_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + randomCode(6)
}
