package importer

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ParseSpecs turns the free-form specs cell into a key/value map. A JSON
// object is accepted as is; anything else is read as "key: value" pairs
// separated by commas. Unusable input yields an empty map.
func ParseSpecs(raw string) map[string]string {
	specs := map[string]string{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return specs
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err == nil && obj != nil {
		for k, v := range obj {
			specs[k] = specValue(v)
		}
		return specs
	}

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key != "" && value != "" {
			specs[key] = value
		}
	}
	return specs
}

func specValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]interface{}, []interface{}:
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParsePrice reads a price cell the lenient way spreadsheets tend to need:
// "9.99", "12 USD" and "1e2" all parse. Negative or unparseable values
// report ok=false.
func ParsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		m := leadingNumber.FindString(raw)
		if m == "" {
			return 0, false
		}
		if v, err = strconv.ParseFloat(m, 64); err != nil {
			return 0, false
		}
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
