package providers

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/KingBodhi/jungleverse/external/providers/parse"
)

// flexValue accepts a JSON string, number or bool and keeps its text form.
// Upstream APIs are inconsistent about quoting amounts and ids.
type flexValue string

func (f *flexValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexValue(strings.TrimSpace(s))
		return nil
	}
	*f = flexValue(data)
	return nil
}

func (f flexValue) String() string {
	return string(f)
}

func (f flexValue) amount() *int64 {
	return parse.CurrencyPtr(string(f))
}

func (f flexValue) int64Ptr() *int64 {
	v, err := strconv.ParseFloat(string(f), 64)
	if err != nil || v <= 0 {
		return nil
	}
	n := int64(v)
	return &n
}

func (f flexValue) intPtr() *int {
	v := f.int64Ptr()
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

// instant reads RFC 3339 text or epoch milliseconds.
func (f flexValue) instant() (time.Time, bool) {
	text := string(f)
	if text == "" {
		return time.Time{}, false
	}
	if ms, err := strconv.ParseInt(text, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func firstFlex(values ...flexValue) flexValue {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
