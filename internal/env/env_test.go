package env

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGet(t *testing.T) {
	t.Setenv("VEEDOR_TEST_GET", "value")
	if got := Get("VEEDOR_TEST_GET", "fallback"); got != "value" {
		t.Errorf("Get = %q, want value", got)
	}
	if got := Get("VEEDOR_TEST_GET_MISSING", "fallback"); got != "fallback" {
		t.Errorf("Get = %q, want fallback", got)
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("VEEDOR_TEST_INT", "42")
	if got := GetInt("VEEDOR_TEST_INT", 7); got != 42 {
		t.Errorf("GetInt = %d, want 42", got)
	}
	t.Setenv("VEEDOR_TEST_INT", "not-a-number")
	if got := GetInt("VEEDOR_TEST_INT", 7); got != 7 {
		t.Errorf("GetInt = %d, want fallback 7", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("VEEDOR_TEST_BOOL", "true")
	if !GetBool("VEEDOR_TEST_BOOL", false) {
		t.Error("GetBool = false, want true")
	}
	t.Setenv("VEEDOR_TEST_BOOL", "maybe")
	if GetBool("VEEDOR_TEST_BOOL", true) != true {
		t.Error("GetBool should fall back on unparseable values")
	}
}

func TestGetLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"":      logrus.InfoLevel,
		"other": logrus.InfoLevel,
	}
	for value, want := range cases {
		t.Setenv("LOG_LEVEL", value)
		if got := GetLogLevel(); got != want {
			t.Errorf("GetLogLevel with LOG_LEVEL=%q = %v, want %v", value, got, want)
		}
	}
}
