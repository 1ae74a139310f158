package flowcode

import (
	"encoding/json"
	"testing"
)

var testCode = Code{Index: 3400, Length: 3}

func TestCodeText(t *testing.T) {
	if got := testCode.String(); got != "ZA0" {
		t.Errorf("String() = %q, want \"ZA0\"", got)
	}
	if got := (Code{Index: 5}).String(); got != "" {
		t.Errorf("zero-length String() = %q, want \"\"", got)
	}
	if _, err := (Code{Index: 5}).MarshalText(); err == nil {
		t.Error("MarshalText() with zero length succeeded")
	}

	got, err := ParseCode("ZA0")
	if err != nil {
		t.Fatal(err)
	}
	if got != testCode {
		t.Errorf("ParseCode(\"ZA0\") = %+v, want %+v", got, testCode)
	}
	if _, err := ParseCode("ZAO"); err == nil {
		t.Error("ParseCode(\"ZAO\") succeeded")
	}
}

func TestCodeJSON(t *testing.T) {
	b, err := json.Marshal(testCode)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"ZA0"` {
		t.Errorf("Marshal = %s, want \"ZA0\"", b)
	}

	var got Code
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got != testCode {
		t.Errorf("Unmarshal = %+v, want %+v", got, testCode)
	}

	if err := json.Unmarshal([]byte(`"\u005A\u0041\u0030"`), &got); err != nil || got != testCode {
		t.Errorf("Unmarshal(escaped) = %+v, %v, want %+v", got, err, testCode)
	}

	if err := json.Unmarshal([]byte("null"), &got); err != nil || got != (Code{}) {
		t.Errorf("Unmarshal(null) = %+v, %v", got, err)
	}
	for _, in := range []string{`42`, `"I00"`, `""`} {
		if err := json.Unmarshal([]byte(in), &got); err == nil {
			t.Errorf("Unmarshal(%s) succeeded, got %+v", in, got)
		}
	}
}

func TestCodeSQL(t *testing.T) {
	t.Run("Value", func(t *testing.T) {
		v, err := testCode.Value()
		if err != nil {
			t.Fatal(err)
		}
		if got, ok := v.(string); !ok || got != "ZA0" {
			t.Errorf("Value() = %#v, want \"ZA0\"", v)
		}
	})
	t.Run("Scan", func(t *testing.T) {
		for _, src := range []interface{}{"ZA0", []byte("ZA0"), testCode} {
			var got Code
			if err := got.Scan(src); err != nil {
				t.Fatalf("Scan(%T) error = %v", src, err)
			}
			if got != testCode {
				t.Errorf("Scan(%T) = %+v, want %+v", src, got, testCode)
			}
		}
		var got Code
		if err := got.Scan(nil); err != nil || got != (Code{}) {
			t.Errorf("Scan(nil) = %+v, %v", got, err)
		}
		for _, src := range []interface{}{int64(42), true, 4.2} {
			if err := got.Scan(src); err == nil {
				t.Errorf("Scan(%T) succeeded", src)
			}
		}
	})
}

func TestNullCode(t *testing.T) {
	t.Run("Value", func(t *testing.T) {
		v, err := NullCode{}.Value()
		if err != nil || v != nil {
			t.Errorf("invalid Value() = %v, %v, want nil", v, err)
		}
		v, err = NullCode{Code: testCode, Valid: true}.Value()
		if err != nil || v != "ZA0" {
			t.Errorf("Value() = %v, %v, want \"ZA0\"", v, err)
		}
	})
	t.Run("Scan", func(t *testing.T) {
		var n NullCode
		if err := n.Scan(nil); err != nil || n.Valid {
			t.Errorf("Scan(nil) = %+v, %v", n, err)
		}
		if err := n.Scan("ZA0"); err != nil || !n.Valid || n.Code != testCode {
			t.Errorf("Scan(\"ZA0\") = %+v, %v", n, err)
		}
		if err := n.Scan(true); err == nil || n.Valid {
			t.Errorf("Scan(true) = %+v, %v", n, err)
		}
	})
	t.Run("JSON", func(t *testing.T) {
		b, err := json.Marshal(NullCode{})
		if err != nil || string(b) != "null" {
			t.Errorf("Marshal(invalid) = %s, %v", b, err)
		}
		b, err = json.Marshal(NullCode{Code: testCode, Valid: true})
		if err != nil || string(b) != `"ZA0"` {
			t.Errorf("Marshal(valid) = %s, %v", b, err)
		}
		var n NullCode
		if err := json.Unmarshal([]byte(`"ZA0"`), &n); err != nil || !n.Valid || n.Code != testCode {
			t.Errorf("Unmarshal = %+v, %v", n, err)
		}
		if err := json.Unmarshal([]byte("null"), &n); err != nil || n.Valid {
			t.Errorf("Unmarshal(null) = %+v, %v", n, err)
		}
	})
}
