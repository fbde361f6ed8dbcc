package extract

import "testing"

func TestCoerceInteger(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"int passthrough", int64(8), int64(8)},
		{"json float", float64(32), int64(32)},
		{"fraction string", "8/10", int64(8)},
		{"age with unit", "32 años", int64(32)},
		{"negative", "-5", int64(-5)},
		{"plain digits", "7", int64(7)},
		{"no digits", "muchos", nil},
		{"nil", nil, nil},
		{"list", []any{1}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := coerceInteger(tc.in); got != tc.want {
				t.Errorf("coerceInteger(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCoerceInteger_Idempotent(t *testing.T) {
	first := coerceInteger("8/10")
	second := coerceInteger(first)
	if first != second {
		t.Errorf("coercion not idempotent: %v vs %v", first, second)
	}
}

func TestCoerceBoolean(t *testing.T) {
	cases := []struct {
		in   any
		want any
	}{
		{"sí", true},
		{"Si", true},
		{"VERDADERO", true},
		{"true", true},
		{"1", true},
		{"no", false},
		{"falso", false},
		{"false", false},
		{"0", false},
		{true, true},
		{false, false},
		{float64(1), true},
		{float64(0), false},
		{"tal vez", nil},
		{float64(7), nil},
		{nil, nil},
	}
	for _, tc := range cases {
		if got := coerceBoolean(tc.in); got != tc.want {
			t.Errorf("coerceBoolean(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCoerceFloat(t *testing.T) {
	cases := []struct {
		in   any
		want any
	}{
		{float64(1.5), float64(1.5)},
		{"2.5", float64(2.5)},
		{"3,5", float64(3.5)},
		{int64(4), float64(4)},
		{"unos 7 puntos", float64(7)},
		{"nada", nil},
		{nil, nil},
	}
	for _, tc := range cases {
		if got := coerceFloat(tc.in); got != tc.want {
			t.Errorf("coerceFloat(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCoerceString(t *testing.T) {
	if got := coerceString("  Juan Pérez  "); got != "Juan Pérez" {
		t.Errorf("expected trimmed string, got %v", got)
	}
	if got := coerceString(""); got != nil {
		t.Errorf("empty string must normalize to nil, got %v", got)
	}
	if got := coerceString(float64(42)); got != "42" {
		t.Errorf("expected \"42\", got %v", got)
	}
	if got := coerceString(true); got != "true" {
		t.Errorf("expected \"true\", got %v", got)
	}
}
