package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// firstNumberRe finds the first numeral in a free-form string, so "8/10"
// coerces to 8 and "32 años" to 32.
var firstNumberRe = regexp.MustCompile(`-?\d+`)

// trueWords and falseWords are the accepted boolean vocabulary, lowercase.
var (
	trueWords  = map[string]bool{"true": true, "sí": true, "si": true, "verdadero": true, "yes": true, "1": true}
	falseWords = map[string]bool{"false": true, "no": true, "falso": true, "0": true}
)

// coerceInteger converts lenient model values to int64. Unparseable values
// return nil. Already-coerced values pass through unchanged.
func coerceInteger(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(math.Trunc(x))
	case string:
		m := firstNumberRe.FindString(x)
		if m == "" {
			return nil
		}
		n, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil
		}
		return n
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	default:
		return nil
	}
}

// coerceFloat converts lenient model values to float64.
func coerceFloat(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", "."))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			m := firstNumberRe.FindString(x)
			if m == "" {
				return nil
			}
			f, err = strconv.ParseFloat(m, 64)
			if err != nil {
				return nil
			}
		}
		return f
	default:
		return nil
	}
}

// coerceBoolean converts lenient model values to bool using the Spanish and
// English vocabulary. Values outside the vocabulary return nil.
func coerceBoolean(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		return x
	case float64:
		if x == 1 {
			return true
		}
		if x == 0 {
			return false
		}
		return nil
	case int64:
		if x == 1 {
			return true
		}
		if x == 0 {
			return false
		}
		return nil
	case string:
		w := strings.ToLower(strings.TrimSpace(x))
		if trueWords[w] {
			return true
		}
		if falseWords[w] {
			return false
		}
		return nil
	default:
		return nil
	}
}

// coerceString converts scalar model values to a trimmed string. Empty
// strings become nil so optional text fields normalize uniformly.
func coerceString(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		return s
	case float64:
		if x == math.Trunc(x) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return nil
	}
}
