package agent

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
)

var (
	doubleBrace = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)
	singleBrace = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)
)

// Render substitutes {{name}} placeholders, then {name} placeholders.
// Structured values are rendered as indented JSON. Unknown names and nil
// values are left as they are.
func Render(template string, vars map[string]any) string {
	replace := func(re *regexp.Regexp, s string) string {
		return re.ReplaceAllStringFunc(s, func(match string) string {
			name := re.FindStringSubmatch(match)[1]
			v, ok := vars[name]
			if !ok || v == nil {
				return match
			}
			return formatValue(v)
		})
	}
	return replace(singleBrace, replace(doubleBrace, template))
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	}

	switch reflect.Indirect(reflect.ValueOf(v)).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
	return fmt.Sprint(v)
}
