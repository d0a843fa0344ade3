// Package serialize provides CloudFormation-specific serialization utilities.
package serialize

import (
	"encoding/json"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// Resource serializes a Go struct to CloudFormation resource properties.
// It handles:
// - json tag names (VpcId, CidrBlock)
// - Omitting nil/zero values (an interface holding false is kept)
// - Nested structs
// - Intrinsics and AttrRef fields (anything implementing json.Marshaler)
func Resource(v any) (map[string]any, error) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return nil, nil
	}

	result := make(map[string]any)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		// Get the JSON tag or use field name
		name := getFieldName(field)
		if name == "-" {
			continue
		}

		// Skip zero values unless explicitly required
		if isZeroValue(fieldVal) {
			continue
		}

		// Serialize the field value
		serialized, err := serializeValue(fieldVal)
		if err != nil {
			return nil, err
		}

		if serialized != nil {
			result[name] = serialized
		}
	}

	return result, nil
}

// getFieldName returns the JSON field name for a struct field.
func getFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}

	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		return field.Name
	}
	return name
}

// isZeroValue returns true if the value is the zero value for its type.
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		// Check if it has an IsZero method
		if v.CanInterface() {
			if zeroer, ok := v.Interface().(interface{ IsZero() bool }); ok {
				return zeroer.IsZero()
			}
		}
		return false
	default:
		return false
	}
}

// serializeValue converts a reflect.Value to a JSON-compatible value.
func serializeValue(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}

	// Handle pointers
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}
		return serializeValue(v.Elem())
	}

	// Handle interfaces
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		return serializeValue(v.Elem())
	}

	// Check if the value implements json.Marshaler
	if v.CanInterface() {
		if marshaler, ok := v.Interface().(json.Marshaler); ok {
			data, err := marshaler.MarshalJSON()
			if err != nil {
				return nil, err
			}
			var result any
			if err := json.Unmarshal(data, &result); err != nil {
				return nil, err
			}
			return result, nil
		}
	}

	switch v.Kind() {
	case reflect.Struct:
		return Resource(v.Interface())

	case reflect.Slice:
		if v.Len() == 0 {
			return nil, nil
		}
		result := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := serializeValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			result[i] = elem
		}
		return result, nil

	case reflect.Map:
		if v.Len() == 0 {
			return nil, nil
		}
		result := make(map[string]any)
		iter := v.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			val, err := serializeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			result[key] = val
		}
		return result, nil

	case reflect.String:
		return v.String(), nil

	case reflect.Bool:
		return v.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil

	case reflect.Float32, reflect.Float64:
		return v.Float(), nil

	default:
		// Fall back to JSON marshaling
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return nil, err
		}
		var result any
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, err
		}
		return result, nil
	}
}

// Reference kinds reported by References.
const (
	KindRef    = "Ref"
	KindGetAtt = "GetAtt"
	KindSub    = "Sub"
)

// Reference is a pointer from serialized properties to another logical name.
type Reference struct {
	Target string
	Kind   string
}

var subVarPattern = regexp.MustCompile(`\$\{([^}!][^}]*)\}`)

// References walks serialized properties (maps, slices and scalars as
// produced by Resource) and returns every logical name they point at
// through Ref, Fn::GetAtt or Fn::Sub. Results are deduplicated per
// target and kind, sorted by target.
func References(v any) []Reference {
	seen := make(map[Reference]bool)
	collectRefs(v, seen)

	refs := make([]Reference, 0, len(seen))
	for r := range seen {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Target != refs[j].Target {
			return refs[i].Target < refs[j].Target
		}
		return refs[i].Kind < refs[j].Kind
	})
	return refs
}

func collectRefs(v any, seen map[Reference]bool) {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 1 {
			if target, ok := val["Ref"].(string); ok {
				seen[Reference{Target: target, Kind: KindRef}] = true
				return
			}
			if getAtt, ok := val["Fn::GetAtt"]; ok {
				if target := getAttTarget(getAtt); target != "" {
					seen[Reference{Target: target, Kind: KindGetAtt}] = true
				}
				return
			}
			if sub, ok := val["Fn::Sub"]; ok {
				collectSub(sub, seen)
				return
			}
		}
		for _, child := range val {
			collectRefs(child, seen)
		}
	case []any:
		for _, child := range val {
			collectRefs(child, seen)
		}
	}
}

// getAttTarget accepts both the list form and the "Name.Attr" string form.
func getAttTarget(v any) string {
	switch att := v.(type) {
	case []any:
		if len(att) > 0 {
			if s, ok := att[0].(string); ok {
				return s
			}
		}
	case []string:
		if len(att) > 0 {
			return att[0]
		}
	case string:
		name, _, _ := strings.Cut(att, ".")
		return name
	}
	return ""
}

func collectSub(v any, seen map[Reference]bool) {
	var (
		text string
		vars map[string]any
	)
	switch sub := v.(type) {
	case string:
		text = sub
	case []any:
		if len(sub) > 0 {
			text, _ = sub[0].(string)
		}
		if len(sub) > 1 {
			vars, _ = sub[1].(map[string]any)
			collectRefs(sub[1], seen)
		}
	}

	for _, m := range subVarPattern.FindAllStringSubmatch(text, -1) {
		name, _, _ := strings.Cut(m[1], ".")
		if _, local := vars[name]; local {
			continue
		}
		seen[Reference{Target: name, Kind: KindSub}] = true
	}
}
