package document

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Interpolate 将 body 中的 {{key}} 替换为变量值
// 区分大小写，只扫描一次，替换结果不会再次展开；缺失或空值替换为空字符串
func Interpolate(body string, vars map[string]interface{}) string {
	return placeholderPattern.ReplaceAllStringFunc(body, func(token string) string {
		key := token[2 : len(token)-2]
		return Stringify(vars[key])
	})
}

// Stringify 变量值转字符串，nil、false、0 和空字符串都视为空
func Stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}
		return "true"
	case float64:
		return formatNumber(v)
	case float32:
		return formatNumber(float64(v))
	case int:
		return formatNumber(float64(v))
	case int64:
		return formatNumber(float64(v))
	case int32:
		return formatNumber(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return v.String()
		}
		return formatNumber(f)
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			if item != nil {
				parts[i] = stringifyElement(item)
			}
		}
		return strings.Join(parts, ",")
	case map[string]interface{}:
		return "[object Object]"
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// stringifyElement 数组元素中 false 和 0 保留原样
func stringifyElement(value interface{}) string {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return jsNumber(v)
	default:
		return Stringify(v)
	}
}

func formatNumber(f float64) string {
	if f == 0 || math.IsNaN(f) {
		return ""
	}
	return jsNumber(f)
}

// jsNumber 与 JavaScript Number#toString 一致：|f| >= 1e21 或 < 1e-6 时使用指数形式
func jsNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	// Go 的指数至少两位（1.5e-07），JavaScript 不补零（1.5e-7）
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

// Merge 以调用方变量为基础，合并实体字段（同名键以实体字段为准）
// 返回合并结果和键的顺序：调用方变量按字母序在前，实体字段按解析顺序在后
func Merge(vars map[string]interface{}, fields []Field) (map[string]interface{}, []string) {
	merged := make(map[string]interface{}, len(vars)+len(fields))
	keys := make([]string, 0, len(vars)+len(fields))

	callerKeys := make([]string, 0, len(vars))
	for k := range vars {
		callerKeys = append(callerKeys, k)
	}
	sort.Strings(callerKeys)
	for _, k := range callerKeys {
		merged[k] = vars[k]
		keys = append(keys, k)
	}

	for _, f := range fields {
		if _, exists := merged[f.Key]; !exists {
			keys = append(keys, f.Key)
		}
		merged[f.Key] = f.Value
	}
	return merged, keys
}
