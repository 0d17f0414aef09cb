package document

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name string
		body string
		vars map[string]interface{}
		want string
	}{
		{"无占位符原样返回", "Acta de apertura", map[string]interface{}{"x": "y"}, "Acta de apertura"},
		{"单个替换", "Expediente {{codigo}}", map[string]interface{}{"codigo": "EXP-001"}, "Expediente EXP-001"},
		{"全局替换", "{{a}}-{{a}}", map[string]interface{}{"a": "1"}, "1-1"},
		{"缺失的键替换为空", "monto {{monto}} XAF", nil, "monto  XAF"},
		{"区分大小写", "{{Codigo}}", map[string]interface{}{"codigo": "EXP"}, ""},
		{"替换结果不再展开", "{{a}}", map[string]interface{}{"a": "{{b}}", "b": "no"}, "{{b}}"},
		{"不转义特殊字符", "{{html}}", map[string]interface{}{"html": "<b>&</b>"}, "<b>&</b>"},
		{"nil 为空", "[{{v}}]", map[string]interface{}{"v": nil}, "[]"},
		{"false 为空", "[{{v}}]", map[string]interface{}{"v": false}, "[]"},
		{"0 为空", "[{{v}}]", map[string]interface{}{"v": float64(0)}, "[]"},
		{"true", "[{{v}}]", map[string]interface{}{"v": true}, "[true]"},
		{"大数字不使用科学计数法", "{{v}}", map[string]interface{}{"v": float64(1500000)}, "1500000"},
		{"小数", "{{v}}", map[string]interface{}{"v": 12.5}, "12.5"},
		{"json.Number", "{{v}}", map[string]interface{}{"v": json.Number("42")}, "42"},
		{"数组", "{{v}}", map[string]interface{}{"v": []interface{}{"a", float64(0), nil}}, "a,0,"},
		{"对象", "{{v}}", map[string]interface{}{"v": map[string]interface{}{"k": 1}}, "[object Object]"},
		{"空花括号不是占位符", "{{}}", map[string]interface{}{"": "x"}, "{{}}"},
		{"键中包含空格", "{{ a }}", map[string]interface{}{" a ": "ok"}, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.body, tt.vars))
		})
	}
}

func TestInterpolateIdempotent(t *testing.T) {
	vars := map[string]interface{}{"codigo": "EXP-001", "monto": "1000 XAF"}
	once := Interpolate("Expediente {{codigo}}, monto {{monto}}", vars)
	assert.Equal(t, once, Interpolate(once, vars))
}

func TestMerge(t *testing.T) {
	vars := map[string]interface{}{"monto": "1000 XAF", "codigo_expediente": "caller", "b": 1}
	fields := []Field{
		{Key: "codigo_expediente", Value: "EXP-001"},
		{Key: "institucion", Value: "Ministerio"},
	}

	merged, keys := Merge(vars, fields)

	assert.Equal(t, "EXP-001", merged["codigo_expediente"])
	assert.Equal(t, "1000 XAF", merged["monto"])
	assert.Equal(t, "Ministerio", merged["institucion"])
	assert.Equal(t, []string{"b", "codigo_expediente", "monto", "institucion"}, keys)

	// 调用方的 map 不被修改
	assert.Equal(t, "caller", vars["codigo_expediente"])
}

func TestMergeEmpty(t *testing.T) {
	merged, keys := Merge(nil, nil)
	assert.Empty(t, merged)
	assert.NotNil(t, keys)
	assert.Empty(t, keys)
}

func TestStringifyNumbers(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"整数", float64(42), "42"},
		{"小数", 0.1, "0.1"},
		{"负数", float64(-1500), "-1500"},
		{"1e21 以下保持定点", 1.2345678901234568e20, "123456789012345680000"},
		{"1e21 使用指数", 1e21, "1e+21"},
		{"大指数", 2.5e30, "2.5e+30"},
		{"负数大指数", -1e21, "-1e+21"},
		{"1e-6 保持定点", 1e-6, "0.000001"},
		{"1e-6 以下使用指数", 1.5e-7, "1.5e-7"},
		{"无穷大", math.Inf(1), "Infinity"},
		{"json.Number", json.Number("1e21"), "1e+21"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.value))
		})
	}

	assert.Equal(t, "0,1e+21", Stringify([]interface{}{float64(0), 1e21}))
}
