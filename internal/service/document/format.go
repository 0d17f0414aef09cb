package document

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// currencySuffix XAF 在 es-ES 下的货币符号，前面是不换行空格
const currencySuffix = " FCFA"

// Formatter 按 es-ES 习惯格式化实体字段
type Formatter struct {
	loc *time.Location
}

// NewFormatter 创建格式化器，loc 为 nil 时使用 UTC
func NewFormatter(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return Formatter{loc: loc}
}

// Currency 格式化 XAF 金额：无小数，四舍五入，整数部分达到五位才使用 "." 分组
func (f Formatter) Currency(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	digits := rounded.Abs().String()

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	if len(digits) < 5 {
		b.WriteString(digits)
	} else {
		lead := len(digits) % 3
		if lead > 0 {
			b.WriteString(digits[:lead])
		}
		for i := lead; i < len(digits); i += 3 {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(digits[i : i+3])
		}
	}
	b.WriteString(currencySuffix)
	return b.String()
}

// Date 短日期 d/m/yyyy
func (f Formatter) Date(t time.Time) string {
	return t.In(f.loc).Format("2/1/2006")
}

// Timestamp 文档页脚的生成时间 d/m/yyyy, HH:MM:SS
func (f Formatter) Timestamp(t time.Time) string {
	return t.In(f.loc).Format("2/1/2006, 15:04:05")
}
