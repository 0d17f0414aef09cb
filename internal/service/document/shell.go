package document

import (
	"bytes"
	"html/template"

	"github.com/pnccp/pnccp-backend/pkg/crypto"
)

// shellFingerprintPrefix 页脚展示的摘要长度
const shellFingerprintPrefix = 16

var shellTemplate = template.Must(template.New("shell").Parse(`
<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Name}}</title>
  <style>
    body {
      font-family: Arial, sans-serif;
      margin: 40px;
      line-height: 1.6;
      color: #333;
    }
    .header {
      text-align: center;
      border-bottom: 2px solid #003d6b;
      padding-bottom: 20px;
      margin-bottom: 30px;
    }
    .title {
      font-size: 24px;
      font-weight: bold;
      color: #003d6b;
      margin: 10px 0;
    }
    .subtitle {
      font-size: 12px;
      color: #666;
    }
    .content {
      white-space: pre-wrap;
      font-size: 11px;
    }
    .footer {
      margin-top: 40px;
      padding-top: 20px;
      border-top: 1px solid #999;
      font-size: 10px;
      color: #666;
      text-align: center;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      margin: 15px 0;
    }
    table, th, td {
      border: 1px solid #ddd;
    }
    th {
      background-color: #f0f0f0;
      font-weight: bold;
      padding: 8px;
    }
    td {
      padding: 8px;
    }
  </style>
</head>
<body>
  <div class="header">
    <div class="title">Plataforma Nacional de Compras y Contratación Pública</div>
    <div class="subtitle">República de Guinea Ecuatorial</div>
    <div style="margin-top: 15px; font-weight: bold;">{{.Name}}</div>
  </div>

  <div class="content">
{{.Body}}
  </div>

  <div class="footer">
    <p>Documento generado automáticamente el {{.GeneratedAt}}</p>
    <p>Hash de integridad: {{.Fingerprint}}...</p>
    <p>Este documento ha sido generado por el sistema PNCCP y tiene validez legal</p>
  </div>
</body>
</html>
`))

// RenderShell 将正文包装为 HTML 文档；模板名称会转义，正文原样输出
func RenderShell(body, templateName, generatedAt, fingerprint string) string {
	var buf bytes.Buffer
	// 参数都是字符串，执行不会失败
	_ = shellTemplate.Execute(&buf, struct {
		Name        string
		Body        template.HTML
		GeneratedAt string
		Fingerprint string
	}{
		Name:        templateName,
		Body:        template.HTML(body),
		GeneratedAt: generatedAt,
		Fingerprint: crypto.ShortFingerprint(fingerprint, shellFingerprintPrefix),
	})
	return buf.String()
}
