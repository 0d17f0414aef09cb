package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// FingerprintLength SHA-256 十六进制摘要长度
const FingerprintLength = sha256.Size * 2

// Fingerprint 计算内容的 SHA-256 摘要（小写十六进制）
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ShortFingerprint 返回摘要前 n 个字符，用于展示
func ShortFingerprint(fingerprint string, n int) string {
	if len(fingerprint) <= n {
		return fingerprint
	}
	return fingerprint[:n]
}

// VerifyFingerprint 重新计算内容摘要并与期望值做常量时间比较
func VerifyFingerprint(content, expected string) (string, bool) {
	actual := Fingerprint(content)
	return actual, subtle.ConstantTimeCompare([]byte(actual), []byte(expected)) == 1
}
