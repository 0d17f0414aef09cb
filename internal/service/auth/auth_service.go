package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 门户角色
const (
	RoleAdminNacional      = "Admin Nacional"
	RoleAdminInstitucional = "Admin Institucional"
	RoleAuditor            = "Auditor"
)

// JWT Claims
type Claims struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	InstitucionID string `json:"institucion_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthService 校验门户身份服务签发的 HS256 Token
type AuthService struct {
	jwtSecret []byte
	issuer    string
}

// NewAuthService 创建认证服务
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: []byte(jwtSecret), issuer: "pnccp"}
}

// GenerateToken 生成 JWT Token（运维脚本和测试使用，正式 Token 由门户签发）
func (s *AuthService) GenerateToken(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken 验证 JWT Token
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的Token")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errors.New("Token缺少用户ID")
	}
	return claims, nil
}

// HasRole 判断角色是否在允许列表中
func HasRole(role string, allowed ...string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
