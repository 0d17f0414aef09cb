package main

import (
	"github.com/pnccp/pnccp-backend/internal/app"
)

// @title           PNCCP Document API
// @version         1.0
// @description     PNCCP 文档模板、文档生成与发放记录 API

// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize application
	application, err := app.Initialize("")
	if err != nil {
		panic(err)
	}

	// Start server
	app.StartServer(application)
}
