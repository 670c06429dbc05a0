// Package controller
package controller

import (
	"github.com/golang-jwt/jwt/v5"
	. "github.com/half-nothing/simple-fdr/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

// jwtClaims 读取 echo-jwt 中间件写入的令牌声明
func jwtClaims(ctx echo.Context) *Claims {
	token := ctx.Get("user").(*jwt.Token)
	return token.Claims.(*Claims)
}

func jwtHeader(ctx echo.Context) JwtHeader {
	claim := jwtClaims(ctx)
	return JwtHeader{Uid: claim.Uid, Permission: claim.Permission}
}
