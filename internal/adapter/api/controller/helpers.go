package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// queryInt lê um parâmetro de query inteiro, retornando zero quando
// ausente ou inválido
func queryInt(ctx *gin.Context, name string) int {
	v, _ := strconv.Atoi(ctx.Query(name))
	return v
}
