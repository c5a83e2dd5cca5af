package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deniortyann66-art/vite-et-gourmand/models"
)

// currentActor pulls the authenticated actor set by the auth middleware.
func currentActor(c *gin.Context) (models.Actor, bool) {
	v, exists := c.Get("actor")
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	if !ok || actor.ID == 0 {
		return models.Actor{}, false
	}
	return actor, true
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
