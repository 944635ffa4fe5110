package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snap-point/directory-api/controllers"
)

func SetupBusinessRoutes(api *gin.RouterGroup, searchController *controllers.SearchController) {
	businesses := api.Group("/businesses")
	{
		businesses.GET("/search", searchController.SearchBusinesses)
		businesses.POST("/search", searchController.SearchBusinesses)
		businesses.POST("/details", searchController.GetBusinessDetailsBatch)
		businesses.GET("/:placeId", searchController.GetBusinessDetails)
	}
}
