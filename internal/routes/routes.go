package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/handlers"
	"github.com/14kear/online-polls/internal/middleware"
)

// RegisterVoterRoutes expects rg to be behind the auth middleware.
func RegisterVoterRoutes(rg *gin.RouterGroup, handler *handlers.VotingHandler) {
	{
		rg.GET("/polls/", handler.GetPolls)
		rg.GET("/polls/:id/", handler.GetPollByID)

		rg.POST("/polls/:id/vote/", middleware.RequireCapability(entity.CapVote), handler.Vote)

		rg.GET("/polls/:id/results/", handler.GetPollResults)
	}
}

func RegisterAdminRoutes(rg *gin.RouterGroup, handler *handlers.VotingHandler) {
	admin := rg.Group("", middleware.RequireCapability(entity.CapManagePolls))
	{
		admin.POST("/polls/", handler.CreatePoll)
		admin.PUT("/polls/:id/", handler.UpdatePoll)
		admin.DELETE("/polls/:id/", handler.DeletePoll)

		admin.POST("/polls/:id/positions/", handler.CreatePosition)
		admin.POST("/polls/:id/positions/:positionID/candidates/", handler.CreateCandidate)

		admin.GET("/logs/", handler.GetLogs)
	}
}
