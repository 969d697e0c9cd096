// file: routes/router.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sian-alcock/pairshead-2020/controllers"
	"github.com/sian-alcock/pairshead-2020/middlewares"
	"github.com/sian-alcock/pairshead-2020/models"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	auth := middlewares.JWTAuthMiddleware
	admin := func() gin.HandlerFunc { return middlewares.RoleAuthMiddleware(models.RoleAdmin) }

	apiV1 := r.Group("/api/v1")
	{
		usersPublic := apiV1.Group("/users")
		{
			usersPublic.POST("/register", controllers.Register)
			usersPublic.POST("/login", controllers.Login)
		}

		// --- 船只：列表和详情公开，改动要管理员 ---
		crewRoutes := apiV1.Group("/crews")
		{
			crewRoutes.GET("", controllers.GetCrewList)
			crewRoutes.GET("/:id", controllers.GetCrewDetail)

			crewRoutes.PUT("/:id", auth(), admin(), controllers.UpdateCrew)
			crewRoutes.DELETE("/:id", auth(), admin(), controllers.DeleteCrew)
			crewRoutes.PUT("", auth(), admin(), controllers.BulkUpdateCrewOverrides)
			crewRoutes.POST("/import-broe", auth(), admin(), controllers.ImportCrewsFromBROE)
			crewRoutes.POST("/import-penalties", auth(), admin(), controllers.ImportPenaltiesCSV)
			crewRoutes.POST("/recalculate-rankings", auth(), admin(), controllers.RecalculateRankings)
			crewRoutes.POST("/recalculate-start-orders", auth(), admin(), controllers.RecalculateStartOrders)
		}

		// --- BROE 赛事基础数据：赛事/分组/俱乐部/船员 ---
		eventRoutes := apiV1.Group("/events")
		{
			eventRoutes.GET("", controllers.GetEventList)
			eventRoutes.POST("/import-broe", auth(), admin(), controllers.ImportMeetingSetupFromBROE)
		}
		clubRoutes := apiV1.Group("/clubs")
		{
			clubRoutes.GET("", controllers.GetClubList)
		}
		competitorRoutes := apiV1.Group("/competitors")
		{
			competitorRoutes.GET("", controllers.GetCompetitorList)
			competitorRoutes.POST("/import-broe", auth(), admin(), controllers.ImportCompetitorsFromBROE)
		}

		// --- 打点 ---
		raceTimeRoutes := apiV1.Group("/race-times")
		{
			raceTimeRoutes.GET("", controllers.GetRaceTimeList)
			raceTimeRoutes.GET("/:id", controllers.GetRaceTimeDetail)
			raceTimeRoutes.PUT("/:id", auth(), admin(), controllers.UpdateRaceTime)
			raceTimeRoutes.DELETE("/:id", auth(), admin(), controllers.DeleteRaceTime)
			raceTimeRoutes.POST("/import-csv", auth(), admin(), controllers.ImportRaceTimesCSV)
		}

		// --- 计时设备与时钟偏移 ---
		raceRoutes := apiV1.Group("/races")
		{
			raceRoutes.GET("", controllers.GetRaceList)
			raceRoutes.GET("/:id", controllers.GetRaceDetail)
			raceRoutes.POST("", auth(), admin(), controllers.CreateRace)
			raceRoutes.PUT("/:id", auth(), admin(), controllers.UpdateRace)
			raceRoutes.DELETE("/:id", auth(), admin(), controllers.DeleteRace)
		}
		syncRoutes := apiV1.Group("/race-timing-syncs")
		{
			syncRoutes.GET("", controllers.GetRaceTimingSyncList)
			syncRoutes.POST("", auth(), admin(), controllers.CreateRaceTimingSync)
			syncRoutes.PUT("/:id", auth(), admin(), controllers.UpdateRaceTimingSync)
			syncRoutes.DELETE("/:id", auth(), admin(), controllers.DeleteRaceTimingSync)
		}

		// --- 抽签基数 ---
		eventOrderRoutes := apiV1.Group("/event-order")
		{
			eventOrderRoutes.GET("", controllers.GetEventOrderList)
			eventOrderRoutes.POST("/import-csv", auth(), admin(), controllers.ImportEventOrderCSV)
			eventOrderRoutes.DELETE("/:id", auth(), admin(), controllers.DeleteEventOrder)
		}

		// --- Masters 让时 ---
		mastersRoutes := apiV1.Group("/masters-adjustments")
		{
			mastersRoutes.GET("", controllers.GetMastersAdjustmentList)
			mastersRoutes.POST("/import-csv", auth(), admin(), controllers.ImportMastersAdjustmentsCSV)
		}
		originalCategoryRoutes := apiV1.Group("/original-event-categories")
		{
			originalCategoryRoutes.GET("", controllers.GetOriginalEventCategoryList)
			originalCategoryRoutes.POST("/import-csv", auth(), admin(), controllers.ImportOriginalEventCategoriesCSV)
		}

		// --- 列队分区、号码布地点 ---
		marshallingRoutes := apiV1.Group("/marshalling-divisions")
		{
			marshallingRoutes.GET("", controllers.GetMarshallingDivisionList)
			marshallingRoutes.POST("", auth(), admin(), controllers.CreateMarshallingDivision)
			marshallingRoutes.PUT("/:id", auth(), admin(), controllers.UpdateMarshallingDivision)
			marshallingRoutes.DELETE("/:id", auth(), admin(), controllers.DeleteMarshallingDivision)
			marshallingRoutes.POST("/import-csv", auth(), admin(), controllers.ImportMarshallingDivisionsCSV)
		}
		numberLocationRoutes := apiV1.Group("/number-locations")
		{
			numberLocationRoutes.GET("", controllers.GetNumberLocationList)
			numberLocationRoutes.POST("/import-csv", auth(), admin(), controllers.ImportNumberLocationsCSV)
		}

		// --- 全局配置、BROE meeting key ---
		settingsRoutes := apiV1.Group("/settings")
		{
			settingsRoutes.GET("", controllers.GetGlobalSettings)
			settingsRoutes.PUT("", auth(), admin(), controllers.UpdateGlobalSettings)
		}
		meetingKeyRoutes := apiV1.Group("/event-meeting-keys")
		meetingKeyRoutes.Use(auth(), admin())
		{
			meetingKeyRoutes.GET("", controllers.GetEventMeetingKeyList)
			meetingKeyRoutes.POST("", controllers.CreateEventMeetingKey)
			meetingKeyRoutes.PUT("/:id", controllers.UpdateEventMeetingKey)
			meetingKeyRoutes.DELETE("/:id", controllers.DeleteEventMeetingKey)
		}

		// --- 报表，公开只读，Redis 缓存 ---
		reportRoutes := apiV1.Group("/reports")
		{
			reportRoutes.GET("/dashboard", controllers.GetDashboardStats)
			reportRoutes.GET("/start-order-duplicates", controllers.CheckStartOrderDuplicates)
			reportRoutes.GET("/missing-times", controllers.GetMissingTimesReport)
			reportRoutes.GET("/close-finishes", controllers.GetCloseFinishReport)
			reportRoutes.GET("/raw-time-comparison", controllers.GetRawTimeComparison)
			reportRoutes.GET("/sequence-comparison", controllers.GetSequenceComparison)
			reportRoutes.POST("/results-comparison", controllers.CompareResults)
		}

		// --- CSV 导出 ---
		exportRoutes := apiV1.Group("/exports")
		{
			exportRoutes.GET("/results", controllers.ExportResultsCSV)
			exportRoutes.GET("/bib-data", controllers.ExportBibDataCSV)
			exportRoutes.GET("/start-order", controllers.ExportStartOrderCSV)
			exportRoutes.GET("/webscorer", controllers.ExportWebscorerCSV)
			exportRoutes.GET("/event-order-template", controllers.ExportEventOrderTemplateCSV)
			exportRoutes.GET("/penalties-template", controllers.ExportPenaltiesTemplateCSV)
		}
	}

	return r
}
