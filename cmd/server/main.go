package main

import (
	"log"
	"strings"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/board"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/chat"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/config"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/database"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/disposal"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/hr"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/notification"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/parttimer"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/pos"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/product"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/stock"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/storage"
	storeapi "github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	objectStore, err := storage.New(cfg)
	if err != nil {
		log.Fatal("object storage init:", err)
	}

	hub := chat.NewHub()
	notifier := notification.NewService(hub)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + auth.DeviceIDHeader,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Websocket: token rides in the query string.
	app.Use("/ws", chat.UpgradeMiddleware(cfg))
	app.Get("/ws", chat.WebsocketHandler(hub))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-master", auth.RegisterMasterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Public device-bound endpoints for part-timer phones
	api.Post("/public/devices/verify", parttimer.VerifyDeviceHandler())
	api.Post("/public/attendance/check-in", parttimer.CheckInHandler())
	api.Post("/public/attendance/check-out", parttimer.CheckOutHandler())

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Store management
	protected.Get("/stores", storeapi.ListHandler())
	protected.Get("/stores/:id", storeapi.GetHandler())
	hqStores := protected.Group("/stores")
	hqStores.Use(auth.RequireHeadquarters())
	hqStores.Post("/", storeapi.CreateHandler())
	hqStores.Put("/:id", storeapi.UpdateHandler())
	hqStores.Delete("/:id", storeapi.DeleteHandler())

	// HR
	protected.Get("/hr/employees", hr.ListHandler())
	protected.Get("/hr/employees/export", hr.ExportHandler())
	protected.Get("/hr/employees/:id", hr.GetHandler())
	protected.Post("/hr/employees/:id/image", hr.UploadImageHandler(objectStore))
	hqHR := protected.Group("/hr")
	hqHR.Use(auth.RequireHeadquarters())
	hqHR.Post("/employees", hr.CreateHandler())
	hqHR.Put("/employees/:id", hr.UpdateHandler())
	hqHR.Delete("/employees/:id", hr.DeleteHandler())

	// Products
	protected.Get("/products", product.ListHandler())
	protected.Get("/products/export", product.ExportHandler())
	protected.Get("/products/:id", product.GetHandler())
	hqProducts := protected.Group("/products")
	hqProducts.Use(auth.RequireHeadquarters())
	hqProducts.Post("/", product.CreateHandler())
	hqProducts.Put("/:id", product.UpdateHandler())
	hqProducts.Delete("/:id", product.DeleteHandler())
	hqProducts.Post("/:id/image", product.UploadImageHandler(objectStore))

	// Stock
	protected.Get("/stock/summary", stock.SummaryHandler())
	protected.Get("/stock/detail", stock.DetailHandler())
	protected.Patch("/stock/manual-adjust", stock.ManualAdjustHandler())
	protected.Get("/stock/adjust-log", stock.AdjustLogsHandler())
	protected.Get("/stock/export", stock.ExportHandler(objectStore))
	protected.Post("/stock/transfers", stock.TransferHandler())
	protected.Get("/stock/transfers", stock.ListTransfersHandler())

	// POS transactions and settlements
	protected.Post("/pos/transactions", pos.CreateTransactionHandler())
	protected.Get("/pos/transactions", pos.ListTransactionsHandler())
	protected.Post("/pos/transactions/:id/refund", pos.RefundTransactionHandler())
	protected.Post("/pos/settlements/daily", pos.CreateDailySettlementHandler())
	protected.Post("/pos/settlements/shift", pos.CreateShiftSettlementHandler())
	protected.Post("/pos/settlements/monthly", pos.CreateMonthlySettlementHandler())
	protected.Post("/pos/settlements/yearly", pos.CreateYearlySettlementHandler())
	protected.Get("/pos/settlements/preview", pos.PreviewSettlementHandler())
	protected.Get("/pos/settlements/recent", pos.RecentSettlementsHandler())
	protected.Get("/pos/settlements", pos.ListSettlementsHandler())

	// Disposals
	protected.Get("/disposals/targets", disposal.TargetsHandler())
	protected.Post("/disposals", disposal.CreateHandler())
	protected.Get("/disposals", disposal.ListHandler())
	protected.Delete("/disposals/:id", disposal.CancelHandler())

	// Part-timers & attendance
	protected.Get("/parttimers/attendance", parttimer.ListAttendanceHandler())
	protected.Get("/parttimers", parttimer.ListHandler())
	protected.Post("/parttimers", parttimer.CreateHandler())
	protected.Get("/parttimers/:id", parttimer.GetHandler())
	protected.Put("/parttimers/:id", parttimer.UpdateHandler())
	protected.Patch("/parttimers/:id/resign", parttimer.ResignHandler())
	protected.Delete("/parttimers/:id", parttimer.DeleteHandler(objectStore))
	protected.Post("/parttimers/:id/image", parttimer.UploadImageHandler(objectStore))

	// Chat (headquarters staff only, enforced per handler)
	protected.Get("/chat/employees", chat.ListEmployeesHandler())
	protected.Get("/chat/rooms", chat.ListRoomsHandler())
	protected.Post("/chat/rooms", chat.CreateRoomHandler(hub))
	protected.Get("/chat/rooms/:id", chat.GetRoomHandler())
	protected.Get("/chat/rooms/:id/messages", chat.ListMessagesHandler())
	protected.Post("/chat/rooms/:id/messages", chat.SendMessageHandler(hub))
	protected.Post("/chat/rooms/:id/leave", chat.LeaveRoomHandler(hub))
	protected.Post("/chat/rooms/:id/invite", chat.InviteHandler(hub))
	protected.Post("/chat/rooms/:id/read", chat.MarkReadHandler(hub))
	protected.Post("/chat/rooms/:id/typing", chat.TypingHandler(hub))
	protected.Post("/chat/messages/:id/reactions", chat.ToggleReactionHandler(hub))

	// Notifications
	protected.Get("/board/posts", board.ListPostsHandler())
	protected.Get("/board/posts/:id", board.GetPostHandler())
	protected.Post("/board/posts", board.CreatePostHandler(notifier))
	protected.Post("/board/posts/:id/comments", board.CreateCommentHandler(notifier))
	protected.Delete("/board/posts/:id", board.DeletePostHandler())

	protected.Get("/notifications", notification.ListHandler())
	protected.Get("/notifications/unread-count", notification.UnreadCountHandler())
	protected.Patch("/notifications/read-all", notification.MarkAllReadHandler())
	protected.Patch("/notifications/:id/read", notification.MarkReadHandler())
	hqNotif := protected.Group("/notifications")
	hqNotif.Use(auth.RequireHeadquarters())
	hqNotif.Post("/broadcast", notification.BroadcastHandler(notifier))

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
